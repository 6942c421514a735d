package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/soladipe/saas-provision/internal/adapters/deploy"
	"github.com/soladipe/saas-provision/internal/adapters/identity/graph"
	"github.com/soladipe/saas-provision/internal/adapters/migrate"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/adapters/secrets/keyvault"
	"github.com/soladipe/saas-provision/internal/config"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/core/service"
	"github.com/soladipe/saas-provision/internal/errors"
	"github.com/soladipe/saas-provision/internal/log"
	"github.com/soladipe/saas-provision/internal/manifest"
	"github.com/soladipe/saas-provision/internal/reporting/text"
)

// Application holds the wired pipeline. Optional stages (deploy, migrations,
// branding) are nil when configuration disables them.
type Application struct {
	Config *config.Config
	Logger ports.Logger

	Plan     []domain.ResourceSpec
	Engine   *service.ProvisioningEngine
	Provider *azure.Provider
	Identity ports.IdentityProvisioner
	Secrets  ports.SecretStore
	Deployer ports.Deployer
	Uploader ports.AssetUploader
	Migrator ports.MigrationRunner
	Reporter ports.Reporter
}

// BuildApplicationFromViper wires every adapter from configuration. The
// credential is constructed exactly once, after validation, and threaded
// through all adapters; no ambient CLI session state is consulted.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := cfg.Validate(validate); err != nil {
		logger.Errorf(ctx, err, "Configuration validation failed")
		return nil, err
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	limiter.Initialize(cfg.Settings.APIRateRPS, logger)

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: cfg.Azure.TenantID,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAuthError, "building Azure credential")
	}

	clients, err := azure.NewClientSet(cred, cfg.Azure.SubscriptionID, nil)
	if err != nil {
		return nil, err
	}

	provider, err := azure.NewProvider(clients, azure.ProviderConfig{
		TenantID:         cfg.Azure.TenantID,
		SQLAdminPassword: cfg.SQL.AdminPassword,
	}, logger.WithFields(map[string]any{"component": "azure"}))
	if err != nil {
		return nil, err
	}

	registry := service.NewHandlerRegistry()
	for _, handler := range provider.Handlers() {
		if err := registry.Register(handler); err != nil {
			return nil, err
		}
	}

	engine, err := service.NewProvisioningEngine(registry,
		logger.WithFields(map[string]any{"component": "engine"}),
		service.RetryConfig{
			PropagationRetries:  cfg.Settings.PropagationRetries,
			PropagationInterval: cfg.Settings.PropagationInterval,
		})
	if err != nil {
		return nil, err
	}

	plan, err := buildPlan(cfg)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Config:   cfg,
		Logger:   logger,
		Plan:     plan,
		Engine:   engine,
		Provider: provider,
	}

	if err := app.wireIdentity(cred, logger); err != nil {
		return nil, err
	}
	if err := app.wireSecrets(cred, logger); err != nil {
		return nil, err
	}
	if err := app.wireDeploy(cred, logger); err != nil {
		return nil, err
	}
	if err := app.wireMigrations(logger); err != nil {
		return nil, err
	}

	reporter, err := text.NewReporter(text.Config{NoColor: cfg.Settings.Quiet}, logger)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize reporter")
	}
	app.Reporter = reporter

	logger.Infof(ctx, "Application bootstrap complete")
	return app, nil
}

func buildPlan(cfg *config.Config) ([]domain.ResourceSpec, error) {
	if cfg.ManifestPath == "" {
		return service.DefaultPlan(cfg), nil
	}
	naming := cfg.Naming()
	return manifest.Parse(cfg.ManifestPath, manifest.Defaults{
		ResourceGroup: naming.ResourceGroup(),
		Region:        cfg.Azure.Region,
	})
}

func (a *Application) wireIdentity(cred azcore.TokenCredential, logger ports.Logger) error {
	directory, err := graph.NewClient(cred)
	if err != nil {
		return err
	}
	provisioner, err := graph.NewProvisioner(directory,
		logger.WithFields(map[string]any{"component": "identity"}),
		a.Config.Settings.PropagationRetries, a.Config.Settings.PropagationInterval)
	if err != nil {
		return err
	}
	a.Identity = provisioner
	return nil
}

func (a *Application) wireSecrets(cred azcore.TokenCredential, logger ports.Logger) error {
	client, err := keyvault.NewClient(a.Config.VaultName(), cred)
	if err != nil {
		return err
	}
	store, err := keyvault.NewStore(client, a.Config.VaultName(),
		logger.WithFields(map[string]any{"component": "secrets"}))
	if err != nil {
		return err
	}
	a.Secrets = store
	return nil
}

func (a *Application) wireDeploy(cred azcore.TokenCredential, logger ports.Logger) error {
	if a.Config.Deploy.Skip {
		return nil
	}

	deployer, err := deploy.NewZipDeployer(
		deploy.NewCommandRunner(),
		a.Provider.WebApps(),
		&http.Client{Timeout: 10 * time.Minute},
		a.Config.Naming().ResourceGroup(),
		logger.WithFields(map[string]any{"component": "deploy"}),
	)
	if err != nil {
		return err
	}
	a.Deployer = deployer

	if a.Config.Deploy.BrandingDir == "" {
		return nil
	}
	blobClient, err := deploy.NewBlobClient(a.Config.Deploy.BrandingAccount, cred)
	if err != nil {
		return err
	}
	uploader, err := deploy.NewBrandingUploader(blobClient, a.Config.Deploy.BrandingContainer,
		logger.WithFields(map[string]any{"component": "branding"}))
	if err != nil {
		return err
	}
	a.Uploader = uploader
	return nil
}

func (a *Application) wireMigrations(logger ports.Logger) error {
	if a.Config.Migrations.Skip {
		return nil
	}

	model, err := migrate.LoadModel(a.Config.Migrations.SchemaModelPath)
	if err != nil {
		return err
	}
	naming := a.Config.Naming()
	runner, err := migrate.NewRunner(migrate.RunnerConfig{
		ServerFQDN:           naming.SQLServer() + ".database.windows.net",
		Database:             naming.SQLDatabase(),
		AdminUser:            a.Config.SQL.AdminUser,
		AdminPassword:        a.Config.SQL.AdminPassword,
		AllowSQLAuthFallback: a.Config.SQL.AllowSQLAuthFallback,
	}, model, logger.WithFields(map[string]any{"component": "migrations"}))
	if err != nil {
		return err
	}
	a.Migrator = runner
	return nil
}
