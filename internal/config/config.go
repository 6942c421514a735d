package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/errors"
	"github.com/soladipe/saas-provision/internal/log"
)

type Config struct {
	Settings   SettingsConfig   `mapstructure:"settings"`
	Azure      AzureConfig      `mapstructure:"azure"`
	Identity   IdentityConfig   `mapstructure:"identity"`
	SQL        SQLConfig        `mapstructure:"sql"`
	Deploy     DeployConfig     `mapstructure:"deploy"`
	Migrations MigrationsConfig `mapstructure:"migrations"`
	// ManifestPath optionally points at an HCL resource manifest replacing
	// the built-in plan.
	ManifestPath string `mapstructure:"manifest"`
}

type SettingsConfig struct {
	LogLevel  log.Level  `mapstructure:"log_level"`
	LogFormat log.Format `mapstructure:"log_format"`
	Quiet     bool       `mapstructure:"quiet"`
	// APIRateRPS bounds control-plane calls per second.
	APIRateRPS int `mapstructure:"api_rate_rps"`
	// PropagationRetries is the number of re-checks issued when a freshly
	// created resource is not yet visible to reads.
	PropagationRetries  int           `mapstructure:"propagation_retries"`
	PropagationInterval time.Duration `mapstructure:"propagation_interval"`
}

type AzureConfig struct {
	TenantID       string `mapstructure:"tenant_id" validate:"required,uuid4"`
	SubscriptionID string `mapstructure:"subscription_id" validate:"required,uuid4"`
	Region         string `mapstructure:"region" validate:"required"`
	// Prefix seeds every derived resource name; see domain.Naming.
	Prefix string `mapstructure:"prefix" validate:"required"`
	// VaultName overrides the derived Key Vault name.
	VaultName string `mapstructure:"vault_name"`
}

type IdentityConfig struct {
	// ExistingAppID skips creation of the fulfillment application; the
	// caller-supplied identity wins.
	ExistingAppID string   `mapstructure:"existing_app_id"`
	AdminUsers    []string `mapstructure:"admin_users"`
}

type SQLConfig struct {
	AdminUser     string `mapstructure:"admin_user" validate:"required"`
	AdminPassword string `mapstructure:"admin_password"`
	// AllowSQLAuthFallback gates the trust-model change from federated
	// identity to database-local credentials during role grants. Off by
	// default; the fallback never happens silently.
	AllowSQLAuthFallback bool `mapstructure:"allow_sql_auth_fallback"`
}

type DeployConfig struct {
	Skip              bool   `mapstructure:"skip"`
	AdminProjectPath  string `mapstructure:"admin_project"`
	PortalProjectPath string `mapstructure:"portal_project"`
	BrandingDir       string `mapstructure:"branding_dir"`
	// BrandingAccount and BrandingContainer locate the blob container the
	// branding assets are uploaded to. Required only when BrandingDir is set.
	BrandingAccount   string `mapstructure:"branding_account"`
	BrandingContainer string `mapstructure:"branding_container"`
}

type MigrationsConfig struct {
	Skip            bool   `mapstructure:"skip"`
	SchemaModelPath string `mapstructure:"schema_model"`
}

func (c *Config) Naming() domain.Naming {
	return domain.Naming{Prefix: c.Azure.Prefix}
}

func (c *Config) VaultName() string {
	if c.Azure.VaultName != "" {
		return c.Azure.VaultName
	}
	return c.Naming().KeyVault()
}

// Validate fails fast on malformed parameters before any cloud call is made.
func (c *Config) Validate(v *validator.Validate) error {
	if err := v.Struct(c); err != nil {
		var details strings.Builder
		details.WriteString("Configuration validation failed:")
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				details.WriteString(fmt.Sprintf("\n - Field '%s': failed on '%s' (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			details.WriteString(" " + err.Error())
		}
		return errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Check your configuration file or flags.")
	}

	if !domain.ValidPrefix(c.Azure.Prefix) {
		return errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("invalid name prefix %q: must be %d-%d characters, lowercase alphanumeric or hyphen, starting with a letter",
				c.Azure.Prefix, domain.MinPrefixLength, domain.MaxPrefixLength),
			"Choose a shorter prefix; the derived Key Vault name caps at 24 characters.")
	}

	if c.Deploy.BrandingDir != "" && (c.Deploy.BrandingAccount == "" || c.Deploy.BrandingContainer == "") {
		return errors.NewUserFacing(errors.CodeConfigValidation,
			"deploy.branding_account and deploy.branding_container are required when a branding directory is set",
			"Pass --branding-account and --branding-container alongside --branding-dir.")
	}

	// The SQL server create sends the administrator password regardless of
	// whether migrations run, so the run is doomed mid-plan without one.
	if c.SQL.AdminPassword == "" {
		return errors.NewUserFacing(errors.CodeConfigValidation,
			"sql.admin_password is required; the SQL server is created with this administrator password",
			"Set SAASPROV_SQL_ADMIN_PASSWORD or pass --sql-admin-password.")
	}

	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:            log.LevelInfo,
			LogFormat:           log.FormatText,
			APIRateRPS:          10,
			PropagationRetries:  3,
			PropagationInterval: 10 * time.Second,
		},
		SQL: SQLConfig{
			AdminUser: "sqladmin",
		},
		Migrations: MigrationsConfig{
			SchemaModelPath: "schema.model.json",
		},
	}
}
