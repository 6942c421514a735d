package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soladipe/saas-provision/internal/app"
	apperrors "github.com/soladipe/saas-provision/internal/errors"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "saas-provision",
	Short: "Provisions the Azure footprint for a SaaS marketplace offer.",
	Long: `saas-provision converges the cloud resources a SaaS marketplace offer
needs: network, SQL, Key Vault, App Service, private link, directory app
registrations, application deployment and schema migrations. Every resource
is checked before it is created, so re-running after a failure finishes the
job instead of duplicating it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, bootstrapErr := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if bootstrapErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Application initialization failed: %v\n", bootstrapErr)
			if appErr := (*apperrors.AppError)(nil); errors.As(bootstrapErr, &appErr) {
				if appErr.IsUserFacing {
					fmt.Fprintf(os.Stderr, "Error Details: %s\n", appErr.Message)
					if appErr.SuggestedAction != "" {
						fmt.Fprintf(os.Stderr, "Suggestion: %s\n", appErr.SuggestedAction)
					}
				}
			}
			return bootstrapErr
		}

		runErr := application.Run(cmd.Context())
		if runErr != nil {
			userMsg, suggestion, _ := apperrors.GetUserFacingMessage(runErr)
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
			if suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
			}
			return runErr
		}

		return nil
	},
	SilenceUsage: true,
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .saas-provision.yaml)")
	pf.String("prefix", "", "Name prefix for every derived resource (required, max 21 chars)")
	pf.String("region", "", "Azure region for all resources")
	pf.String("tenant-id", "", "Entra tenant ID")
	pf.String("subscription-id", "", "Azure subscription ID")
	pf.String("vault-name", "", "Key Vault name (derived from prefix by default)")
	pf.StringSlice("admin-users", nil, "Directory users granted admin access")
	pf.String("existing-app-id", "", "Reuse this app registration instead of creating one")
	pf.String("manifest", "", "HCL resource manifest replacing the built-in plan")
	pf.String("sql-admin-user", "", "SQL administrator login")
	pf.String("sql-admin-password", "", "SQL administrator password")
	pf.Bool("allow-sql-auth-fallback", false, "Permit falling back to SQL authentication for role grants")
	pf.String("admin-project", "", "Path of the admin site project to publish")
	pf.String("portal-project", "", "Path of the customer portal project to publish")
	pf.String("branding-dir", "", "Directory of branding assets to upload")
	pf.String("branding-account", "", "Storage account receiving branding assets")
	pf.String("branding-container", "", "Blob container receiving branding assets")
	pf.String("schema-model", "", "Schema model file for migrations")
	pf.Bool("skip-deploy", false, "Skip application publish and deployment")
	pf.Bool("skip-migrations", false, "Skip schema migrations and role grants")
	pf.Bool("quiet", false, "Suppress colored report output")
	pf.String("log-level", "", "Override log level (debug, info, warn, error)")
	pf.String("log-format", "", "Override log format (text, json)")

	bindings := map[string]string{
		"azure.prefix":                "prefix",
		"azure.region":                "region",
		"azure.tenant_id":             "tenant-id",
		"azure.subscription_id":       "subscription-id",
		"azure.vault_name":            "vault-name",
		"identity.admin_users":        "admin-users",
		"identity.existing_app_id":    "existing-app-id",
		"manifest":                    "manifest",
		"sql.admin_user":              "sql-admin-user",
		"sql.admin_password":          "sql-admin-password",
		"sql.allow_sql_auth_fallback": "allow-sql-auth-fallback",
		"deploy.admin_project":        "admin-project",
		"deploy.portal_project":       "portal-project",
		"deploy.branding_dir":         "branding-dir",
		"deploy.branding_account":     "branding-account",
		"deploy.branding_container":   "branding-container",
		"deploy.skip":                 "skip-deploy",
		"migrations.schema_model":     "schema-model",
		"migrations.skip":             "skip-migrations",
		"settings.quiet":              "quiet",
		"settings.log_level":          "log-level",
		"settings.log_format":         "log-format",
	}
	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, pf.Lookup(flag)))
	}

	viper.SetEnvPrefix("SAASPROV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".saas-provision")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}
