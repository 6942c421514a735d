package app

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/runmanifest"
)

// Run executes the provisioning pipeline end to end: resources, directory
// identities, secrets, access policies, deployment, network integration,
// migrations, branding, then the run manifest and report. Stages run
// strictly in order; the first failure aborts the rest, and a re-run
// converges whatever was left behind.
func (a *Application) Run(ctx context.Context) error {
	naming := a.Config.Naming()

	a.Logger.Infof(ctx, "Provisioning %d resources with prefix %s", len(a.Plan), a.Config.Azure.Prefix)
	results, err := a.Engine.Run(ctx, a.Plan)
	if err != nil {
		if reportErr := a.Reporter.Report(ctx, results); reportErr != nil {
			a.Logger.Errorf(ctx, reportErr, "Failed to report partial results")
		}
		return err
	}

	manifest := runmanifest.New(a.Config.Azure.TenantID, a.Config.Azure.SubscriptionID,
		a.Config.Azure.Region, a.Config.VaultName())
	manifest.AddResults(results)

	identities, err := a.provisionIdentities(ctx, results, manifest)
	if err != nil {
		return err
	}
	if err := a.grantVaultAccess(ctx, naming, results); err != nil {
		return err
	}
	if err := a.deployApplications(ctx, naming, manifest); err != nil {
		return err
	}
	if err := a.attachNetworks(ctx, naming); err != nil {
		return err
	}
	if err := a.runMigrations(ctx, naming); err != nil {
		return err
	}
	if err := a.uploadBranding(ctx); err != nil {
		return err
	}

	for _, reg := range identities {
		manifest.AddIdentity(reg)
	}
	path, err := manifest.Write(".")
	if err != nil {
		return err
	}
	a.Logger.Infof(ctx, "Run manifest written to %s", path)

	return a.Reporter.Report(ctx, results)
}

// provisionIdentities ensures the fulfillment API and portal SSO app
// registrations and stores their generated secrets in the vault. Secrets are
// dropped from memory once stored; only vault references survive.
func (a *Application) provisionIdentities(ctx context.Context, results []domain.ProvisioningResult, manifest *runmanifest.Manifest) ([]domain.AppRegistration, error) {
	naming := a.Config.Naming()

	adminHost := hostnameOf(results, naming.AdminWebApp())
	portalHost := hostnameOf(results, naming.PortalWebApp())

	fulfillment, err := a.Identity.CreateOrReuse(ctx, domain.AppRegConfig{
		DisplayName:    naming.FulfillmentAppName(),
		ExistingAppID:  a.Config.Identity.ExistingAppID,
		RedirectURIs:   redirectURIs(adminHost, portalHost),
		SignInAudience: domain.AudienceMultiTenant,
		RequireSecret:  true,
	})
	if err != nil {
		return nil, err
	}
	if fulfillment.ClientSecret != "" {
		record, err := a.Secrets.Store(ctx, "fulfillment-client-secret", fulfillment.ClientSecret)
		if err != nil {
			return nil, err
		}
		manifest.AddSecret(record)
		fulfillment.ClientSecret = ""
	}

	portalSSO, err := a.Identity.CreateOrReuse(ctx, domain.AppRegConfig{
		DisplayName:    naming.PortalSSOAppName(),
		RedirectURIs:   redirectURIs(portalHost),
		SignInAudience: domain.AudienceMultiTenant,
		RequireSecret:  false,
	})
	if err != nil {
		return nil, err
	}

	if a.Config.SQL.AdminPassword != "" {
		record, err := a.Secrets.Store(ctx, "sql-admin-password", a.Config.SQL.AdminPassword)
		if err != nil {
			return nil, err
		}
		manifest.AddSecret(record)
	}

	return []domain.AppRegistration{fulfillment, portalSSO}, nil
}

// grantVaultAccess gives each web app's managed identity read access to the
// vault.
func (a *Application) grantVaultAccess(ctx context.Context, naming domain.Naming, results []domain.ProvisioningResult) error {
	for _, appName := range []string{naming.AdminWebApp(), naming.PortalWebApp()} {
		principalID := attributeOf(results, appName, domain.AttrPrincipalID)
		if principalID == "" {
			a.Logger.Warnf(ctx, "Web app %s has no managed identity principal; skipping vault grant", appName)
			continue
		}
		if err := a.Provider.Vault().GrantReadAccess(ctx, naming.ResourceGroup(), a.Config.VaultName(), principalID); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) deployApplications(ctx context.Context, naming domain.Naming, manifest *runmanifest.Manifest) error {
	if a.Deployer == nil {
		a.Logger.Infof(ctx, "Deployment skipped by configuration")
		return nil
	}

	targets := []struct {
		project string
		app     string
	}{
		{a.Config.Deploy.AdminProjectPath, naming.AdminWebApp()},
		{a.Config.Deploy.PortalProjectPath, naming.PortalWebApp()},
	}
	for _, t := range targets {
		if t.project == "" {
			continue
		}
		outcome, err := a.Deployer.PublishAndDeploy(ctx, t.project, t.app)
		if err != nil {
			return err
		}
		manifest.AddDeployment(outcome)
	}
	return nil
}

// attachNetworks places both web apps on the application subnet so they
// reach SQL over the private endpoint.
func (a *Application) attachNetworks(ctx context.Context, naming domain.Naming) error {
	for _, appName := range []string{naming.AdminWebApp(), naming.PortalWebApp()} {
		err := a.Provider.WebApps().AttachVNet(ctx, naming.ResourceGroup(), appName,
			naming.VirtualNetwork(), naming.AppSubnet())
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) runMigrations(ctx context.Context, naming domain.Naming) error {
	if a.Migrator == nil {
		a.Logger.Infof(ctx, "Migrations skipped by configuration")
		return nil
	}

	outcome, err := a.Migrator.Apply(ctx, migrationIdentities(naming, a.Config.Identity.AdminUsers))
	if err != nil {
		return err
	}
	a.Logger.Infof(ctx, "Migrations complete: %d schema statements, %d grants (SQL auth fallback: %t)",
		outcome.StatementsApplied, outcome.GrantsApplied, outcome.UsedSQLAuthFallback)
	return nil
}

func (a *Application) uploadBranding(ctx context.Context) error {
	if a.Uploader == nil {
		return nil
	}

	count, err := a.Uploader.UploadDir(ctx, a.Config.Deploy.BrandingDir)
	if err != nil {
		return err
	}
	a.Logger.Infof(ctx, "Uploaded %d branding assets", count)
	return nil
}

// migrationIdentities lists every principal the grant pass creates database
// users for: both web apps' managed identities plus any configured admin
// users. Duplicates are dropped so a re-listed user yields one grant set.
func migrationIdentities(naming domain.Naming, adminUsers []string) []string {
	identities := []string{naming.AdminWebApp(), naming.PortalWebApp()}
	seen := map[string]struct{}{
		naming.AdminWebApp():  {},
		naming.PortalWebApp(): {},
	}
	for _, user := range adminUsers {
		if user == "" {
			continue
		}
		if _, dup := seen[user]; dup {
			continue
		}
		seen[user] = struct{}{}
		identities = append(identities, user)
	}
	return identities
}

func hostnameOf(results []domain.ProvisioningResult, appName string) string {
	return attributeOf(results, appName, domain.AttrDefaultHostname)
}

func attributeOf(results []domain.ProvisioningResult, name, attr string) string {
	for _, r := range results {
		if r.Spec.Name == name {
			return r.Attributes[attr]
		}
	}
	return ""
}

func redirectURIs(hosts ...string) []string {
	uris := make([]string, 0, len(hosts))
	for _, host := range hosts {
		if host == "" {
			continue
		}
		uris = append(uris, "https://"+host+"/signin-oidc")
	}
	return uris
}
