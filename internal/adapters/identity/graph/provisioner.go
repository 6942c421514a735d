package graph

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

const defaultSecretValidity = 2 * 365 * 24 * time.Hour

// Provisioner ensures directory app registrations the same way the resource
// engine ensures ARM resources: look first, create only when absent, then
// wait for the new object to become visible to reads.
type Provisioner struct {
	directory DirectoryAPI
	logger    ports.Logger

	visibilityRetries  int
	visibilityInterval time.Duration
}

func NewProvisioner(directory DirectoryAPI, logger ports.Logger, retries int, interval time.Duration) (*Provisioner, error) {
	if directory == nil {
		return nil, errors.New(errors.CodeConfigValidation, "directory API cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}
	if retries <= 0 {
		retries = 3
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Provisioner{
		directory:          directory,
		logger:             logger,
		visibilityRetries:  retries,
		visibilityInterval: interval,
	}, nil
}

// CreateOrReuse converges one app registration. A caller-supplied app ID
// always wins: the directory is only consulted to resolve the object ID and
// no create call is issued.
func (p *Provisioner) CreateOrReuse(ctx context.Context, cfg domain.AppRegConfig) (domain.AppRegistration, error) {
	if cfg.ExistingAppID != "" {
		return p.reuseExisting(ctx, cfg)
	}

	audience := cfg.SignInAudience
	if audience == "" {
		audience = domain.AudienceMultiTenant
	}

	existing, found, err := p.directory.FindApplicationByDisplayName(ctx, cfg.DisplayName)
	if err != nil {
		return domain.AppRegistration{}, err
	}
	if found {
		p.logger.Infof(ctx, "Reusing app registration %s (appId %s)", cfg.DisplayName, existing.AppID)
		return p.finish(ctx, cfg, existing, audience, false)
	}

	created, err := p.directory.CreateApplication(ctx, cfg.DisplayName, audience, cfg.RedirectURIs)
	if err != nil {
		return domain.AppRegistration{}, err
	}
	p.logger.Infof(ctx, "Created app registration %s (appId %s)", cfg.DisplayName, created.AppID)

	if err := p.awaitVisible(ctx, created.AppID); err != nil {
		return domain.AppRegistration{}, err
	}

	spID, err := p.directory.CreateServicePrincipal(ctx, created.AppID)
	if err != nil {
		return domain.AppRegistration{}, err
	}

	reg, err := p.finish(ctx, cfg, created, audience, true)
	if err != nil {
		return domain.AppRegistration{}, err
	}
	reg.ServicePrincipalID = spID
	return reg, nil
}

func (p *Provisioner) reuseExisting(ctx context.Context, cfg domain.AppRegConfig) (domain.AppRegistration, error) {
	app, found, err := p.directory.FindApplicationByAppID(ctx, cfg.ExistingAppID)
	if err != nil {
		return domain.AppRegistration{}, err
	}
	if !found {
		return domain.AppRegistration{}, errors.NewUserFacing(errors.CodeResourceNotFound,
			"supplied application ID "+cfg.ExistingAppID+" was not found in the directory",
			"Check the application ID, or omit it to have a registration created")
	}
	return domain.AppRegistration{
		DisplayName:    app.DisplayName,
		ApplicationID:  app.AppID,
		ObjectID:       app.ObjectID,
		RedirectURIs:   cfg.RedirectURIs,
		SignInAudience: cfg.SignInAudience,
		Created:        false,
	}, nil
}

// finish fills the registration and mints a client secret when one is
// required. Graph never returns an existing secret, so a reused registration
// still gets a fresh credential.
func (p *Provisioner) finish(ctx context.Context, cfg domain.AppRegConfig, app Application, audience string, created bool) (domain.AppRegistration, error) {
	reg := domain.AppRegistration{
		DisplayName:    app.DisplayName,
		ApplicationID:  app.AppID,
		ObjectID:       app.ObjectID,
		RedirectURIs:   cfg.RedirectURIs,
		SignInAudience: audience,
		Created:        created,
	}
	if !cfg.RequireSecret {
		return reg, nil
	}

	validity := cfg.SecretValidity
	if validity <= 0 {
		validity = defaultSecretValidity
	}
	secret, err := p.directory.AddPassword(ctx, app.ObjectID, cfg.DisplayName+" client secret", validity)
	if err != nil {
		return domain.AppRegistration{}, err
	}
	reg.ClientSecret = secret
	return reg, nil
}

// awaitVisible re-reads a freshly created application until directory
// replication makes it queryable. Creates succeed before reads converge.
func (p *Provisioner) awaitVisible(ctx context.Context, appID string) error {
	attempt := 0
	check := func() error {
		attempt++
		_, found, err := p.directory.FindApplicationByAppID(ctx, appID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !found {
			p.logger.Debugf(ctx, "Application %s not yet visible (attempt %d)", appID, attempt)
			return errors.Newf(errors.CodePropagationError, "application %s not yet visible", appID)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.visibilityInterval), uint64(p.visibilityRetries)),
		ctx,
	)
	if err := backoff.Retry(check, policy); err != nil {
		if errors.Is(err, errors.CodePropagationError) {
			return errors.WrapUserFacing(err, errors.CodePropagationError,
				"operation 'create application "+appID+"' did not become visible in time",
				"Re-run the command; directory replication can lag behind creation")
		}
		return err
	}
	return nil
}
