package azure

import (
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/groups"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/network"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/privatelink"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/sqldb"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/vault"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/web"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// ProviderConfig carries the settings the handlers need beyond the ARM
// clients themselves.
type ProviderConfig struct {
	TenantID         string
	SQLAdminPassword string
}

// Provider owns one handler per supported resource kind. Handlers that
// expose post-provisioning operations (access policy grants, publishing
// credentials, VNet integration) are kept as typed fields so the pipeline
// can reach them without type assertions.
type Provider struct {
	vaultHandler *vault.Handler
	appHandler   *web.AppHandler
	handlers     []ports.ResourceHandler
	logger       ports.Logger
}

func NewProvider(clients *ClientSet, cfg ProviderConfig, logger ports.Logger) (*Provider, error) {
	if clients == nil {
		return nil, errors.New(errors.CodeConfigValidation, "client set cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}

	vaultHandler := vault.NewHandler(vault.WrapVaults(clients.Vaults), cfg.TenantID, logger)
	appHandler := web.NewAppHandler(web.WrapWebApps(clients.WebApps), clients.SubscriptionID, logger)

	p := &Provider{
		vaultHandler: vaultHandler,
		appHandler:   appHandler,
		logger:       logger,
		handlers: []ports.ResourceHandler{
			groups.NewHandler(clients.ResourceGroups, logger),
			network.NewVNetHandler(network.WrapVirtualNetworks(clients.VirtualNetworks), logger),
			network.NewSubnetHandler(network.WrapSubnets(clients.Subnets), logger),
			sqldb.NewServerHandler(sqldb.WrapServers(clients.SQLServers), cfg.SQLAdminPassword, logger),
			sqldb.NewDatabaseHandler(sqldb.WrapDatabases(clients.SQLDatabases), logger),
			vaultHandler,
			web.NewPlanHandler(web.WrapPlans(clients.Plans), logger),
			appHandler,
			privatelink.NewEndpointHandler(privatelink.WrapPrivateEndpoints(clients.PrivateEndpoints), clients.SubscriptionID, logger),
			privatelink.NewZoneHandler(privatelink.WrapPrivateZones(clients.PrivateZones), privatelink.WrapVNetLinks(clients.VNetLinks), clients.SubscriptionID, logger),
		},
	}
	return p, nil
}

// Handlers returns one handler per supported resource kind, ready for
// registry registration.
func (p *Provider) Handlers() []ports.ResourceHandler {
	return p.handlers
}

// Vault exposes the key vault handler for access policy grants.
func (p *Provider) Vault() *vault.Handler {
	return p.vaultHandler
}

// WebApps exposes the web app handler for publishing credentials and VNet
// integration.
func (p *Provider) WebApps() *web.AppHandler {
	return p.appHandler
}
