package sqldb

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

// ServerHandler ensures logical SQL servers. The administrator password is
// held by the handler, never carried in spec properties, so it cannot leak
// into plans, logs or the run manifest.
type ServerHandler struct {
	client        ServersAPI
	adminPassword string
	logger        ports.Logger
}

func NewServerHandler(client ServersAPI, adminPassword string, logger ports.Logger) *ServerHandler {
	return &ServerHandler{client: client, adminPassword: adminPassword, logger: logger}
}

func (h *ServerHandler) Kind() domain.ResourceKind {
	return domain.KindSQLServer
}

func (h *ServerHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("SQL server", spec.Name, err, ctx)
	}
	return mapServer(spec, resp.Server), true, nil
}

func (h *ServerHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	params := armsql.Server{
		Location: to.Ptr(spec.Region),
		Properties: &armsql.ServerProperties{
			AdministratorLogin:         to.Ptr(spec.Property(domain.PropAdminLogin, "sqladmin")),
			AdministratorLoginPassword: to.Ptr(h.adminPassword),
			Version:                    to.Ptr("12.0"),
			MinimalTLSVersion:          to.Ptr("1.2"),
		},
	}
	server, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("SQL server", spec.Name, err, ctx)
	}
	return mapServer(spec, server), nil
}

func mapServer(spec domain.ResourceSpec, server armsql.Server) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if server.ID != nil {
		result.ResourceID = *server.ID
		result.Attributes[domain.AttrID] = *server.ID
	}
	if server.Properties != nil && server.Properties.FullyQualifiedDomainName != nil {
		result.Attributes[domain.AttrFQDN] = *server.Properties.FullyQualifiedDomainName
	}
	return result
}
