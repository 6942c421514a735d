package sqldb

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

type DatabaseHandler struct {
	client DatabasesAPI
	logger ports.Logger
}

func NewDatabaseHandler(client DatabasesAPI, logger ports.Logger) *DatabaseHandler {
	return &DatabaseHandler{client: client, logger: logger}
}

func (h *DatabaseHandler) Kind() domain.ResourceKind {
	return domain.KindSQLDatabase
}

func (h *DatabaseHandler) serverName(spec domain.ResourceSpec) (string, error) {
	server := spec.Property(domain.PropSQLServer, "")
	if server == "" {
		return "", errors.Newf(errors.CodePlanError, "database %s is missing the %s property", spec.Name, domain.PropSQLServer)
	}
	return server, nil
}

func (h *DatabaseHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	server, err := h.serverName(spec)
	if err != nil {
		return domain.ProvisioningResult{}, false, err
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, server, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("SQL database", spec.Name, err, ctx)
	}
	return mapDatabase(spec, resp.Database), true, nil
}

func (h *DatabaseHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	server, err := h.serverName(spec)
	if err != nil {
		return domain.ProvisioningResult{}, err
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	params := armsql.Database{
		Location: to.Ptr(spec.Region),
		SKU: &armsql.SKU{
			Name: to.Ptr(spec.Property(domain.PropSKU, "S0")),
		},
	}
	db, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, server, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("SQL database", spec.Name, err, ctx)
	}
	return mapDatabase(spec, db), nil
}

func mapDatabase(spec domain.ResourceSpec, db armsql.Database) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if db.ID != nil {
		result.ResourceID = *db.ID
		result.Attributes[domain.AttrID] = *db.ID
	}
	if db.Properties != nil && db.Properties.Status != nil {
		result.Attributes[domain.AttrProvisioningState] = string(*db.Properties.Status)
	}
	return result
}
