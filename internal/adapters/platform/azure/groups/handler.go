package groups

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

const resourceType = "resource group"

type Handler struct {
	client GroupsAPI
	logger ports.Logger
}

func NewHandler(client GroupsAPI, logger ports.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

func (h *Handler) Kind() domain.ResourceKind {
	return domain.KindResourceGroup
}

func (h *Handler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify(resourceType, spec.Name, err, ctx)
	}
	return mapGroup(spec, resp.ResourceGroup), true, nil
}

func (h *Handler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	params := armresources.ResourceGroup{
		Location: to.Ptr(spec.Region),
		Tags: map[string]*string{
			"managed-by": to.Ptr("saas-provision"),
		},
	}
	resp, err := h.client.CreateOrUpdate(ctx, spec.Name, params, nil)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify(resourceType, spec.Name, err, ctx)
	}
	return mapGroup(spec, resp.ResourceGroup), nil
}

func mapGroup(spec domain.ResourceSpec, rg armresources.ResourceGroup) domain.ProvisioningResult {
	result := domain.ProvisioningResult{
		Spec:       spec,
		Attributes: map[string]string{},
	}
	if rg.ID != nil {
		result.ResourceID = *rg.ID
		result.Attributes[domain.AttrID] = *rg.ID
	}
	if rg.Location != nil {
		result.Attributes[domain.AttrLocation] = *rg.Location
	}
	if rg.Properties != nil && rg.Properties.ProvisioningState != nil {
		result.Attributes[domain.AttrProvisioningState] = *rg.Properties.ProvisioningState
	}
	return result
}
