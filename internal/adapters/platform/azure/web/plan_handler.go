package web

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

type PlanHandler struct {
	client PlansAPI
	logger ports.Logger
}

func NewPlanHandler(client PlansAPI, logger ports.Logger) *PlanHandler {
	return &PlanHandler{client: client, logger: logger}
}

func (h *PlanHandler) Kind() domain.ResourceKind {
	return domain.KindAppServicePlan
}

func (h *PlanHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("app service plan", spec.Name, err, ctx)
	}
	return mapPlan(spec, resp.Plan), true, nil
}

func (h *PlanHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	params := armappservice.Plan{
		Location: to.Ptr(spec.Region),
		SKU: &armappservice.SKUDescription{
			Name: to.Ptr(spec.Property(domain.PropSKU, "P1v3")),
			Tier: to.Ptr(spec.Property(domain.PropTier, "PremiumV3")),
		},
		Properties: &armappservice.PlanProperties{
			Reserved: to.Ptr(true),
		},
	}
	plan, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("app service plan", spec.Name, err, ctx)
	}
	return mapPlan(spec, plan), nil
}

func mapPlan(spec domain.ResourceSpec, plan armappservice.Plan) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if plan.ID != nil {
		result.ResourceID = *plan.ID
		result.Attributes[domain.AttrID] = *plan.ID
	}
	if plan.Properties != nil && plan.Properties.ProvisioningState != nil {
		result.Attributes[domain.AttrProvisioningState] = string(*plan.Properties.ProvisioningState)
	}
	return result
}
