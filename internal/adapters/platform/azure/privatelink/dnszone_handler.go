package privatelink

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/privatedns/armprivatedns"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/shared"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// ZoneHandler ensures the private DNS zone that resolves the SQL private link
// hostname, and links it to the virtual network right after creation so apps
// on the VNet resolve the private address.
type ZoneHandler struct {
	zones          PrivateZonesAPI
	links          VNetLinksAPI
	subscriptionID string
	logger         ports.Logger
}

func NewZoneHandler(zones PrivateZonesAPI, links VNetLinksAPI, subscriptionID string, logger ports.Logger) *ZoneHandler {
	return &ZoneHandler{zones: zones, links: links, subscriptionID: subscriptionID, logger: logger}
}

func (h *ZoneHandler) Kind() domain.ResourceKind {
	return domain.KindPrivateDNSZone
}

func (h *ZoneHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.zones.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("private DNS zone", spec.Name, err, ctx)
	}
	return mapZone(spec, resp.PrivateZone), true, nil
}

func (h *ZoneHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	vnet := spec.Property(domain.PropVirtualNetwork, "")
	if vnet == "" {
		return domain.ProvisioningResult{}, errors.Newf(errors.CodePlanError,
			"private DNS zone %s is missing the %s property", spec.Name, domain.PropVirtualNetwork)
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	// Private DNS zones are global; the regional location is rejected.
	zone, err := h.zones.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, armprivatedns.PrivateZone{
		Location: to.Ptr("global"),
	})
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("private DNS zone", spec.Name, err, ctx)
	}

	if err := h.linkVNet(ctx, spec, vnet); err != nil {
		return domain.ProvisioningResult{}, err
	}
	return mapZone(spec, zone), nil
}

func (h *ZoneHandler) linkVNet(ctx context.Context, spec domain.ResourceSpec, vnet string) error {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return err
	}

	linkName := vnet + "-link"
	link := armprivatedns.VirtualNetworkLink{
		Location: to.Ptr("global"),
		Properties: &armprivatedns.VirtualNetworkLinkProperties{
			RegistrationEnabled: to.Ptr(false),
			VirtualNetwork: &armprivatedns.SubResource{
				ID: to.Ptr(shared.VirtualNetworkID(h.subscriptionID, spec.ResourceGroup, vnet)),
			},
		},
	}
	if _, err := h.links.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, linkName, link); err != nil {
		return azerrors.Classify("private DNS zone link", linkName, err, ctx)
	}
	h.logger.Infof(ctx, "Linked private DNS zone %s to virtual network %s", spec.Name, vnet)
	return nil
}

func mapZone(spec domain.ResourceSpec, zone armprivatedns.PrivateZone) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if zone.ID != nil {
		result.ResourceID = *zone.ID
		result.Attributes[domain.AttrID] = *zone.ID
	}
	if zone.Properties != nil && zone.Properties.ProvisioningState != nil {
		result.Attributes[domain.AttrProvisioningState] = string(*zone.Properties.ProvisioningState)
	}
	return result
}
