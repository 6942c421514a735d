package privatelink

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/shared"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// EndpointHandler ensures private endpoints that put a SQL server on the data
// subnet. The target server resource ID is derived from names so the handler
// never issues a lookup for it.
type EndpointHandler struct {
	client         PrivateEndpointsAPI
	subscriptionID string
	logger         ports.Logger
}

func NewEndpointHandler(client PrivateEndpointsAPI, subscriptionID string, logger ports.Logger) *EndpointHandler {
	return &EndpointHandler{client: client, subscriptionID: subscriptionID, logger: logger}
}

func (h *EndpointHandler) Kind() domain.ResourceKind {
	return domain.KindPrivateEndpoint
}

func (h *EndpointHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("private endpoint", spec.Name, err, ctx)
	}
	return mapEndpoint(spec, resp.PrivateEndpoint), true, nil
}

func (h *EndpointHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	vnet := spec.Property(domain.PropVirtualNetwork, "")
	subnet := spec.Property(domain.PropSubnet, "")
	server := spec.Property(domain.PropSQLServer, "")
	if vnet == "" || subnet == "" || server == "" {
		return domain.ProvisioningResult{}, errors.Newf(errors.CodePlanError,
			"private endpoint %s needs the %s, %s and %s properties",
			spec.Name, domain.PropVirtualNetwork, domain.PropSubnet, domain.PropSQLServer)
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	subnetID := shared.SubnetID(h.subscriptionID, spec.ResourceGroup, vnet, subnet)
	serverID := shared.SQLServerID(h.subscriptionID, spec.ResourceGroup, server)
	groupID := spec.Property(domain.PropGroupID, "sqlServer")

	params := armnetwork.PrivateEndpoint{
		Location: to.Ptr(spec.Region),
		Properties: &armnetwork.PrivateEndpointProperties{
			Subnet: &armnetwork.Subnet{ID: to.Ptr(subnetID)},
			PrivateLinkServiceConnections: []*armnetwork.PrivateLinkServiceConnection{{
				Name: to.Ptr(spec.Name),
				Properties: &armnetwork.PrivateLinkServiceConnectionProperties{
					PrivateLinkServiceID: to.Ptr(serverID),
					GroupIDs:             []*string{to.Ptr(groupID)},
				},
			}},
		},
	}
	pe, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("private endpoint", spec.Name, err, ctx)
	}
	return mapEndpoint(spec, pe), nil
}

func mapEndpoint(spec domain.ResourceSpec, pe armnetwork.PrivateEndpoint) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if pe.ID != nil {
		result.ResourceID = *pe.ID
		result.Attributes[domain.AttrID] = *pe.ID
	}
	if pe.Properties != nil && pe.Properties.ProvisioningState != nil {
		result.Attributes[domain.AttrProvisioningState] = string(*pe.Properties.ProvisioningState)
	}
	return result
}
