package network

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// SubnetHandler creates subnets inside an existing virtual network. Subnet
// creation is the operation most prone to racing the parent VNet's
// propagation, so its errors are classified for the engine's bounded retry.
type SubnetHandler struct {
	client SubnetsAPI
	logger ports.Logger
}

func NewSubnetHandler(client SubnetsAPI, logger ports.Logger) *SubnetHandler {
	return &SubnetHandler{client: client, logger: logger}
}

func (h *SubnetHandler) Kind() domain.ResourceKind {
	return domain.KindSubnet
}

func (h *SubnetHandler) vnetName(spec domain.ResourceSpec) (string, error) {
	vnet := spec.Property(domain.PropVirtualNetwork, "")
	if vnet == "" {
		return "", errors.Newf(errors.CodePlanError, "subnet %s is missing the %s property", spec.Name, domain.PropVirtualNetwork)
	}
	return vnet, nil
}

func (h *SubnetHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	vnet, err := h.vnetName(spec)
	if err != nil {
		return domain.ProvisioningResult{}, false, err
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, vnet, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("subnet", spec.Name, err, ctx)
	}
	return mapSubnet(spec, resp.Subnet), true, nil
}

func (h *SubnetHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	vnet, err := h.vnetName(spec)
	if err != nil {
		return domain.ProvisioningResult{}, err
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	props := &armnetwork.SubnetPropertiesFormat{
		AddressPrefix: to.Ptr(spec.Property(domain.PropAddressPrefix, "10.10.1.0/24")),
		// Private endpoints require network policies off on their subnet.
		PrivateEndpointNetworkPolicies: to.Ptr(armnetwork.VirtualNetworkPrivateEndpointNetworkPoliciesDisabled),
	}
	if svc := spec.Property(domain.PropDelegation, ""); svc != "" {
		props.Delegations = []*armnetwork.Delegation{{
			Name: to.Ptr("delegation"),
			Properties: &armnetwork.ServiceDelegationPropertiesFormat{
				ServiceName: to.Ptr(svc),
			},
		}}
	}

	subnet, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, vnet, spec.Name, armnetwork.Subnet{Properties: props})
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("subnet", spec.Name, err, ctx)
	}
	return mapSubnet(spec, subnet), nil
}

func mapSubnet(spec domain.ResourceSpec, subnet armnetwork.Subnet) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if subnet.ID != nil {
		result.ResourceID = *subnet.ID
		result.Attributes[domain.AttrID] = *subnet.ID
	}
	if subnet.Properties != nil {
		if subnet.Properties.ProvisioningState != nil {
			result.Attributes[domain.AttrProvisioningState] = string(*subnet.Properties.ProvisioningState)
		}
		if subnet.Properties.AddressPrefix != nil {
			result.Attributes[domain.AttrAddressSpace] = *subnet.Properties.AddressPrefix
		}
	}
	return result
}
