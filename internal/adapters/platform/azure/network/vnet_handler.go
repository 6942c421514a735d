package network

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

type VNetHandler struct {
	client VirtualNetworksAPI
	logger ports.Logger
}

func NewVNetHandler(client VirtualNetworksAPI, logger ports.Logger) *VNetHandler {
	return &VNetHandler{client: client, logger: logger}
}

func (h *VNetHandler) Kind() domain.ResourceKind {
	return domain.KindVirtualNetwork
}

func (h *VNetHandler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify("virtual network", spec.Name, err, ctx)
	}
	return mapVNet(spec, resp.VirtualNetwork), true, nil
}

func (h *VNetHandler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	addressSpace := spec.Property(domain.PropAddressSpace, "10.10.0.0/16")
	params := armnetwork.VirtualNetwork{
		Location: to.Ptr(spec.Region),
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{
				AddressPrefixes: []*string{to.Ptr(addressSpace)},
			},
		},
	}
	vnet, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify("virtual network", spec.Name, err, ctx)
	}
	return mapVNet(spec, vnet), nil
}

func mapVNet(spec domain.ResourceSpec, vnet armnetwork.VirtualNetwork) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if vnet.ID != nil {
		result.ResourceID = *vnet.ID
		result.Attributes[domain.AttrID] = *vnet.ID
	}
	if vnet.Location != nil {
		result.Attributes[domain.AttrLocation] = *vnet.Location
	}
	if vnet.Properties != nil {
		if vnet.Properties.ProvisioningState != nil {
			result.Attributes[domain.AttrProvisioningState] = string(*vnet.Properties.ProvisioningState)
		}
		if vnet.Properties.AddressSpace != nil {
			prefixes := make([]string, 0, len(vnet.Properties.AddressSpace.AddressPrefixes))
			for _, p := range vnet.Properties.AddressSpace.AddressPrefixes {
				if p != nil {
					prefixes = append(prefixes, *p)
				}
			}
			result.Attributes[domain.AttrAddressSpace] = strings.Join(prefixes, ",")
		}
	}
	return result
}
