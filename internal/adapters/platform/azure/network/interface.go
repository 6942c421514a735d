package network

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
)

// VirtualNetworksAPI wraps the ARM virtual networks client. Long-running
// creates are exposed as blocking calls so handlers poll the operation to
// completion instead of sleeping.
type VirtualNetworksAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armnetwork.VirtualNetworksClientGetOptions) (armnetwork.VirtualNetworksClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armnetwork.VirtualNetwork) (armnetwork.VirtualNetwork, error)
}

type SubnetsAPI interface {
	Get(ctx context.Context, resourceGroup, vnetName, name string, options *armnetwork.SubnetsClientGetOptions) (armnetwork.SubnetsClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, vnetName, name string, params armnetwork.Subnet) (armnetwork.Subnet, error)
}

type vnetSDK struct {
	client *armnetwork.VirtualNetworksClient
}

// WrapVirtualNetworks adapts the SDK client to VirtualNetworksAPI.
func WrapVirtualNetworks(client *armnetwork.VirtualNetworksClient) VirtualNetworksAPI {
	return vnetSDK{client: client}
}

func (s vnetSDK) Get(ctx context.Context, resourceGroup, name string, options *armnetwork.VirtualNetworksClientGetOptions) (armnetwork.VirtualNetworksClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s vnetSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armnetwork.VirtualNetwork) (armnetwork.VirtualNetwork, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armnetwork.VirtualNetwork{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armnetwork.VirtualNetwork{}, err
	}
	return resp.VirtualNetwork, nil
}

type subnetSDK struct {
	client *armnetwork.SubnetsClient
}

// WrapSubnets adapts the SDK client to SubnetsAPI.
func WrapSubnets(client *armnetwork.SubnetsClient) SubnetsAPI {
	return subnetSDK{client: client}
}

func (s subnetSDK) Get(ctx context.Context, resourceGroup, vnetName, name string, options *armnetwork.SubnetsClientGetOptions) (armnetwork.SubnetsClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, vnetName, name, options)
}

func (s subnetSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, vnetName, name string, params armnetwork.Subnet) (armnetwork.Subnet, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, vnetName, name, params, nil)
	if err != nil {
		return armnetwork.Subnet{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armnetwork.Subnet{}, err
	}
	return resp.Subnet, nil
}
