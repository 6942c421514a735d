package privatelink

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/privatedns/armprivatedns"
)

type PrivateEndpointsAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armnetwork.PrivateEndpointsClientGetOptions) (armnetwork.PrivateEndpointsClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armnetwork.PrivateEndpoint) (armnetwork.PrivateEndpoint, error)
}

type PrivateZonesAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armprivatedns.PrivateZonesClientGetOptions) (armprivatedns.PrivateZonesClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armprivatedns.PrivateZone) (armprivatedns.PrivateZone, error)
}

type VNetLinksAPI interface {
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, zoneName, linkName string, params armprivatedns.VirtualNetworkLink) (armprivatedns.VirtualNetworkLink, error)
}

type endpointsSDK struct {
	client *armnetwork.PrivateEndpointsClient
}

func WrapPrivateEndpoints(client *armnetwork.PrivateEndpointsClient) PrivateEndpointsAPI {
	return endpointsSDK{client: client}
}

func (s endpointsSDK) Get(ctx context.Context, resourceGroup, name string, options *armnetwork.PrivateEndpointsClientGetOptions) (armnetwork.PrivateEndpointsClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s endpointsSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armnetwork.PrivateEndpoint) (armnetwork.PrivateEndpoint, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armnetwork.PrivateEndpoint{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armnetwork.PrivateEndpoint{}, err
	}
	return resp.PrivateEndpoint, nil
}

type zonesSDK struct {
	client *armprivatedns.PrivateZonesClient
}

func WrapPrivateZones(client *armprivatedns.PrivateZonesClient) PrivateZonesAPI {
	return zonesSDK{client: client}
}

func (s zonesSDK) Get(ctx context.Context, resourceGroup, name string, options *armprivatedns.PrivateZonesClientGetOptions) (armprivatedns.PrivateZonesClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s zonesSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armprivatedns.PrivateZone) (armprivatedns.PrivateZone, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armprivatedns.PrivateZone{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armprivatedns.PrivateZone{}, err
	}
	return resp.PrivateZone, nil
}

type linksSDK struct {
	client *armprivatedns.VirtualNetworkLinksClient
}

func WrapVNetLinks(client *armprivatedns.VirtualNetworkLinksClient) VNetLinksAPI {
	return linksSDK{client: client}
}

func (s linksSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, zoneName, linkName string, params armprivatedns.VirtualNetworkLink) (armprivatedns.VirtualNetworkLink, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, zoneName, linkName, params, nil)
	if err != nil {
		return armprivatedns.VirtualNetworkLink{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armprivatedns.VirtualNetworkLink{}, err
	}
	return resp.VirtualNetworkLink, nil
}
