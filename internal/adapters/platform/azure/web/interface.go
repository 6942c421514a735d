package web

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice"
)

type PlansAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armappservice.PlansClientGetOptions) (armappservice.PlansClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armappservice.Plan) (armappservice.Plan, error)
}

type WebAppsAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armappservice.WebAppsClientGetOptions) (armappservice.WebAppsClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armappservice.Site) (armappservice.Site, error)
	ListPublishingCredentialsAndWait(ctx context.Context, resourceGroup, name string) (armappservice.User, error)
	AttachSwiftVirtualNetwork(ctx context.Context, resourceGroup, name string, params armappservice.SwiftVirtualNetwork) error
}

type plansSDK struct {
	client *armappservice.PlansClient
}

func WrapPlans(client *armappservice.PlansClient) PlansAPI {
	return plansSDK{client: client}
}

func (s plansSDK) Get(ctx context.Context, resourceGroup, name string, options *armappservice.PlansClientGetOptions) (armappservice.PlansClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s plansSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armappservice.Plan) (armappservice.Plan, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armappservice.Plan{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armappservice.Plan{}, err
	}
	return resp.Plan, nil
}

type webAppsSDK struct {
	client *armappservice.WebAppsClient
}

func WrapWebApps(client *armappservice.WebAppsClient) WebAppsAPI {
	return webAppsSDK{client: client}
}

func (s webAppsSDK) Get(ctx context.Context, resourceGroup, name string, options *armappservice.WebAppsClientGetOptions) (armappservice.WebAppsClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s webAppsSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armappservice.Site) (armappservice.Site, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armappservice.Site{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armappservice.Site{}, err
	}
	return resp.Site, nil
}

func (s webAppsSDK) ListPublishingCredentialsAndWait(ctx context.Context, resourceGroup, name string) (armappservice.User, error) {
	poller, err := s.client.BeginListPublishingCredentials(ctx, resourceGroup, name, nil)
	if err != nil {
		return armappservice.User{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armappservice.User{}, err
	}
	return resp.User, nil
}

func (s webAppsSDK) AttachSwiftVirtualNetwork(ctx context.Context, resourceGroup, name string, params armappservice.SwiftVirtualNetwork) error {
	_, err := s.client.CreateOrUpdateSwiftVirtualNetworkConnectionWithCheck(ctx, resourceGroup, name, params, nil)
	return err
}
