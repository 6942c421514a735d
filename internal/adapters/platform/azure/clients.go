package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/privatedns/armprivatedns"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"

	"github.com/soladipe/saas-provision/internal/errors"
)

// ClientSet collects the ARM API clients the handlers share. All clients are
// built from one explicit credential; no ambient CLI session state is
// consulted.
type ClientSet struct {
	SubscriptionID string

	ResourceGroups   *armresources.ResourceGroupsClient
	VirtualNetworks  *armnetwork.VirtualNetworksClient
	Subnets          *armnetwork.SubnetsClient
	PrivateEndpoints *armnetwork.PrivateEndpointsClient
	SQLServers       *armsql.ServersClient
	SQLDatabases     *armsql.DatabasesClient
	Vaults           *armkeyvault.VaultsClient
	Plans            *armappservice.PlansClient
	WebApps          *armappservice.WebAppsClient
	PrivateZones     *armprivatedns.PrivateZonesClient
	VNetLinks        *armprivatedns.VirtualNetworkLinksClient
}

// NewClientSet builds every ARM client against the given credential and
// subscription.
func NewClientSet(cred azcore.TokenCredential, subscriptionID string, opts *arm.ClientOptions) (*ClientSet, error) {
	if cred == nil {
		return nil, errors.New(errors.CodeConfigValidation, "credential cannot be nil")
	}
	if subscriptionID == "" {
		return nil, errors.New(errors.CodeConfigValidation, "subscription ID cannot be empty")
	}

	cs := &ClientSet{SubscriptionID: subscriptionID}

	var err error
	if cs.ResourceGroups, err = armresources.NewResourceGroupsClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building resource groups client")
	}
	if cs.VirtualNetworks, err = armnetwork.NewVirtualNetworksClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building virtual networks client")
	}
	if cs.Subnets, err = armnetwork.NewSubnetsClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building subnets client")
	}
	if cs.PrivateEndpoints, err = armnetwork.NewPrivateEndpointsClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building private endpoints client")
	}
	if cs.SQLServers, err = armsql.NewServersClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building SQL servers client")
	}
	if cs.SQLDatabases, err = armsql.NewDatabasesClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building SQL databases client")
	}
	if cs.Vaults, err = armkeyvault.NewVaultsClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building key vaults client")
	}
	if cs.Plans, err = armappservice.NewPlansClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building app service plans client")
	}
	if cs.WebApps, err = armappservice.NewWebAppsClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building web apps client")
	}
	if cs.PrivateZones, err = armprivatedns.NewPrivateZonesClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building private DNS zones client")
	}
	if cs.VNetLinks, err = armprivatedns.NewVirtualNetworkLinksClient(subscriptionID, cred, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "building virtual network links client")
	}

	return cs, nil
}
