package vault

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
)

type VaultsAPI interface {
	Get(ctx context.Context, resourceGroup, name string, options *armkeyvault.VaultsClientGetOptions) (armkeyvault.VaultsClientGetResponse, error)
	CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armkeyvault.VaultCreateOrUpdateParameters) (armkeyvault.Vault, error)
	UpdateAccessPolicy(ctx context.Context, resourceGroup, name string, operationKind armkeyvault.AccessPolicyUpdateKind, params armkeyvault.VaultAccessPolicyParameters, options *armkeyvault.VaultsClientUpdateAccessPolicyOptions) (armkeyvault.VaultsClientUpdateAccessPolicyResponse, error)
}

type vaultsSDK struct {
	client *armkeyvault.VaultsClient
}

func WrapVaults(client *armkeyvault.VaultsClient) VaultsAPI {
	return vaultsSDK{client: client}
}

func (s vaultsSDK) Get(ctx context.Context, resourceGroup, name string, options *armkeyvault.VaultsClientGetOptions) (armkeyvault.VaultsClientGetResponse, error) {
	return s.client.Get(ctx, resourceGroup, name, options)
}

func (s vaultsSDK) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armkeyvault.VaultCreateOrUpdateParameters) (armkeyvault.Vault, error) {
	poller, err := s.client.BeginCreateOrUpdate(ctx, resourceGroup, name, params, nil)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return armkeyvault.Vault{}, err
	}
	return resp.Vault, nil
}

func (s vaultsSDK) UpdateAccessPolicy(ctx context.Context, resourceGroup, name string, operationKind armkeyvault.AccessPolicyUpdateKind, params armkeyvault.VaultAccessPolicyParameters, options *armkeyvault.VaultsClientUpdateAccessPolicyOptions) (armkeyvault.VaultsClientUpdateAccessPolicyResponse, error) {
	return s.client.UpdateAccessPolicy(ctx, resourceGroup, name, operationKind, params, options)
}
