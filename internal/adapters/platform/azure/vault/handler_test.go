package vault

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any)            {}
func (noopLogger) Infof(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}
func (noopLogger) WithFields(fields map[string]any) ports.Logger                     { return noopLogger{} }

func stubLimiter(t *testing.T) {
	t.Helper()
	original := limiter.WaitFunc
	limiter.WaitFunc = func(ctx context.Context, logger ports.Logger) error { return nil }
	t.Cleanup(func() { limiter.WaitFunc = original })
}

type fakeVaults struct {
	policies []armkeyvault.AccessPolicyEntry
}

func (f *fakeVaults) Get(ctx context.Context, resourceGroup, name string, options *armkeyvault.VaultsClientGetOptions) (armkeyvault.VaultsClientGetResponse, error) {
	return armkeyvault.VaultsClientGetResponse{}, nil
}

func (f *fakeVaults) CreateOrUpdateAndWait(ctx context.Context, resourceGroup, name string, params armkeyvault.VaultCreateOrUpdateParameters) (armkeyvault.Vault, error) {
	return armkeyvault.Vault{}, nil
}

func (f *fakeVaults) UpdateAccessPolicy(ctx context.Context, resourceGroup, name string, operationKind armkeyvault.AccessPolicyUpdateKind, params armkeyvault.VaultAccessPolicyParameters, options *armkeyvault.VaultsClientUpdateAccessPolicyOptions) (armkeyvault.VaultsClientUpdateAccessPolicyResponse, error) {
	if params.Properties != nil {
		for _, p := range params.Properties.AccessPolicies {
			f.policies = append(f.policies, *p)
		}
	}
	return armkeyvault.VaultsClientUpdateAccessPolicyResponse{}, nil
}

func TestGrantReadAccessIsGetListOnly(t *testing.T) {
	stubLimiter(t)
	fake := &fakeVaults{}
	h := NewHandler(fake, "tenant-1", noopLogger{})

	err := h.GrantReadAccess(context.Background(), "contoso-rg", "contoso-kv", "principal-1")

	require.NoError(t, err)
	require.Len(t, fake.policies, 1)
	policy := fake.policies[0]
	assert.Equal(t, "principal-1", *policy.ObjectID)
	assert.Equal(t, "tenant-1", *policy.TenantID)

	secrets := make([]armkeyvault.SecretPermissions, 0, len(policy.Permissions.Secrets))
	for _, p := range policy.Permissions.Secrets {
		secrets = append(secrets, *p)
	}
	assert.ElementsMatch(t, []armkeyvault.SecretPermissions{
		armkeyvault.SecretPermissionsGet,
		armkeyvault.SecretPermissionsList,
	}, secrets, "the capability set is fixed at get and list")

	keys := make([]armkeyvault.KeyPermissions, 0, len(policy.Permissions.Keys))
	for _, p := range policy.Permissions.Keys {
		keys = append(keys, *p)
	}
	assert.ElementsMatch(t, []armkeyvault.KeyPermissions{
		armkeyvault.KeyPermissionsGet,
		armkeyvault.KeyPermissionsList,
	}, keys)

	assert.Nil(t, policy.Permissions.Certificates)
	assert.Nil(t, policy.Permissions.Storage)
}

func TestGrantReadAccessRejectsEmptyPrincipal(t *testing.T) {
	stubLimiter(t)
	h := NewHandler(&fakeVaults{}, "tenant-1", noopLogger{})

	err := h.GrantReadAccess(context.Background(), "contoso-rg", "contoso-kv", "")
	assert.Error(t, err)
}
