package vault

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

const resourceType = "key vault"

type Handler struct {
	client   VaultsAPI
	tenantID string
	logger   ports.Logger
}

func NewHandler(client VaultsAPI, tenantID string, logger ports.Logger) *Handler {
	return &Handler{client: client, tenantID: tenantID, logger: logger}
}

func (h *Handler) Kind() domain.ResourceKind {
	return domain.KindKeyVault
}

func (h *Handler) Check(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, bool, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, false, err
	}

	resp, err := h.client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if azerrors.IsNotFound(err) {
			return domain.ProvisioningResult{}, false, nil
		}
		return domain.ProvisioningResult{}, false, azerrors.Classify(resourceType, spec.Name, err, ctx)
	}
	return mapVault(spec, resp.Vault), true, nil
}

func (h *Handler) Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	tenantID := spec.Property(domain.PropTenantID, h.tenantID)
	params := armkeyvault.VaultCreateOrUpdateParameters{
		Location: to.Ptr(spec.Region),
		Properties: &armkeyvault.VaultProperties{
			TenantID: to.Ptr(tenantID),
			SKU: &armkeyvault.SKU{
				Family: to.Ptr(armkeyvault.SKUFamilyA),
				Name:   to.Ptr(armkeyvault.SKUNameStandard),
			},
			// Policies are granted per consuming identity after the web apps
			// exist; the vault starts with none.
			AccessPolicies:            []*armkeyvault.AccessPolicyEntry{},
			EnabledForDeployment:      to.Ptr(false),
			EnableSoftDelete:          to.Ptr(true),
			SoftDeleteRetentionInDays: to.Ptr(int32(90)),
		},
	}
	vlt, err := h.client.CreateOrUpdateAndWait(ctx, spec.ResourceGroup, spec.Name, params)
	if err != nil {
		return domain.ProvisioningResult{}, azerrors.Classify(resourceType, spec.Name, err, ctx)
	}
	return mapVault(spec, vlt), nil
}

// GrantReadAccess adds an access policy for one consuming identity with
// exactly {get, list} on secrets and keys. The capability set is fixed on
// purpose: runtime configuration readers never need more.
func (h *Handler) GrantReadAccess(ctx context.Context, resourceGroup, vaultName, principalObjectID string) error {
	if principalObjectID == "" {
		return errors.New(errors.CodeConfigValidation, "principal object ID cannot be empty")
	}
	if err := limiter.WaitFunc(ctx, h.logger); err != nil {
		return err
	}

	params := armkeyvault.VaultAccessPolicyParameters{
		Properties: &armkeyvault.VaultAccessPolicyProperties{
			AccessPolicies: []*armkeyvault.AccessPolicyEntry{{
				TenantID: to.Ptr(h.tenantID),
				ObjectID: to.Ptr(principalObjectID),
				Permissions: &armkeyvault.Permissions{
					Secrets: []*armkeyvault.SecretPermissions{
						to.Ptr(armkeyvault.SecretPermissionsGet),
						to.Ptr(armkeyvault.SecretPermissionsList),
					},
					Keys: []*armkeyvault.KeyPermissions{
						to.Ptr(armkeyvault.KeyPermissionsGet),
						to.Ptr(armkeyvault.KeyPermissionsList),
					},
				},
			}},
		},
	}
	_, err := h.client.UpdateAccessPolicy(ctx, resourceGroup, vaultName, armkeyvault.AccessPolicyUpdateKindAdd, params, nil)
	if err != nil {
		return azerrors.Classify(resourceType+" access policy", vaultName, err, ctx)
	}
	h.logger.Infof(ctx, "Granted get/list secret access on vault %s to principal %s", vaultName, principalObjectID)
	return nil
}

func mapVault(spec domain.ResourceSpec, vlt armkeyvault.Vault) domain.ProvisioningResult {
	result := domain.ProvisioningResult{Spec: spec, Attributes: map[string]string{}}
	if vlt.ID != nil {
		result.ResourceID = *vlt.ID
		result.Attributes[domain.AttrID] = *vlt.ID
	}
	if vlt.Properties != nil && vlt.Properties.VaultURI != nil {
		result.Attributes[domain.AttrVaultURI] = *vlt.Properties.VaultURI
	}
	return result
}
