package keyvault

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	azerrors "github.com/soladipe/saas-provision/internal/adapters/platform/azure/errors"
	"github.com/soladipe/saas-provision/internal/adapters/platform/azure/limiter"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// SecretsAPI is the data-plane surface the store needs from the vault.
type SecretsAPI interface {
	SetSecret(ctx context.Context, name string, parameters azsecrets.SetSecretParameters, options *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error)
}

// Store writes generated values into one key vault over its data-plane
// endpoint. Values pass through untouched so a later read returns the exact
// bytes that were written. The value is never logged.
type Store struct {
	client    SecretsAPI
	vaultName string
	logger    ports.Logger
}

func NewStore(client SecretsAPI, vaultName string, logger ports.Logger) (*Store, error) {
	if client == nil {
		return nil, errors.New(errors.CodeConfigValidation, "secrets client cannot be nil")
	}
	if vaultName == "" {
		return nil, errors.New(errors.CodeConfigValidation, "vault name cannot be empty")
	}
	return &Store{client: client, vaultName: vaultName, logger: logger}, nil
}

// NewClient builds the data-plane client for one vault with the shared
// credential.
func NewClient(vaultName string, cred azcore.TokenCredential) (*azsecrets.Client, error) {
	vaultURL := fmt.Sprintf("https://%s.vault.azure.net", vaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeSecretStoreError, "building secrets client for vault %s", vaultName)
	}
	return client, nil
}

func (s *Store) Store(ctx context.Context, name, value string) (domain.SecretRecord, error) {
	if name == "" {
		return domain.SecretRecord{}, errors.New(errors.CodeSecretStoreError, "secret name cannot be empty")
	}
	if err := limiter.WaitFunc(ctx, s.logger); err != nil {
		return domain.SecretRecord{}, err
	}

	resp, err := s.client.SetSecret(ctx, name, azsecrets.SetSecretParameters{Value: &value}, nil)
	if err != nil {
		return domain.SecretRecord{}, azerrors.Classify("secret", name, err, ctx)
	}

	record := domain.SecretRecord{VaultName: s.vaultName, SecretName: name}
	if resp.ID != nil {
		record.Version = resp.ID.Version()
	}
	s.logger.Infof(ctx, "Stored secret %s in vault %s (version %s)", name, s.vaultName, record.Version)
	return record, nil
}
