package keyvault

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/core/ports"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any)            {}
func (noopLogger) Infof(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}
func (noopLogger) WithFields(fields map[string]any) ports.Logger                     { return noopLogger{} }

type fakeSecrets struct {
	stored map[string]string
}

func (f *fakeSecrets) SetSecret(ctx context.Context, name string, parameters azsecrets.SetSecretParameters, options *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error) {
	if f.stored == nil {
		f.stored = map[string]string{}
	}
	f.stored[name] = *parameters.Value
	id := azsecrets.ID("https://contoso-kv.vault.azure.net/secrets/" + name + "/abc123")
	return azsecrets.SetSecretResponse{Secret: azsecrets.Secret{ID: &id}}, nil
}

func TestStorePreservesValueExactly(t *testing.T) {
	fake := &fakeSecrets{}
	store, err := NewStore(fake, "contoso-kv", noopLogger{})
	require.NoError(t, err)

	value := "p@sséword with spaces\nand a newline"
	record, err := store.Store(context.Background(), "sql-admin-password", value)

	require.NoError(t, err)
	assert.Equal(t, value, fake.stored["sql-admin-password"], "stored bytes must match the input exactly")
	assert.Equal(t, "contoso-kv", record.VaultName)
	assert.Equal(t, "sql-admin-password", record.SecretName)
	assert.Equal(t, "abc123", record.Version)
}

func TestStoreRejectsEmptyName(t *testing.T) {
	store, err := NewStore(&fakeSecrets{}, "contoso-kv", noopLogger{})
	require.NoError(t, err)

	_, err = store.Store(context.Background(), "", "value")
	assert.Error(t, err)
}
