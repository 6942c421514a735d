package runmanifest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

func TestManifestRoundTrip(t *testing.T) {
	m := New("tenant-1", "sub-1", "eastus", "contoso-kv")
	m.AddResults([]domain.ProvisioningResult{
		{
			Spec:       domain.ResourceSpec{Kind: domain.KindResourceGroup, Name: "contoso-rg"},
			ResourceID: "/subscriptions/sub-1/resourceGroups/contoso-rg",
			Created:    true,
		},
		{
			Spec:       domain.ResourceSpec{Kind: domain.KindWebApp, Name: "contoso-admin"},
			ResourceID: "/subscriptions/sub-1/.../sites/contoso-admin",
			Attributes: map[string]string{domain.AttrDefaultHostname: "contoso-admin.azurewebsites.net"},
		},
	})
	m.AddIdentity(domain.AppRegistration{
		DisplayName:   "Fulfillment API",
		ApplicationID: "app-1",
		ObjectID:      "obj-1",
		ClientSecret:  "super-secret-value",
		Created:       true,
	})
	m.AddSecret(domain.SecretRecord{VaultName: "contoso-kv", SecretName: "fulfillment-client-secret", Version: "v1"})

	dir := t.TempDir()
	path, err := m.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m.RunID, decoded.RunID)
	assert.False(t, decoded.CompletedAt.IsZero())
	assert.Len(t, decoded.Resources, 2)
	assert.Equal(t, []WebApp{{Name: "contoso-admin", Hostname: "contoso-admin.azurewebsites.net"}}, decoded.WebApps)
	assert.Equal(t, "app-1", decoded.Identities[0].ApplicationID)

	assert.NotContains(t, string(data), "super-secret-value", "secret values must never reach the manifest")
}

func TestManifestFileIsOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	m := New("tenant-1", "sub-1", "eastus", "contoso-kv")
	path, err := m.Write(t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
