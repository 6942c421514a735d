package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "provision.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseManifest(t *testing.T) {
	path := writeManifest(t, `
resource "ResourceGroup" "contoso-rg" {
}

resource "VirtualNetwork" "contoso-vnet" {
  depends_on = ["ResourceGroup/contoso-rg"]
  properties = {
    address_space = "10.1.0.0/16"
  }
}

resource "KeyVault" "contoso-kv" {
  region     = "westeurope"
  depends_on = ["ResourceGroup/contoso-rg"]
}
`)

	specs, err := Parse(path, Defaults{ResourceGroup: "contoso-rg", Region: "eastus"})
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, domain.KindResourceGroup, specs[0].Kind)
	assert.Equal(t, "contoso-rg", specs[0].Name)
	assert.Equal(t, "eastus", specs[0].Region, "defaults apply when a block omits the attribute")

	assert.Equal(t, []string{"ResourceGroup/contoso-rg"}, specs[1].DependsOn)
	assert.Equal(t, "10.1.0.0/16", specs[1].Properties["address_space"])

	assert.Equal(t, "westeurope", specs[2].Region, "a declared region overrides the default")
}

func TestParseManifestRejectsUnknownKind(t *testing.T) {
	path := writeManifest(t, `
resource "BlobContainer" "assets" {
}
`)

	_, err := Parse(path, Defaults{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeManifestParseError))
	assert.Contains(t, err.Error(), "BlobContainer")
}

func TestParseManifestRejectsEmpty(t *testing.T) {
	path := writeManifest(t, "\n")

	_, err := Parse(path, Defaults{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeManifestParseError))
}

func TestParseManifestRejectsBadSyntax(t *testing.T) {
	path := writeManifest(t, `resource "ResourceGroup" {`)

	_, err := Parse(path, Defaults{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeManifestParseError))
}
