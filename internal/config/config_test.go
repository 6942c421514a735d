package config

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/errors"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Azure.TenantID = "b9af1111-2222-4333-8444-555566667777"
	cfg.Azure.SubscriptionID = "c1af1111-2222-4333-8444-555566667777"
	cfg.Azure.Region = "eastus"
	cfg.Azure.Prefix = "contoso"
	cfg.SQL.AdminPassword = "hunter2hunter2"
	return cfg
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate(newValidator()))
}

func TestValidateRejectsOverlongPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.Azure.Prefix = strings.Repeat("a", 22)

	err := cfg.Validate(newValidator())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))
	msg, _, ok := errors.GetUserFacingMessage(err)
	require.True(t, ok)
	assert.Contains(t, msg, "prefix")
}

func TestValidateRejectsMalformedTenantID(t *testing.T) {
	cfg := validConfig()
	cfg.Azure.TenantID = "not-a-uuid"

	err := cfg.Validate(newValidator())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))
}

func TestValidateRequiresSQLPassword(t *testing.T) {
	cfg := validConfig()
	cfg.SQL.AdminPassword = ""

	err := cfg.Validate(newValidator())
	require.Error(t, err)
	_, suggestion, ok := errors.GetUserFacingMessage(err)
	require.True(t, ok)
	assert.Contains(t, suggestion, "SAASPROV_SQL_ADMIN_PASSWORD")

	// Skipping migrations does not lift the requirement: the server create
	// itself sends the password.
	cfg.Migrations.Skip = true
	err = cfg.Validate(newValidator())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))
}

func TestValidateRequiresBrandingTargetWithBrandingDir(t *testing.T) {
	cfg := validConfig()
	cfg.Deploy.BrandingDir = "./branding"

	err := cfg.Validate(newValidator())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))

	cfg.Deploy.BrandingAccount = "contosoassets"
	cfg.Deploy.BrandingContainer = "branding"
	require.NoError(t, cfg.Validate(newValidator()))
}

func TestVaultNameDerivesFromPrefix(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "contoso-kv", cfg.VaultName())

	cfg.Azure.VaultName = "custom-vault"
	assert.Equal(t, "custom-vault", cfg.VaultName())
}
