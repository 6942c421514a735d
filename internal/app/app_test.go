package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

func TestMigrationIdentitiesIncludeAdminUsers(t *testing.T) {
	naming := domain.Naming{Prefix: "contoso"}

	identities := migrationIdentities(naming, []string{
		"alice@contoso.com",
		"bob@contoso.com",
	})

	assert.Equal(t, []string{
		"contoso-admin",
		"contoso-portal",
		"alice@contoso.com",
		"bob@contoso.com",
	}, identities, "configured admin users get database grants alongside the app identities")
}

func TestMigrationIdentitiesDropDuplicatesAndBlanks(t *testing.T) {
	naming := domain.Naming{Prefix: "contoso"}

	identities := migrationIdentities(naming, []string{
		"alice@contoso.com",
		"",
		"alice@contoso.com",
		"contoso-admin",
	})

	assert.Equal(t, []string{
		"contoso-admin",
		"contoso-portal",
		"alice@contoso.com",
	}, identities)
}
