package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPrefix(t *testing.T) {
	assert.True(t, ValidPrefix("contoso"))
	assert.True(t, ValidPrefix("contoso-saas"))
	assert.True(t, ValidPrefix("abc"))
	assert.True(t, ValidPrefix("a1-b2-c3"))

	assert.False(t, ValidPrefix("ab"), "below minimum length")
	assert.False(t, ValidPrefix("Contoso"), "uppercase")
	assert.False(t, ValidPrefix("1contoso"), "must start with a letter")
	assert.False(t, ValidPrefix("contoso-"), "must not end with a hyphen")
	assert.False(t, ValidPrefix("con_toso"), "underscore")
	assert.False(t, ValidPrefix(strings.Repeat("a", MaxPrefixLength+1)), "a 22 character prefix cannot derive a valid vault name")
	assert.True(t, ValidPrefix(strings.Repeat("a", MaxPrefixLength)))
}

func TestDerivedVaultNameFitsPlatformLimit(t *testing.T) {
	n := Naming{Prefix: strings.Repeat("a", MaxPrefixLength)}
	assert.LessOrEqual(t, len(n.KeyVault()), 24)
}

func TestNamingIsDeterministic(t *testing.T) {
	n := Naming{Prefix: "contoso"}

	assert.Equal(t, "contoso-rg", n.ResourceGroup())
	assert.Equal(t, "contoso-vnet", n.VirtualNetwork())
	assert.Equal(t, "contoso-snet-app", n.AppSubnet())
	assert.Equal(t, "contoso-snet-data", n.DataSubnet())
	assert.Equal(t, "contoso-sql", n.SQLServer())
	assert.Equal(t, "contoso-db", n.SQLDatabase())
	assert.Equal(t, "contoso-kv", n.KeyVault())
	assert.Equal(t, "contoso-asp", n.AppServicePlan())
	assert.Equal(t, "contoso-admin", n.AdminWebApp())
	assert.Equal(t, "contoso-portal", n.PortalWebApp())
	assert.Equal(t, "contoso-sql-pe", n.PrivateEndpoint())
}

func TestSQLServerNameIsLowercased(t *testing.T) {
	// The prefix is validated lowercase, but the SQL server name lowers it
	// again; logical server names reject uppercase outright.
	n := Naming{Prefix: "contoso"}
	assert.Equal(t, strings.ToLower(n.SQLServer()), n.SQLServer())
}
