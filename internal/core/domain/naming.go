package domain

import (
	"regexp"
	"strings"
)

// MaxPrefixLength bounds the operator-chosen name prefix. Key Vault names cap
// at 24 characters and the derived vault name appends "-kv", so anything
// longer than 21 cannot produce a valid vault name.
const MaxPrefixLength = 21

const MinPrefixLength = 3

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)

// ValidPrefix reports whether p can derive names for every resource kind the
// plan provisions.
func ValidPrefix(p string) bool {
	if len(p) < MinPrefixLength || len(p) > MaxPrefixLength {
		return false
	}
	return prefixPattern.MatchString(p)
}

// Naming derives every resource name from the operator-chosen prefix, so a
// re-run with the same prefix addresses the same resources.
type Naming struct {
	Prefix string
}

func (n Naming) ResourceGroup() string   { return n.Prefix + "-rg" }
func (n Naming) VirtualNetwork() string  { return n.Prefix + "-vnet" }
func (n Naming) AppSubnet() string       { return n.Prefix + "-snet-app" }
func (n Naming) DataSubnet() string      { return n.Prefix + "-snet-data" }
func (n Naming) SQLServer() string       { return strings.ToLower(n.Prefix) + "-sql" }
func (n Naming) SQLDatabase() string     { return n.Prefix + "-db" }
func (n Naming) KeyVault() string        { return n.Prefix + "-kv" }
func (n Naming) AppServicePlan() string  { return n.Prefix + "-asp" }
func (n Naming) AdminWebApp() string     { return n.Prefix + "-admin" }
func (n Naming) PortalWebApp() string    { return n.Prefix + "-portal" }
func (n Naming) PrivateEndpoint() string { return n.Prefix + "-sql-pe" }

// SQLPrivateDNSZone is the fixed zone name private-link SQL endpoints
// register under.
const SQLPrivateDNSZone = "privatelink.database.windows.net"

func (n Naming) FulfillmentAppName() string { return n.Prefix + "-fulfillment-app" }
func (n Naming) PortalSSOAppName() string   { return n.Prefix + "-landingpage-app" }
