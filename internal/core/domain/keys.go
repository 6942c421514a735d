package domain

// Attribute keys shared between handlers and the pipeline. Handlers populate
// these on ProvisioningResult.Attributes; later stages read them instead of
// issuing another control-plane call.
const (
	AttrID                = "id"
	AttrLocation          = "location"
	AttrProvisioningState = "provisioning_state"
	AttrFQDN              = "fqdn"
	AttrVaultURI          = "vault_uri"
	AttrPrincipalID       = "principal_id"
	AttrDefaultHostname   = "default_hostname"
	AttrServerFarmID      = "server_farm_id"
	AttrAddressSpace      = "address_space"
)

// Property keys understood by the per-kind handlers.
const (
	PropAddressSpace   = "address_space"
	PropAddressPrefix  = "address_prefix"
	PropVirtualNetwork = "virtual_network"
	PropSubnet         = "subnet"
	PropSQLServer      = "sql_server"
	PropAdminLogin     = "admin_login"
	PropSKU            = "sku"
	PropTier           = "tier"
	PropTenantID       = "tenant_id"
	PropPlanName       = "plan"
	PropRuntime        = "runtime"
	PropGroupID        = "group_id"
	PropDNSZone        = "dns_zone"
	PropDelegation     = "delegation"
)
