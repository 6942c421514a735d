package domain

type ResourceKind string

const (
	KindResourceGroup   ResourceKind = "ResourceGroup"
	KindVirtualNetwork  ResourceKind = "VirtualNetwork"
	KindSubnet          ResourceKind = "Subnet"
	KindSQLServer       ResourceKind = "SQLServer"
	KindSQLDatabase     ResourceKind = "SQLDatabase"
	KindKeyVault        ResourceKind = "KeyVault"
	KindAppServicePlan  ResourceKind = "AppServicePlan"
	KindWebApp          ResourceKind = "WebApp"
	KindPrivateEndpoint ResourceKind = "PrivateEndpoint"
	KindPrivateDNSZone  ResourceKind = "PrivateDNSZone"
)

func (rk ResourceKind) String() string {
	return string(rk)
}

// KnownKinds lists every kind a resource plan may declare, in the relative
// order the built-in plan provisions them.
func KnownKinds() []ResourceKind {
	return []ResourceKind{
		KindResourceGroup,
		KindVirtualNetwork,
		KindSubnet,
		KindSQLServer,
		KindSQLDatabase,
		KindKeyVault,
		KindAppServicePlan,
		KindWebApp,
		KindPrivateDNSZone,
		KindPrivateEndpoint,
	}
}

func IsKnownKind(rk ResourceKind) bool {
	for _, k := range KnownKinds() {
		if k == rk {
			return true
		}
	}
	return false
}
