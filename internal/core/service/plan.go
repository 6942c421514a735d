package service

import (
	"fmt"

	"github.com/soladipe/saas-provision/internal/config"
	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/errors"
)

// DefaultPlan builds the built-in resource plan for one accelerator
// installation: network first, then data, secrets and compute. Every name is
// derived from the configured prefix so a re-run addresses the same
// resources.
func DefaultPlan(cfg *config.Config) []domain.ResourceSpec {
	n := cfg.Naming()
	region := cfg.Azure.Region
	rg := n.ResourceGroup()

	vnetKey := string(domain.KindVirtualNetwork) + "/" + n.VirtualNetwork()
	rgKey := string(domain.KindResourceGroup) + "/" + rg
	sqlKey := string(domain.KindSQLServer) + "/" + n.SQLServer()
	planKey := string(domain.KindAppServicePlan) + "/" + n.AppServicePlan()
	dataSubnetKey := string(domain.KindSubnet) + "/" + n.DataSubnet()
	zoneKey := string(domain.KindPrivateDNSZone) + "/" + domain.SQLPrivateDNSZone

	return []domain.ResourceSpec{
		{
			Kind: domain.KindResourceGroup, Name: rg, Region: region,
		},
		{
			Kind: domain.KindVirtualNetwork, Name: n.VirtualNetwork(), ResourceGroup: rg, Region: region,
			DependsOn:  []string{rgKey},
			Properties: map[string]string{domain.PropAddressSpace: "10.10.0.0/16"},
		},
		{
			Kind: domain.KindSubnet, Name: n.AppSubnet(), ResourceGroup: rg, Region: region,
			DependsOn: []string{vnetKey},
			Properties: map[string]string{
				domain.PropVirtualNetwork: n.VirtualNetwork(),
				domain.PropAddressPrefix:  "10.10.1.0/24",
				domain.PropDelegation:     "Microsoft.Web/serverFarms",
			},
		},
		{
			Kind: domain.KindSubnet, Name: n.DataSubnet(), ResourceGroup: rg, Region: region,
			DependsOn: []string{vnetKey},
			Properties: map[string]string{
				domain.PropVirtualNetwork: n.VirtualNetwork(),
				domain.PropAddressPrefix:  "10.10.2.0/24",
			},
		},
		{
			Kind: domain.KindSQLServer, Name: n.SQLServer(), ResourceGroup: rg, Region: region,
			DependsOn: []string{rgKey},
			Properties: map[string]string{
				domain.PropAdminLogin: cfg.SQL.AdminUser,
			},
		},
		{
			Kind: domain.KindSQLDatabase, Name: n.SQLDatabase(), ResourceGroup: rg, Region: region,
			DependsOn: []string{sqlKey},
			Properties: map[string]string{
				domain.PropSQLServer: n.SQLServer(),
				domain.PropSKU:       "S0",
			},
		},
		{
			Kind: domain.KindKeyVault, Name: cfg.VaultName(), ResourceGroup: rg, Region: region,
			DependsOn: []string{rgKey},
			Properties: map[string]string{
				domain.PropTenantID: cfg.Azure.TenantID,
			},
		},
		{
			Kind: domain.KindAppServicePlan, Name: n.AppServicePlan(), ResourceGroup: rg, Region: region,
			DependsOn: []string{rgKey},
			Properties: map[string]string{
				domain.PropSKU:  "P1v3",
				domain.PropTier: "PremiumV3",
			},
		},
		{
			Kind: domain.KindWebApp, Name: n.AdminWebApp(), ResourceGroup: rg, Region: region,
			DependsOn: []string{planKey},
			Properties: map[string]string{
				domain.PropPlanName: n.AppServicePlan(),
				domain.PropRuntime:  "DOTNETCORE|8.0",
			},
		},
		{
			Kind: domain.KindWebApp, Name: n.PortalWebApp(), ResourceGroup: rg, Region: region,
			DependsOn: []string{planKey},
			Properties: map[string]string{
				domain.PropPlanName: n.AppServicePlan(),
				domain.PropRuntime:  "DOTNETCORE|8.0",
			},
		},
		{
			Kind: domain.KindPrivateDNSZone, Name: domain.SQLPrivateDNSZone, ResourceGroup: rg,
			DependsOn: []string{vnetKey},
			Properties: map[string]string{
				domain.PropVirtualNetwork: n.VirtualNetwork(),
			},
		},
		{
			Kind: domain.KindPrivateEndpoint, Name: n.PrivateEndpoint(), ResourceGroup: rg, Region: region,
			DependsOn: []string{sqlKey, dataSubnetKey, zoneKey},
			Properties: map[string]string{
				domain.PropVirtualNetwork: n.VirtualNetwork(),
				domain.PropSubnet:         n.DataSubnet(),
				domain.PropSQLServer:      n.SQLServer(),
				domain.PropGroupID:        "sqlServer",
				domain.PropDNSZone:        domain.SQLPrivateDNSZone,
			},
		},
	}
}

// OrderPlan returns specs sorted so that every spec follows all of its
// dependencies. The sort is deterministic: ties are broken by declaration
// order. Unknown dependency keys and cycles are reported as plan errors.
func OrderPlan(specs []domain.ResourceSpec) ([]domain.ResourceSpec, error) {
	index := make(map[string]int, len(specs))
	for i, s := range specs {
		key := s.Key()
		if _, dup := index[key]; dup {
			return nil, errors.New(errors.CodePlanError, fmt.Sprintf("duplicate resource %s in plan", key))
		}
		index[key] = i
	}

	indegree := make([]int, len(specs))
	dependents := make([][]int, len(specs))
	for i, s := range specs {
		for _, dep := range s.DependsOn {
			j, ok := index[dep]
			if !ok {
				return nil, errors.New(errors.CodePlanError,
					fmt.Sprintf("resource %s depends on unknown resource %s", s.Key(), dep))
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// Kahn's algorithm over declaration order: the ready set is scanned
	// front-to-back each round, which keeps the output stable for a given
	// input.
	ordered := make([]domain.ResourceSpec, 0, len(specs))
	done := make([]bool, len(specs))
	for len(ordered) < len(specs) {
		progressed := false
		for i := range specs {
			if done[i] || indegree[i] > 0 {
				continue
			}
			done[i] = true
			progressed = true
			ordered = append(ordered, specs[i])
			for _, dep := range dependents[i] {
				indegree[dep]--
			}
		}
		if !progressed {
			return nil, errors.New(errors.CodePlanError, "dependency cycle detected in resource plan")
		}
	}
	return ordered, nil
}
