package shared

import "fmt"

// ARM resource ID builders. Handlers derive cross-resource references from
// names instead of issuing extra reads.

func ResourceGroupID(subscriptionID, group string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", subscriptionID, group)
}

func VirtualNetworkID(subscriptionID, group, vnet string) string {
	return fmt.Sprintf("%s/providers/Microsoft.Network/virtualNetworks/%s",
		ResourceGroupID(subscriptionID, group), vnet)
}

func SubnetID(subscriptionID, group, vnet, subnet string) string {
	return fmt.Sprintf("%s/subnets/%s", VirtualNetworkID(subscriptionID, group, vnet), subnet)
}

func SQLServerID(subscriptionID, group, server string) string {
	return fmt.Sprintf("%s/providers/Microsoft.Sql/servers/%s",
		ResourceGroupID(subscriptionID, group), server)
}

func AppServicePlanID(subscriptionID, group, plan string) string {
	return fmt.Sprintf("%s/providers/Microsoft.Web/serverfarms/%s",
		ResourceGroupID(subscriptionID, group), plan)
}
