package domain

import "fmt"

// ResourceSpec declares one cloud resource the orchestrator must ensure
// exists. Specs are idempotent per (Kind, Name, ResourceGroup): ensuring the
// same spec twice converges to one end state and never creates duplicates.
type ResourceSpec struct {
	Kind          ResourceKind
	Name          string
	ResourceGroup string
	Region        string
	// DependsOn holds keys (Kind/Name) of specs that must be provisioned
	// before this one.
	DependsOn []string
	// Properties carries kind-specific settings, e.g. address prefixes for a
	// virtual network or the SKU of an app service plan.
	Properties map[string]string
}

// Key identifies a spec inside a plan and is the form DependsOn entries use.
func (s ResourceSpec) Key() string {
	return fmt.Sprintf("%s/%s", s.Kind, s.Name)
}

func (s ResourceSpec) Property(name, fallback string) string {
	if v, ok := s.Properties[name]; ok && v != "" {
		return v
	}
	return fallback
}

// ProvisioningResult is the outcome of ensuring a single ResourceSpec.
// Created reports whether this run issued the create call; a re-run over an
// existing resource yields Created=false with the same ResourceID.
type ProvisioningResult struct {
	Spec       ResourceSpec
	ResourceID string
	Created    bool
	Attributes map[string]string
}

func (r ProvisioningResult) Attribute(name string) string {
	return r.Attributes[name]
}
