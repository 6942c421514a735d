package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/errors"
)

// Defaults fill in the attributes a manifest block may omit.
type Defaults struct {
	ResourceGroup string
	Region        string
}

var manifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "resource", LabelNames: []string{"kind", "name"}},
	},
}

var resourceSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "resource_group"},
		{Name: "region"},
		{Name: "depends_on"},
		{Name: "properties"},
	},
}

// Parse reads one manifest file into resource specs. Declaration order is
// preserved; it seeds the deterministic plan ordering. Unknown kinds fail
// here, before any cloud call.
func Parse(path string, defaults Defaults) ([]domain.ResourceSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Newf(errors.CodeManifestParseError, "parsing manifest %s: %s", path, diags.Error())
	}

	content, diags := file.Body.Content(manifestSchema)
	if diags.HasErrors() {
		return nil, errors.Newf(errors.CodeManifestParseError, "reading manifest %s: %s", path, diags.Error())
	}
	if len(content.Blocks) == 0 {
		return nil, errors.Newf(errors.CodeManifestParseError, "manifest %s declares no resources", path)
	}

	specs := make([]domain.ResourceSpec, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		spec, err := decodeResource(block, defaults)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func decodeResource(block *hcl.Block, defaults Defaults) (domain.ResourceSpec, error) {
	kind := domain.ResourceKind(block.Labels[0])
	name := block.Labels[1]
	if !domain.IsKnownKind(kind) {
		return domain.ResourceSpec{}, errors.NewUserFacing(errors.CodeManifestParseError,
			fmt.Sprintf("unknown resource kind %q at %s", kind, block.DefRange),
			fmt.Sprintf("Supported kinds: %v", domain.KnownKinds()))
	}
	if name == "" {
		return domain.ResourceSpec{}, errors.Newf(errors.CodeManifestParseError, "resource at %s has an empty name", block.DefRange)
	}

	content, diags := block.Body.Content(resourceSchema)
	if diags.HasErrors() {
		return domain.ResourceSpec{}, errors.Newf(errors.CodeManifestParseError, "reading resource %s/%s: %s", kind, name, diags.Error())
	}

	spec := domain.ResourceSpec{
		Kind:          kind,
		Name:          name,
		ResourceGroup: defaults.ResourceGroup,
		Region:        defaults.Region,
		Properties:    map[string]string{},
	}

	if attr, ok := content.Attributes["resource_group"]; ok {
		v, err := stringValue(attr)
		if err != nil {
			return domain.ResourceSpec{}, err
		}
		spec.ResourceGroup = v
	}
	if attr, ok := content.Attributes["region"]; ok {
		v, err := stringValue(attr)
		if err != nil {
			return domain.ResourceSpec{}, err
		}
		spec.Region = v
	}
	if attr, ok := content.Attributes["depends_on"]; ok {
		deps, err := stringListValue(attr)
		if err != nil {
			return domain.ResourceSpec{}, err
		}
		spec.DependsOn = deps
	}
	if attr, ok := content.Attributes["properties"]; ok {
		props, err := stringMapValue(attr)
		if err != nil {
			return domain.ResourceSpec{}, err
		}
		spec.Properties = props
	}
	return spec, nil
}

func evaluate(attr *hcl.Attribute) (cty.Value, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, errors.Newf(errors.CodeManifestParseError, "evaluating %s at %s: %s", attr.Name, attr.Range, diags.Error())
	}
	return v, nil
}

func stringValue(attr *hcl.Attribute) (string, error) {
	v, err := evaluate(attr)
	if err != nil {
		return "", err
	}
	if v.Type() != cty.String {
		return "", errors.Newf(errors.CodeManifestParseError, "%s at %s must be a string", attr.Name, attr.Range)
	}
	return v.AsString(), nil
}

func stringListValue(attr *hcl.Attribute) ([]string, error) {
	v, err := evaluate(attr)
	if err != nil {
		return nil, err
	}
	if !v.CanIterateElements() {
		return nil, errors.Newf(errors.CodeManifestParseError, "%s at %s must be a list of strings", attr.Name, attr.Range)
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type() != cty.String {
			return nil, errors.Newf(errors.CodeManifestParseError, "%s at %s must contain only strings", attr.Name, attr.Range)
		}
		out = append(out, ev.AsString())
	}
	return out, nil
}

func stringMapValue(attr *hcl.Attribute) (map[string]string, error) {
	v, err := evaluate(attr)
	if err != nil {
		return nil, err
	}
	if !v.CanIterateElements() {
		return nil, errors.Newf(errors.CodeManifestParseError, "%s at %s must be a map of strings", attr.Name, attr.Range)
	}
	out := map[string]string{}
	for it := v.ElementIterator(); it.Next(); {
		kv, ev := it.Element()
		if kv.Type() != cty.String || ev.Type() != cty.String {
			return nil, errors.Newf(errors.CodeManifestParseError, "%s at %s must map strings to strings", attr.Name, attr.Range)
		}
		out[kv.AsString()] = ev.AsString()
	}
	return out, nil
}
