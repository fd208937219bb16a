package ebgen

import "github.com/acksell/jassy/eventbridge/schema"

// optionalInclusion is the probability that a property not listed as
// required still appears in the materialized object, modeling the partial
// payloads real events carry.
const optionalInclusion = 0.8

// materialize walks an object schema's properties in declaration order.
// Required properties are always present; optional ones are kept with
// probability optionalInclusion. The reference table travels as an
// argument, never as shared state, so concurrent generations stay
// independent.
func (g *Generator) materialize(props []schema.Property, required []string, refs map[string]*schema.Node, depth int) map[string]any {
	out := make(map[string]any, len(props))
	if depth <= 0 {
		return out
	}
	req := make(map[string]bool, len(required))
	for _, r := range required {
		req[r] = true
	}
	for _, p := range props {
		if !req[p.Name] && g.rand.Float64() > optionalInclusion {
			continue
		}
		out[p.Name] = g.propertyValue(p.Name, p.Node, refs, depth)
	}
	return out
}

// propertyValue resolves one included property. References resolve
// against the table and recurse into materialize; a dangling reference,
// or one past the depth limit, degrades to a generic value instead of
// failing the generation.
func (g *Generator) propertyValue(name string, prop *schema.PropertyNode, refs map[string]*schema.Node, depth int) any {
	if prop != nil && prop.Kind == schema.KindRef {
		node, ok := refs[prop.Ref]
		if !ok || depth <= 1 {
			return g.synthesize(name, schema.Unknown(), refs, depth-1)
		}
		return g.materialize(node.Properties, node.Required, refs, depth-1)
	}
	return g.synthesize(name, prop, refs, depth-1)
}
