// Package schema models AWS EventBridge registry schema documents: a
// components table of named schemas plus the conventional AWSEvent envelope
// descriptor. Property descriptors are decoded once into a tagged form so
// consumers switch on Kind instead of probing raw maps for "$ref" or "type".
package schema

// RootSchemaName is the conventional name of the envelope descriptor.
const RootSchemaName = "AWSEvent"

// Document is one parsed schema file.
type Document struct {
	// Components maps component name to its schema node. Nil when the
	// document carries no components/schemas section.
	Components map[string]*Node
}

// Component looks up a named component schema.
func (d *Document) Component(name string) (*Node, bool) {
	n, ok := d.Components[name]
	return n, ok
}

// Root returns the AWSEvent envelope descriptor.
func (d *Document) Root() (*Node, bool) {
	return d.Component(RootSchemaName)
}

// Node is one named component schema.
type Node struct {
	// DetailType and Source hold the x-amazon-events-detail-type and
	// x-amazon-events-source vendor fields, present on the root
	// envelope descriptor.
	DetailType string
	Source     string

	// Type is the declared type, usually "object" for components.
	Type string

	// Properties in declaration order.
	Properties []Property
	Required   []string
}

// Property finds a property descriptor by name.
func (n *Node) Property(name string) (*PropertyNode, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Node, true
		}
	}
	return nil, false
}

// IsRequired reports whether the named property is listed as required.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property is one named property descriptor, in declaration order.
type Property struct {
	Name string
	Node *PropertyNode
}

// PropertyKind discriminates the decoded property descriptor variants.
type PropertyKind int

const (
	// KindUnknown marks a descriptor with no recognizable type. The
	// generator falls back to a random word for it.
	KindUnknown PropertyKind = iota
	// KindRef points at another component by name.
	KindRef
	// KindScalar carries a declared scalar type.
	KindScalar
	// KindArray carries an element descriptor.
	KindArray
	// KindObject carries inline properties (possibly none).
	KindObject
)

// String returns the kind name for logs and test failure messages.
func (k PropertyKind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// PropertyNode is one decoded property descriptor.
// Exactly one variant is populated, selected by Kind.
type PropertyNode struct {
	Kind PropertyKind

	// Ref is the referenced component name (KindRef): the last path
	// segment of the raw "$ref" value.
	// Created via Ref().
	Ref string

	// Type is the declared type (KindScalar): "string", "number",
	// "integer", "boolean", or whatever else the document said.
	// Created via Scalar().
	Type string

	// Items is the element descriptor (KindArray). Unknown when the
	// array declares no items schema.
	// Created via ArrayOf().
	Items *PropertyNode

	// Properties and Required describe an inline object (KindObject).
	// Created via Object().
	Properties []Property
	Required   []string
}

// Ref creates a reference descriptor pointing at the named component.
func Ref(name string) *PropertyNode {
	return &PropertyNode{Kind: KindRef, Ref: name}
}

// Scalar creates a descriptor with a declared scalar type.
func Scalar(typ string) *PropertyNode {
	return &PropertyNode{Kind: KindScalar, Type: typ}
}

// ArrayOf creates an array descriptor with the given element descriptor.
func ArrayOf(items *PropertyNode) *PropertyNode {
	if items == nil {
		items = Unknown()
	}
	return &PropertyNode{Kind: KindArray, Items: items}
}

// Object creates an inline object descriptor.
func Object(props []Property, required []string) *PropertyNode {
	return &PropertyNode{Kind: KindObject, Properties: props, Required: required}
}

// Unknown creates a descriptor with no type information.
func Unknown() *PropertyNode {
	return &PropertyNode{Kind: KindUnknown}
}
