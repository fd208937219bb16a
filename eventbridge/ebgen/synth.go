package ebgen

import (
	"fmt"
	"strings"

	"github.com/acksell/jassy/eventbridge/schema"
)

// synthesize produces one concrete value for a named property. Name
// heuristics run before type dispatch and earlier rules win; the order is
// observable behavior for names matching more than one rule (uploadTime
// is a timestamp, never a plain string).
func (g *Generator) synthesize(name string, prop *schema.PropertyNode, refs map[string]*schema.Node, depth int) any {
	if prop == nil {
		prop = schema.Unknown()
	}
	lower := strings.ToLower(name)

	switch {
	case name == "account" || name == "account-id" || name == "accountId":
		return g.accountID()
	case name == "region":
		return g.region
	case name == "id" || strings.HasSuffix(name, "Id"):
		return g.uuidString()
	case name == "time" || strings.HasSuffix(name, "Time") || strings.HasSuffix(name, "At"):
		return g.timestamp()
	case strings.Contains(lower, "arn"):
		return g.arn(serviceToken(name))
	case name == "source":
		return "demo.aws." + g.word()
	}

	switch prop.Kind {
	case schema.KindScalar:
		switch prop.Type {
		case "string":
			return g.stringValue(lower)
		case "number", "integer":
			return between(g.rand, 1, 10000)
		case "boolean":
			return g.rand.IntN(2) == 0
		default:
			return g.word()
		}
	case schema.KindArray:
		if depth <= 0 {
			return g.word()
		}
		n := between(g.rand, 1, 3)
		items := make([]any, n)
		for i := range items {
			items[i] = g.synthesize(name+"_item", prop.Items, refs, depth-1)
		}
		return items
	case schema.KindObject:
		if len(prop.Properties) == 0 {
			return g.wordMap()
		}
		// materialize needs one level of its own, so the limit bites
		// here rather than producing an empty object at depth zero.
		if depth <= 1 {
			return g.word()
		}
		return g.materialize(prop.Properties, prop.Required, refs, depth-1)
	default:
		// KindUnknown, or a reference the caller chose not to resolve.
		return g.word()
	}
}

// stringValue applies the secondary name heuristics for string-typed
// properties.
func (g *Generator) stringValue(lower string) string {
	switch {
	case strings.HasSuffix(lower, "name"):
		return g.word() + "-" + g.word()
	case strings.Contains(lower, "ip"):
		return g.ipv4()
	case strings.Contains(lower, "etag"):
		return g.hex(32)
	case strings.Contains(lower, "key"):
		return g.word() + "/" + g.fileName()
	default:
		return g.word()
	}
}

// serviceToken derives the ARN service segment from a property name: the
// text before a trailing "Arn", lower-cased. Names that trip the ARN rule
// without that suffix ("arn" itself, "arnValue") carry no usable service
// and get a generic token.
func serviceToken(name string) string {
	if !strings.HasSuffix(name, "Arn") {
		return "service"
	}
	svc := strings.ToLower(strings.TrimSuffix(name, "Arn"))
	if svc == "" {
		return "service"
	}
	return svc
}

// arn synthesizes an ARN-shaped value. S3 ARNs carry no region or
// account segment.
func (g *Generator) arn(service string) string {
	if service == "s3" {
		return "arn:aws:s3:::" + g.resourceID()
	}
	return fmt.Sprintf("arn:aws:%s:%s:%s:resource/%s", service, g.region, g.accountID(), g.resourceID())
}
