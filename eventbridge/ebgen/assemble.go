package ebgen

import (
	"fmt"
	"strings"

	"github.com/acksell/jassy/eventbridge/schema"
)

// Event is one concrete generated event in EventBridge envelope form.
type Event struct {
	Version    string         `json:"version"`
	ID         string         `json:"id"`
	DetailType string         `json:"detail-type"`
	Source     string         `json:"source"`
	Account    string         `json:"account"`
	Time       string         `json:"time"`
	Region     string         `json:"region"`
	Resources  []string       `json:"resources"`
	Detail     map[string]any `json:"detail"`
}

// SchemaStructureError reports a document the generator cannot start
// from: no components table, or no AWSEvent root descriptor. Anything
// less fundamental degrades to a substitute value instead of failing.
type SchemaStructureError struct {
	Reason string
}

func (e *SchemaStructureError) Error() string {
	return "schema structure: " + e.Reason
}

// Generate assembles one concrete event from the document. The source is
// rewritten into the demo.aws. namespace so generated traffic is
// matchable apart from real AWS events.
func (g *Generator) Generate(doc *schema.Document) (*Event, error) {
	if doc == nil || doc.Components == nil {
		return nil, &SchemaStructureError{Reason: "document has no components table"}
	}
	root, ok := doc.Root()
	if !ok {
		return nil, &SchemaStructureError{Reason: fmt.Sprintf("component %q not found", schema.RootSchemaName)}
	}

	detailType := root.DetailType
	if detailType == "" {
		detailType = "Unknown Event"
	}
	rawSource := root.Source
	if rawSource == "" {
		rawSource = "aws.unknown"
	}
	service := strings.TrimPrefix(rawSource, "aws.")
	source := "demo.aws." + service

	account := g.accountID()
	evt := &Event{
		Version:    "0",
		ID:         g.uuidString(),
		DetailType: detailType,
		Source:     source,
		Account:    account,
		Time:       g.timestamp(),
		Region:     g.region,
		Resources:  []string{g.envelopeResource(service, account)},
	}
	evt.Detail = g.detail(root, doc.Components, source)
	return evt, nil
}

// envelopeResource builds the single resource ARN carried by the
// envelope. S3 ARNs carry no region or account segment.
func (g *Generator) envelopeResource(service, account string) string {
	if service == "s3" {
		return "arn:aws:s3:::example-bucket-" + g.hex(8)
	}
	return fmt.Sprintf("arn:aws:%s:%s:%s:resource/test-resource-%s", service, g.region, account, g.hex(8))
}

// detail materializes the root's detail reference. A missing detail
// property, a non-reference descriptor, or a dangling reference all fall
// back to a minimal two-field payload; generation never fails over an
// absent detail schema.
func (g *Generator) detail(root *schema.Node, refs map[string]*schema.Node, source string) map[string]any {
	if prop, ok := root.Property("detail"); ok && prop.Kind == schema.KindRef {
		if node, found := refs[prop.Ref]; found {
			return g.materialize(node.Properties, node.Required, refs, g.maxDepth)
		}
	}
	return map[string]any{
		"message":   fmt.Sprintf("Test event generated for %s", source),
		"timestamp": g.timestamp(),
	}
}
