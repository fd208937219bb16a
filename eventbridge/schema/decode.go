package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and parses a schema document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Parse decodes a schema document. Structural JSON errors are returned;
// individual property descriptors that make no sense decode to Unknown
// rather than failing the document, since generation must degrade per
// property, not per file.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal schema document: %w", err)
	}

	doc := &Document{}
	if raw.Components == nil || raw.Components.Schemas == nil {
		return doc, nil
	}

	doc.Components = make(map[string]*Node, len(raw.Components.Schemas))
	for name, rawNode := range raw.Components.Schemas {
		node, err := decodeNode(rawNode)
		if err != nil {
			return nil, fmt.Errorf("decode component %q: %w", name, err)
		}
		doc.Components[name] = node
	}
	return doc, nil
}

type rawDocument struct {
	Components *struct {
		Schemas map[string]json.RawMessage `json:"schemas"`
	} `json:"components"`
}

type rawNode struct {
	DetailType string          `json:"x-amazon-events-detail-type"`
	Source     string          `json:"x-amazon-events-source"`
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
	Required   []string        `json:"required"`
}

func decodeNode(data json.RawMessage) (*Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &Node{
		DetailType: raw.DetailType,
		Source:     raw.Source,
		Type:       raw.Type,
		Properties: decodeProperties(raw.Properties),
		Required:   raw.Required,
	}, nil
}

type rawProperty struct {
	Ref        string          `json:"$ref"`
	Type       string          `json:"type"`
	Items      json.RawMessage `json:"items"`
	Properties json.RawMessage `json:"properties"`
	Required   []string        `json:"required"`
}

// decodeProperty turns one raw descriptor into its tagged form. A "$ref"
// wins over everything else; reference descriptors never carry a type.
func decodeProperty(data json.RawMessage) *PropertyNode {
	if isJSONNull(data) {
		return Unknown()
	}
	var raw rawProperty
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an object (JSON Schema permits bare true/false here, and
		// hand-written documents contain stranger things).
		return Unknown()
	}
	if raw.Ref != "" {
		return Ref(refName(raw.Ref))
	}
	switch raw.Type {
	case "":
		return Unknown()
	case "array":
		if isJSONNull(raw.Items) {
			return ArrayOf(Unknown())
		}
		return ArrayOf(decodeProperty(raw.Items))
	case "object":
		return Object(decodeProperties(raw.Properties), raw.Required)
	default:
		return Scalar(raw.Type)
	}
}

// decodeProperties decodes a "properties" object preserving declaration
// order, which keeps generated output stable for assertions. A value that
// is not an object decodes to no properties.
func decodeProperties(data json.RawMessage) []Property {
	if isJSONNull(data) {
		return nil
	}
	keys, err := objectKeys(data)
	if err != nil {
		return nil
	}
	var byName map[string]json.RawMessage
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil
	}
	props := make([]Property, 0, len(keys))
	for _, k := range keys {
		props = append(props, Property{Name: k, Node: decodeProperty(byName[k])})
	}
	return props
}

func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func isJSONNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// objectKeys tokenizes one JSON object and returns its keys in
// declaration order. encoding/json maps lose ordering, so the keys are
// pulled out in a separate token pass.
func objectKeys(data json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
