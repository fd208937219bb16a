// Package pattern evaluates EventBridge event patterns locally, so rule
// matching and pattern testing work without calling AWS.
//
// The supported grammar is the subset EventBridge rules commonly use:
// exact scalar matching, prefix, suffix, equals-ignore-case, anything-but
// (scalars, lists, or a prefix form), numeric comparisons, exists, nested
// field objects, OR across a matcher list, and any-element matching for
// event arrays.
package pattern

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DemoSourcePattern matches every event this tool generates, via the
// demo.aws. source namespace.
const DemoSourcePattern = `{"source":[{"prefix":"demo.aws"}]}`

// Pattern is one parsed, validated event pattern.
type Pattern struct {
	fields map[string]any
}

// Parse validates and decodes an event pattern document.
func Parse(data []byte) (*Pattern, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal event pattern: %w", err)
	}
	if len(root) == 0 {
		return nil, errors.New("event pattern must declare at least one field")
	}
	if err := validateObject(root, ""); err != nil {
		return nil, err
	}
	return &Pattern{fields: root}, nil
}

// MustParse is Parse for trusted literal patterns.
func MustParse(s string) *Pattern {
	p, err := Parse([]byte(s))
	if err != nil {
		panic("pattern: " + err.Error())
	}
	return p
}

// Matches evaluates the pattern against a decoded event. Every declared
// field must match; a matcher list matches when any one matcher does.
func (p *Pattern) Matches(event map[string]any) bool {
	return matchObject(p.fields, event)
}

// MatchesJSON evaluates the pattern against a serialized event.
func (p *Pattern) MatchesJSON(event []byte) (bool, error) {
	var decoded map[string]any
	if err := json.Unmarshal(event, &decoded); err != nil {
		return false, fmt.Errorf("unmarshal event: %w", err)
	}
	return p.Matches(decoded), nil
}

func validateObject(obj map[string]any, path string) error {
	for key, v := range obj {
		p := key
		if path != "" {
			p = path + "." + key
		}
		switch node := v.(type) {
		case map[string]any:
			if len(node) == 0 {
				return fmt.Errorf("field %q: empty pattern object", p)
			}
			if err := validateObject(node, p); err != nil {
				return err
			}
		case []any:
			if len(node) == 0 {
				return fmt.Errorf("field %q: matcher list is empty", p)
			}
			for _, m := range node {
				if err := validateMatcher(m, p); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("field %q: expected a nested object or matcher list, got %T", p, v)
		}
	}
	return nil
}

func validateMatcher(m any, path string) error {
	mm, ok := m.(map[string]any)
	if !ok {
		// Scalar matchers need no validation.
		return nil
	}
	if len(mm) != 1 {
		return fmt.Errorf("field %q: matcher must carry exactly one operator", path)
	}
	for op, arg := range mm {
		switch op {
		case "prefix", "suffix", "equals-ignore-case":
			if _, ok := arg.(string); !ok {
				return fmt.Errorf("field %q: %s takes a string", path, op)
			}
		case "exists":
			if _, ok := arg.(bool); !ok {
				return fmt.Errorf("field %q: exists takes a boolean", path)
			}
		case "anything-but":
			if inner, ok := arg.(map[string]any); ok {
				if len(inner) != 1 {
					return fmt.Errorf("field %q: anything-but object form takes exactly a prefix", path)
				}
				if _, ok := inner["prefix"].(string); !ok {
					return fmt.Errorf("field %q: anything-but object form takes a prefix string", path)
				}
			}
		case "numeric":
			if err := validateNumeric(arg, path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("field %q: unsupported matcher %q", path, op)
		}
	}
	return nil
}

func validateNumeric(arg any, path string) error {
	ops, ok := arg.([]any)
	if !ok || len(ops) == 0 || len(ops)%2 != 0 {
		return fmt.Errorf("field %q: numeric takes operator/operand pairs", path)
	}
	for i := 0; i < len(ops); i += 2 {
		op, ok := ops[i].(string)
		if !ok || !validNumericOp(op) {
			return fmt.Errorf("field %q: bad numeric operator %v", path, ops[i])
		}
		if _, ok := numValue(ops[i+1]); !ok {
			return fmt.Errorf("field %q: numeric operand must be a number", path)
		}
	}
	return nil
}

func validNumericOp(op string) bool {
	switch op {
	case "=", "!=", "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}
