package pattern

import "strings"

func matchObject(pat map[string]any, event map[string]any) bool {
	for key, pv := range pat {
		ev, present := event[key]
		switch pnode := pv.(type) {
		case map[string]any:
			if !present {
				if !matchAbsent(pnode) {
					return false
				}
				continue
			}
			if !matchNested(pnode, ev) {
				return false
			}
		case []any:
			if !present {
				if !absentAllowed(pnode) {
					return false
				}
				continue
			}
			if !matchValue(pnode, ev) {
				return false
			}
		default:
			// Parse rejects scalar leaves, nothing else reaches here.
			return false
		}
	}
	return true
}

// matchNested applies a nested pattern object to an event value. Arrays of
// objects match when any element does.
func matchNested(pat map[string]any, ev any) bool {
	switch e := ev.(type) {
	case map[string]any:
		return matchObject(pat, e)
	case []any:
		for _, item := range e {
			if m, ok := item.(map[string]any); ok && matchObject(pat, m) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchAbsent reports whether a pattern subtree matches a missing event
// subtree. That requires every leaf to allow absence via exists false.
func matchAbsent(pat map[string]any) bool {
	for _, pv := range pat {
		switch pnode := pv.(type) {
		case map[string]any:
			if !matchAbsent(pnode) {
				return false
			}
		case []any:
			if !absentAllowed(pnode) {
				return false
			}
		}
	}
	return true
}

func absentAllowed(matchers []any) bool {
	for _, m := range matchers {
		if mm, ok := m.(map[string]any); ok {
			if want, ok := mm["exists"].(bool); ok && !want {
				return true
			}
		}
	}
	return false
}

// matchValue ORs the matcher list against a present event value. Event
// arrays match when any element satisfies a matcher.
func matchValue(matchers []any, value any) bool {
	values := flatten(value)
	for _, m := range matchers {
		if mm, ok := m.(map[string]any); ok {
			if want, ok := mm["exists"].(bool); ok {
				if want {
					return true
				}
				continue
			}
		}
		for _, v := range values {
			if matchOne(m, v) {
				return true
			}
		}
	}
	return false
}

func flatten(value any) []any {
	if arr, ok := value.([]any); ok {
		return arr
	}
	return []any{value}
}

func matchOne(matcher any, v any) bool {
	if mm, ok := matcher.(map[string]any); ok {
		return matchExpr(mm, v)
	}
	return scalarEqual(matcher, v)
}

func matchExpr(m map[string]any, v any) bool {
	for op, arg := range m {
		switch op {
		case "prefix":
			s, ok := v.(string)
			p, _ := arg.(string)
			return ok && strings.HasPrefix(s, p)
		case "suffix":
			s, ok := v.(string)
			p, _ := arg.(string)
			return ok && strings.HasSuffix(s, p)
		case "equals-ignore-case":
			s, ok := v.(string)
			p, _ := arg.(string)
			return ok && strings.EqualFold(s, p)
		case "anything-but":
			return matchAnythingBut(arg, v)
		case "numeric":
			return matchNumeric(arg, v)
		}
	}
	return false
}

func matchAnythingBut(arg, v any) bool {
	switch a := arg.(type) {
	case []any:
		for _, excluded := range a {
			if scalarEqual(excluded, v) {
				return false
			}
		}
		return true
	case map[string]any:
		prefix, _ := a["prefix"].(string)
		s, ok := v.(string)
		return !ok || !strings.HasPrefix(s, prefix)
	default:
		return !scalarEqual(a, v)
	}
}

// matchNumeric applies operator/operand pairs, all of which must hold.
func matchNumeric(arg, v any) bool {
	ops, ok := arg.([]any)
	if !ok {
		return false
	}
	val, ok := numValue(v)
	if !ok {
		return false
	}
	for i := 0; i+1 < len(ops); i += 2 {
		op, _ := ops[i].(string)
		operand, ok := numValue(ops[i+1])
		if !ok {
			return false
		}
		if !compareNumeric(op, val, operand) {
			return false
		}
	}
	return true
}

func compareNumeric(op string, val, operand float64) bool {
	switch op {
	case "=":
		return val == operand
	case "!=":
		return val != operand
	case "<":
		return val < operand
	case "<=":
		return val <= operand
	case ">":
		return val > operand
	case ">=":
		return val >= operand
	default:
		return false
	}
}

func scalarEqual(pat, v any) bool {
	if pf, ok := numValue(pat); ok {
		vf, ok := numValue(v)
		return ok && pf == vf
	}
	return pat == v
}

// numValue normalizes the number representations seen in decoded JSON and
// in generator output.
func numValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
