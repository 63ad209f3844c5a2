package trigger

import "strings"

// MergeFormData overlays caller input on synthesized defaults. A caller value
// replaces the default only when it is non-nil and non-empty; empty strings,
// lists and objects count as absent.
func MergeFormData(defaults, input map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(defaults)+len(input))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range input {
		if isEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}
