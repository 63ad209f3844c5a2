package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Tool arguments arrive as decoded JSON; assistants also tend to send
// numbers and objects as strings, so the helpers accept both.

func stringArg(args map[string]interface{}, name string) string {
	switch v := args[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// boolArg returns the value and whether it was given.
func boolArg(args map[string]interface{}, name string) (bool, bool) {
	switch v := args[name].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// intArg returns def when the argument is absent or unusable, and clamps to
// [1, max].
func intArg(args map[string]interface{}, name string, def, max int) int {
	n := def
	switch v := args[name].(type) {
	case float64:
		n = int(v)
	case int:
		n = v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			n = int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n = i
		}
	}
	if n < 1 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

// objectArg returns a JSON object argument, decoding it from a string if needed.
func objectArg(args map[string]interface{}, name string) (map[string]interface{}, error) {
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %w", name, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%s must be an object", name)
	}
}

// listArg returns a JSON array argument, decoding it from a string if needed.
func listArg(args map[string]interface{}, name string) ([]interface{}, error) {
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var l []interface{}
		if err := json.Unmarshal([]byte(v), &l); err != nil {
			return nil, fmt.Errorf("%s must be a JSON array: %w", name, err)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("%s must be an array", name)
	}
}
