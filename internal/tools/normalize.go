package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidNode is the sentinel behind every NodeError.
var ErrInvalidNode = errors.New("invalid node")

// NodeError names the offending node by its position in the submitted list.
type NodeError struct {
	Index  int
	Field  string
	Reason string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node at index %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *NodeError) Unwrap() error {
	return ErrInvalidNode
}

// optionalNodeFields are copied when present and dropped otherwise. Anything
// outside this set and the required fields is removed: the public API rejects
// unknown node properties.
var optionalNodeFields = []string{
	"credentials",
	"disabled",
	"notes",
	"notesInFlow",
	"retryOnFail",
	"maxTries",
	"waitBetweenTries",
	"alwaysOutputData",
	"executeOnce",
	"onError",
	"continueOnFail",
	"webhookId",
	"color",
}

// NormalizeNodes applies NormalizeNode to every element.
func NormalizeNodes(nodes []interface{}) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(nodes))
	for i, raw := range nodes {
		n, err := NormalizeNode(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// NormalizeNode returns the canonical form of a node: id (generated when
// absent), name, type, typeVersion (default 1), position as two float64s,
// parameters (default empty) and the optional fields that were set.
// NormalizeNode(NormalizeNode(x)) == NormalizeNode(x).
func NormalizeNode(index int, raw interface{}) (map[string]interface{}, error) {
	in, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &NodeError{Index: index, Field: "node", Reason: "must be an object"}
	}

	name, _ := in["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, &NodeError{Index: index, Field: "name", Reason: "is required"}
	}
	typ, _ := in["type"].(string)
	if strings.TrimSpace(typ) == "" {
		return nil, &NodeError{Index: index, Field: "type", Reason: "is required"}
	}

	position, err := coercePosition(in["position"])
	if err != nil {
		return nil, &NodeError{Index: index, Field: "position", Reason: err.Error()}
	}

	typeVersion := float64(1)
	if v, ok := in["typeVersion"]; ok && v != nil {
		f, ok := toFloat(v)
		if !ok || f <= 0 {
			return nil, &NodeError{Index: index, Field: "typeVersion", Reason: "must be a positive number"}
		}
		typeVersion = f
	}

	parameters := map[string]interface{}{}
	if v, ok := in["parameters"]; ok && v != nil {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, &NodeError{Index: index, Field: "parameters", Reason: "must be an object"}
		}
		parameters = m
	}

	id, _ := in["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	out := map[string]interface{}{
		"id":          id,
		"name":        name,
		"type":        typ,
		"typeVersion": typeVersion,
		"position":    position,
		"parameters":  parameters,
	}
	for _, key := range optionalNodeFields {
		if v, ok := in[key]; ok && v != nil {
			out[key] = v
		}
	}
	return out, nil
}

func coercePosition(v interface{}) ([]float64, error) {
	var items []interface{}
	switch t := v.(type) {
	case nil:
		return nil, errors.New("is required")
	case []float64:
		if len(t) != 2 {
			return nil, fmt.Errorf("must have exactly 2 numbers, got %d", len(t))
		}
		return []float64{t[0], t[1]}, nil
	case []interface{}:
		items = t
	default:
		return nil, errors.New("must be an array of two numbers")
	}

	if len(items) != 2 {
		return nil, fmt.Errorf("must have exactly 2 numbers, got %d", len(items))
	}
	out := make([]float64, 2)
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
