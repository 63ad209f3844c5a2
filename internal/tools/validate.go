package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"n8nmcp/internal/api"
	"n8nmcp/internal/trigger"
)

// Report collects validation findings. Errors fail validation, warnings
// do not.
type Report struct {
	Errors   []string
	Warnings []string
}

// Passed reports whether there are no errors.
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Format renders the report as text.
func (r *Report) Format(subject string) string {
	var b strings.Builder
	status := "PASSED"
	if !r.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "Validation %s for %s", status, subject)

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\n\nErrors (%d):", len(r.Errors))
		for _, e := range r.Errors {
			b.WriteString("\n  - " + e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\n\nWarnings (%d):", len(r.Warnings))
		for _, w := range r.Warnings {
			b.WriteString("\n  - " + w)
		}
	}
	if r.Passed() && len(r.Warnings) == 0 {
		b.WriteString("\n\nNo issues found.")
	}
	return b.String()
}

// nodeRule requires parameters on node types matching keyword. Each entry of
// requires is satisfied by any one of its alternatives.
type nodeRule struct {
	keyword string
	// exact compares against the whole type suffix instead of a substring,
	// for keywords short enough to occur inside unrelated names.
	exact    bool
	requires [][]string
}

var nodeRules = []nodeRule{
	{keyword: "webhook", requires: [][]string{{"httpMethod"}}},
	{keyword: "httprequest", requires: [][]string{{"url"}}},
	{keyword: "scheduletrigger", requires: [][]string{{"rule"}}},
	{keyword: "code", exact: true, requires: [][]string{{"code", "jsCode", "pythonCode"}}},
	{keyword: "if", exact: true, requires: [][]string{{"conditions"}}},
	{keyword: "formtrigger", requires: [][]string{{"formFields"}}},
	{keyword: "emailsend", requires: [][]string{{"toEmail"}, {"fromEmail"}}},
}

var knownTypePrefixes = []string{"n8n-nodes-base.", "@n8n/"}

func typeSuffix(nodeType string) string {
	lower := strings.ToLower(nodeType)
	if i := strings.LastIndex(lower, "."); i >= 0 {
		return lower[i+1:]
	}
	return lower
}

func (r nodeRule) matches(nodeType string) bool {
	suffix := typeSuffix(nodeType)
	if r.exact {
		return suffix == r.keyword
	}
	return strings.Contains(suffix, r.keyword)
}

// ValidateNode applies the per-type parameter rules. label prefixes each
// finding ("" for a standalone node).
func ValidateNode(r *Report, label, nodeType string, params map[string]interface{}) {
	prefix := ""
	if label != "" {
		prefix = label + ": "
	}

	if strings.TrimSpace(nodeType) == "" {
		r.errorf("%snode type is required", prefix)
		return
	}

	known := false
	for _, p := range knownTypePrefixes {
		if strings.HasPrefix(nodeType, p) {
			known = true
			break
		}
	}
	if !known {
		r.warnf("%snode type %q does not start with a known prefix (%s); it may be a community node", prefix, nodeType, strings.Join(knownTypePrefixes, " or "))
	}

	for _, rule := range nodeRules {
		if !rule.matches(nodeType) {
			continue
		}
		for _, alternatives := range rule.requires {
			if !hasAnyParam(params, alternatives) {
				r.errorf("%s%s requires parameter %q", prefix, nodeType, alternatives[0])
			}
		}
	}
}

func hasAnyParam(params map[string]interface{}, names []string) bool {
	for _, n := range names {
		if !isEmptyValue(params[n]) {
			return true
		}
	}
	return false
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}

// ValidateWorkflow checks nodes and connections structurally.
func ValidateWorkflow(nodes []interface{}, connections map[string]interface{}) *Report {
	r := &Report{}
	if len(nodes) == 0 {
		r.errorf("workflow must contain at least one node")
		return r
	}

	names := map[string]bool{}
	types := map[string]string{}
	for i, raw := range nodes {
		node, ok := raw.(map[string]interface{})
		if !ok {
			r.errorf("node at index %d is not an object", i)
			continue
		}
		name, _ := node["name"].(string)
		typ, _ := node["type"].(string)
		label := fmt.Sprintf("node %d", i)
		if name == "" {
			r.errorf("node at index %d has no name", i)
		} else {
			label = fmt.Sprintf("node %q", name)
			if names[name] {
				r.errorf("duplicate node name %q", name)
			}
			names[name] = true
			types[name] = typ
		}
		if _, err := coercePosition(node["position"]); err != nil {
			r.warnf("%s: position %s", label, err)
		}
		params, _ := node["parameters"].(map[string]interface{})
		ValidateNode(r, label, typ, params)
	}

	targets := map[string]bool{}
	for _, src := range sortedMapKeys(connections) {
		if !names[src] {
			r.errorf("connection source %q is not a node", src)
		}
		for _, dst := range connectionTargets(connections[src]) {
			if !names[dst] {
				r.errorf("connection from %q targets unknown node %q", src, dst)
				continue
			}
			targets[dst] = true
		}
	}

	hasTrigger := false
	for _, name := range sortedBoolKeys(names) {
		if trigger.IsTriggerNode(types[name]) {
			hasTrigger = true
			continue
		}
		if !targets[name] && len(nodes) > 1 {
			r.warnf("node %q is not connected to any input and will never run", name)
		}
	}
	if !hasTrigger {
		r.warnf("workflow has no trigger node; it can only be started manually")
	}
	return r
}

// connectionTargets flattens {"main": [[{"node": "B"}], ...]} to node names.
func connectionTargets(v interface{}) []string {
	var out []string
	outputs, _ := v.(map[string]interface{})
	for _, outputType := range sortedMapKeys(outputs) {
		groups, _ := outputs[outputType].([]interface{})
		for _, g := range groups {
			list, _ := g.([]interface{})
			for _, item := range list {
				if m, ok := item.(map[string]interface{}); ok {
					if n, ok := m["node"].(string); ok {
						out = append(out, n)
					}
				}
			}
		}
	}
	return out
}

func sortedMapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBoolKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// handleValidateNode runs locally and takes no user_id, so it works before
// any n8n key is provisioned.
func (p *Provider) handleValidateNode(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	nodeType := stringArg(args, "node_type")
	if nodeType == "" {
		return errorResult(requiredArgMessage("node_type")), nil
	}
	params, err := objectArg(args, "parameters")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}

	r := &Report{}
	ValidateNode(r, "", nodeType, params)
	return textResult(r.Format(nodeType)), nil
}

func (p *Provider) handleValidateWorkflow(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	nodes, err := listArg(args, "nodes")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	if nodes == nil {
		return errorResult(requiredArgMessage("nodes")), nil
	}
	connections, err := objectArg(args, "connections")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}

	r := ValidateWorkflow(nodes, connections)
	return textResult(r.Format("workflow")), nil
}
