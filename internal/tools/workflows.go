package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"n8nmcp/internal/api"
	"n8nmcp/internal/n8n"
	"n8nmcp/pkg/logging"
)

func (p *Provider) handleListWorkflows(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	q := url.Values{}
	if active, ok := boolArg(args, "active"); ok {
		q.Set("active", strconv.FormatBool(active))
	}
	if tags := stringArg(args, "tags"); tags != "" {
		q.Set("tags", tags)
	}
	if name := stringArg(args, "name"); name != "" {
		q.Set("name", name)
	}
	if cursor := stringArg(args, "cursor"); cursor != "" {
		q.Set("cursor", cursor)
	}
	q.Set("limit", strconv.Itoa(intArg(args, "limit", defaultListLimit, maxListLimit)))

	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "workflows", Query: q})
	var page n8n.Page[n8n.Workflow]
	if err := res.Decode(&page); err != nil {
		logging.Warn("Tools", "list_workflows failed: %v", err)
		return errorResult("Failed to list workflows."), nil
	}

	return textResult(p.formatters.FormatWorkflowList(page)), nil
}

// fetchWorkflow loads one workflow. The result is non-nil on failure.
func (p *Provider) fetchWorkflow(ctx context.Context, s *session, id string) (*n8n.Workflow, *api.CallToolResult) {
	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "workflows/" + n8n.PathEscape(id)})
	if res.StatusCode == http.StatusNotFound {
		return nil, errorResult(fmt.Sprintf("Error: Workflow %s not found.", id))
	}

	var wf n8n.Workflow
	if err := res.Decode(&wf); err != nil {
		logging.Warn("Tools", "Fetching workflow %s failed: %v", id, err)
		return nil, errorResult(fmt.Sprintf("Failed to fetch workflow %s.", id))
	}
	return &wf, nil
}

func (p *Provider) handleGetWorkflow(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	id := stringArg(args, "workflow_id")
	if id == "" {
		return errorResult(requiredArgMessage("workflow_id")), nil
	}
	wf, errRes := p.fetchWorkflow(ctx, s, id)
	if errRes != nil {
		return errRes, nil
	}
	return textResult(p.formatters.FormatWorkflow(wf)), nil
}

func (p *Provider) handleCreateWorkflow(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	name := stringArg(args, "name")
	if name == "" {
		return errorResult(requiredArgMessage("name")), nil
	}
	rawNodes, err := listArg(args, "nodes")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	if len(rawNodes) == 0 {
		return errorResult(requiredArgMessage("nodes")), nil
	}
	nodes, err := NormalizeNodes(rawNodes)
	if err != nil {
		return errorResult("Error: Invalid " + err.Error()), nil
	}
	connections, err := objectArg(args, "connections")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	settings, err := objectArg(args, "settings")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}

	body := map[string]interface{}{
		"name":        name,
		"nodes":       nodes,
		"connections": orEmpty(connections),
		"settings":    orEmpty(settings),
	}
	res := p.call(ctx, s, n8n.Request{Method: http.MethodPost, Path: "workflows", Body: body})

	var wf n8n.Workflow
	if err := res.Decode(&wf); err != nil {
		logging.Warn("Tools", "create_workflow failed: %v", err)
		return errorResult(fmt.Sprintf("Failed to create workflow %q.", name)), nil
	}

	return textResult(fmt.Sprintf("Workflow created successfully.\nID: %s\nName: %s\nNodes: %d\nActive: %s",
		wf.ID, wf.Name, len(wf.Nodes), yesNo(wf.Active))), nil
}

func (p *Provider) handleUpdateWorkflow(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	id := stringArg(args, "workflow_id")
	if id == "" {
		return errorResult(requiredArgMessage("workflow_id")), nil
	}
	rawNodes, err := listArg(args, "nodes")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	var nodes []map[string]interface{}
	if rawNodes != nil {
		if nodes, err = NormalizeNodes(rawNodes); err != nil {
			return errorResult("Error: Invalid " + err.Error()), nil
		}
	}
	connections, err := objectArg(args, "connections")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}
	settings, err := objectArg(args, "settings")
	if err != nil {
		return errorResult("Error: " + err.Error()), nil
	}

	current, errRes := p.fetchWorkflow(ctx, s, id)
	if errRes != nil {
		return errRes, nil
	}

	// PUT replaces the whole definition, so unchanged parts come from the
	// current version.
	body := map[string]interface{}{
		"name":        current.Name,
		"nodes":       rawField(current.Raw, "nodes", []interface{}{}),
		"connections": rawField(current.Raw, "connections", map[string]interface{}{}),
		"settings":    rawField(current.Raw, "settings", map[string]interface{}{}),
	}
	if name := stringArg(args, "name"); name != "" {
		body["name"] = name
	}
	if nodes != nil {
		body["nodes"] = nodes
	}
	if connections != nil {
		body["connections"] = connections
	}
	if settings != nil {
		body["settings"] = settings
	}

	res := p.call(ctx, s, n8n.Request{Method: http.MethodPut, Path: "workflows/" + n8n.PathEscape(id), Body: body})
	var wf n8n.Workflow
	if err := res.Decode(&wf); err != nil {
		logging.Warn("Tools", "update_workflow %s failed: %v", id, err)
		return errorResult(fmt.Sprintf("Failed to update workflow %s.", id)), nil
	}

	return textResult(fmt.Sprintf("Workflow updated successfully.\nID: %s\nName: %s\nNodes: %d\nActive: %s",
		wf.ID, wf.Name, len(wf.Nodes), yesNo(wf.Active))), nil
}

func (p *Provider) handleDeleteWorkflow(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	id := stringArg(args, "workflow_id")
	if id == "" {
		return errorResult(requiredArgMessage("workflow_id")), nil
	}
	res := p.call(ctx, s, n8n.Request{Method: http.MethodDelete, Path: "workflows/" + n8n.PathEscape(id)})
	if res.StatusCode == http.StatusNotFound {
		return errorResult(fmt.Sprintf("Error: Workflow %s not found.", id)), nil
	}
	if !res.OK() {
		logging.Warn("Tools", "delete_workflow %s failed: %s", id, res.Describe())
		return errorResult(fmt.Sprintf("Failed to delete workflow %s.", id)), nil
	}
	return textResult(fmt.Sprintf("Workflow %s deleted successfully.", id)), nil
}

func (p *Provider) handleSetActive(ctx context.Context, args map[string]interface{}, active bool) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	verb := "deactivate"
	if active {
		verb = "activate"
	}

	id := stringArg(args, "workflow_id")
	if id == "" {
		return errorResult(requiredArgMessage("workflow_id")), nil
	}
	res := p.call(ctx, s, n8n.Request{Method: http.MethodPost, Path: "workflows/" + n8n.PathEscape(id) + "/" + verb})
	if res.StatusCode == http.StatusNotFound {
		return errorResult(fmt.Sprintf("Error: Workflow %s not found.", id)), nil
	}
	if !res.OK() {
		logging.Warn("Tools", "%s_workflow %s failed: %s", verb, id, res.Describe())
		return errorResult(fmt.Sprintf("Failed to %s workflow %s.", verb, id)), nil
	}

	name := id
	if obj := res.Object(); obj != nil {
		if n, ok := obj["name"].(string); ok && n != "" {
			name = fmt.Sprintf("%q (%s)", n, id)
		}
	}
	return textResult(fmt.Sprintf("Workflow %s %sd.", name, verb)), nil
}

// rawField returns the field of doc verbatim, so properties outside the
// decoded structs survive a read-modify-write.
func rawField(doc []byte, path string, fallback interface{}) interface{} {
	r := gjson.GetBytes(doc, path)
	if !r.Exists() || r.Type == gjson.Null {
		return fallback
	}
	return json.RawMessage(r.Raw)
}

func orEmpty(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
