package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"n8nmcp/internal/api"
	"n8nmcp/internal/n8n"
	"n8nmcp/pkg/logging"
)

var executionStatuses = map[string]bool{
	"success":  true,
	"error":    true,
	"waiting":  true,
	"running":  true,
	"canceled": true,
}

func (p *Provider) handleListExecutions(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	q := url.Values{}
	if id := stringArg(args, "workflow_id"); id != "" {
		q.Set("workflowId", id)
	}
	if status := stringArg(args, "status"); status != "" {
		if !executionStatuses[status] {
			return errorResult(fmt.Sprintf("Error: Invalid status %q. Use one of success, error, waiting, running, canceled.", status)), nil
		}
		q.Set("status", status)
	}
	if include, ok := boolArg(args, "include_data"); ok {
		q.Set("includeData", strconv.FormatBool(include))
	}
	q.Set("limit", strconv.Itoa(intArg(args, "limit", defaultListLimit, maxListLimit)))

	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "executions", Query: q})
	var page n8n.Page[n8n.Execution]
	if err := res.Decode(&page); err != nil {
		logging.Warn("Tools", "list_executions failed: %v", err)
		return errorResult("Failed to list executions."), nil
	}
	return textResult(p.formatters.FormatExecutionList(page)), nil
}

func (p *Provider) handleGetExecution(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	id := stringArg(args, "execution_id")
	if id == "" {
		return errorResult(requiredArgMessage("execution_id")), nil
	}
	include, ok := boolArg(args, "include_data")
	if !ok {
		include = true
	}

	q := url.Values{}
	q.Set("includeData", strconv.FormatBool(include))
	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "executions/" + n8n.PathEscape(id), Query: q})
	if res.StatusCode == http.StatusNotFound {
		return errorResult(fmt.Sprintf("Error: Execution %s not found.", id)), nil
	}

	var exec n8n.Execution
	if err := res.Decode(&exec); err != nil {
		logging.Warn("Tools", "get_execution %s failed: %v", id, err)
		return errorResult(fmt.Sprintf("Failed to fetch execution %s.", id)), nil
	}
	return textResult(p.formatters.FormatExecution(exec, res.Raw)), nil
}
