package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"n8nmcp/internal/api"
	"n8nmcp/internal/n8n"
	"n8nmcp/internal/trigger"
	"n8nmcp/pkg/logging"
)

const defaultChatMessage = "Hello"

// handleExecuteWorkflow starts a workflow the way its trigger expects:
// webhook call, form submission, or the run endpoint with an execute
// fallback. It makes at most two attempts after fetching the workflow.
func (p *Provider) handleExecuteWorkflow(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
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
	if !wf.Active {
		return errorResult(fmt.Sprintf("Error: Workflow %q (%s) is not active. Activate it before executing.", wf.Name, wf.ID)), nil
	}

	tr := trigger.Detect(wf)
	logging.Debug("Tools", "Workflow %s has %s trigger", id, tr.Type)

	switch tr.Type {
	case trigger.Unknown:
		return errorResult(unsupportedTriggerMessage(tr.Type)), nil
	case trigger.Webhook:
		if tr.Path == "" {
			return errorResult(incompleteTriggerMessage(tr.Type, "webhook path")), nil
		}
		return p.executeWebhook(ctx, s, wf, tr, args["input"]), nil
	case trigger.Form:
		if tr.Path == "" {
			return errorResult(incompleteTriggerMessage(tr.Type, "form id")), nil
		}
		return p.executeForm(ctx, s, wf, tr, args), nil
	default:
		return p.executeRun(ctx, s, wf, tr, args["input"]), nil
	}
}

// executeWebhook makes a single call to the webhook URL.
func (p *Provider) executeWebhook(ctx context.Context, s *session, wf *n8n.Workflow, tr trigger.Trigger, input interface{}) *api.CallToolResult {
	target := webhookURL(s, tr.Path)

	var body interface{}
	switch tr.HTTPMethod {
	case http.MethodGet, http.MethodHead:
		if m, ok := input.(map[string]interface{}); ok && len(m) > 0 {
			target += "?" + queryString(m)
		}
	default:
		body = wrapList(input)
	}

	// Webhooks have their own authentication; the API key is not sent.
	res := p.client.CallURL(ctx, "", tr.HTTPMethod, target, body)
	if !res.OK() {
		return errorResult(fmt.Sprintf("Failed to execute workflow %q via webhook (%s %s): %s",
			wf.Name, tr.HTTPMethod, target, res.Describe()))
	}

	return textResult(fmt.Sprintf("Workflow %q triggered via webhook (%s %s).\nStatus: %d\nResponse:\n%s",
		wf.Name, tr.HTTPMethod, target, res.StatusCode, p.formatters.FormatJSON(res.Data)))
}

// executeForm tries the run endpoint first and falls back to a multipart
// submission of the form.
func (p *Provider) executeForm(ctx context.Context, s *session, wf *n8n.Workflow, tr trigger.Trigger, args map[string]interface{}) *api.CallToolResult {
	if wf.ActiveVersionID == "" {
		return errorResult(fmt.Sprintf("Error: Cannot execute form workflow %q: it has no published version (activeVersionId is not set). Publish the workflow in n8n and try again.", wf.Name))
	}
	if tr.Node == nil {
		return errorResult(fmt.Sprintf("Error: Cannot execute form workflow %q: the form trigger node could not be resolved.", wf.Name))
	}

	input, err := objectArg(args, "form_data")
	if err != nil {
		return errorResult("Error: " + err.Error())
	}
	if input == nil {
		input, _ = args["input"].(map[string]interface{})
	}
	data := trigger.MergeFormData(p.synthesizer.Synthesize(tr.Node), input)

	run := p.client.CallURL(ctx, s.apiKey, http.MethodPost, runURL(s, wf.ID), runPayload(wf, tr, data))
	if run.OK() {
		return textResult(fmt.Sprintf("Workflow %q started via run endpoint.%s\nSubmitted data:\n%s",
			wf.Name, executionIDSuffix(run), p.formatters.FormatJSON(data)))
	}
	logging.Debug("Tools", "Run endpoint failed for form workflow %s (%s), submitting form", wf.ID, run.Describe())

	target := s.hostRoot() + "/form/" + url.PathEscape(tr.Path)
	res := p.client.SubmitForm(ctx, target, data)
	if !res.OK() {
		published := yesNo(wf.ActiveVersionID != "")
		if res.StatusCode >= 400 {
			return errorResult(fmt.Sprintf("Failed to submit form for workflow %q: HTTP %d from %s (active: %s, published: %s). Response: %s",
				wf.Name, res.StatusCode, target, yesNo(wf.Active), published, strings.TrimSpace(string(res.Raw))))
		}
		return errorResult(fmt.Sprintf("Failed to submit form for workflow %q (published: %s): %s", wf.Name, published, res.Describe()))
	}

	return textResult(fmt.Sprintf("Form submitted for workflow %q (form %s).\nStatus: %d\nSubmitted data:\n%s\nResponse:\n%s",
		wf.Name, tr.Path, res.StatusCode, p.formatters.FormatJSON(data), p.formatters.FormatJSON(res.Data)))
}

// executeRun serves schedule, chat and manual triggers.
func (p *Provider) executeRun(ctx context.Context, s *session, wf *n8n.Workflow, tr trigger.Trigger, input interface{}) *api.CallToolResult {
	var data interface{} = input
	if tr.Type == trigger.Chat {
		data = p.chatInput(input)
	}

	run := p.client.CallURL(ctx, s.apiKey, http.MethodPost, runURL(s, wf.ID), runPayload(wf, tr, data))
	if run.OK() {
		return textResult(fmt.Sprintf("Workflow %q (%s trigger) started via run endpoint.%s\nResponse:\n%s",
			wf.Name, tr.Type, executionIDSuffix(run), p.formatters.FormatJSON(run.Data)))
	}
	logging.Debug("Tools", "Run endpoint failed for workflow %s (%s), trying execute endpoint", wf.ID, run.Describe())

	versionID := wf.ActiveVersionID
	if versionID == "" {
		versionID = wf.VersionID
	}
	exec := p.call(ctx, s, n8n.Request{
		Method: http.MethodPost,
		Path:   "workflows/" + n8n.PathEscape(wf.ID) + "/execute",
		Body:   map[string]interface{}{"versionId": versionID, "data": data},
	})
	if !exec.OK() {
		return errorResult(fmt.Sprintf("Failed to execute workflow %q (%s trigger). Run endpoint: %s. Execute endpoint: %s.",
			wf.Name, tr.Type, run.Describe(), exec.Describe()))
	}

	return textResult(fmt.Sprintf("Workflow %q (%s trigger) started via execute endpoint.%s\nResponse:\n%s",
		wf.Name, tr.Type, executionIDSuffix(exec), p.formatters.FormatJSON(exec.Data)))
}

// chatInput shapes input as a chat message. A string is the message; an
// object may carry message or chatInput.
func (p *Provider) chatInput(input interface{}) map[string]interface{} {
	msg := ""
	switch v := input.(type) {
	case string:
		msg = strings.TrimSpace(v)
	case map[string]interface{}:
		for _, key := range []string{"message", "chatInput", "text"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				msg = strings.TrimSpace(s)
				break
			}
		}
	}
	if msg == "" {
		msg = defaultChatMessage
	}
	return map[string]interface{}{
		"sessionId": p.newID(),
		"action":    "sendMessage",
		"message":   msg,
		"chatInput": msg,
	}
}

func runURL(s *session, workflowID string) string {
	return s.hostRoot() + "/rest/workflows/" + url.PathEscape(workflowID) + "/run"
}

// runPayload embeds the full workflow definition and starts from the trigger
// node with data as its output.
func runPayload(wf *n8n.Workflow, tr trigger.Trigger, data interface{}) map[string]interface{} {
	var definition interface{} = wf
	if len(wf.Raw) > 0 {
		definition = json.RawMessage(wf.Raw)
	}

	payload := map[string]interface{}{
		"workflowData": definition,
	}
	if tr.Node != nil {
		start := map[string]interface{}{"name": tr.Node.Name}
		if data != nil {
			start["data"] = map[string]interface{}{
				"main": []interface{}{[]interface{}{map[string]interface{}{"json": data}}},
			}
		}
		payload["triggerToStartFrom"] = start
	}
	return payload
}

func executionIDSuffix(res n8n.Result) string {
	for _, path := range []string{"data.executionId", "executionId"} {
		if v := gjson.GetBytes(res.Raw, path); v.Exists() && v.String() != "" {
			return " Execution id: " + v.String() + "."
		}
	}
	return ""
}

// wrapList sends input as a one-element list unless it already is a list.
func wrapList(input interface{}) []interface{} {
	switch v := input.(type) {
	case []interface{}:
		return v
	case nil:
		return []interface{}{map[string]interface{}{}}
	default:
		return []interface{}{v}
	}
}

func queryString(m map[string]interface{}) string {
	q := url.Values{}
	for k, v := range m {
		switch t := v.(type) {
		case string:
			q.Set(k, t)
		case []interface{}:
			for _, item := range t {
				q.Add(k, fmt.Sprint(item))
			}
		default:
			q.Set(k, fmt.Sprint(t))
		}
	}
	return q.Encode()
}
