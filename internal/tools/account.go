package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"n8nmcp/internal/api"
	"n8nmcp/internal/n8n"
	"n8nmcp/internal/trigger"
	"n8nmcp/pkg/logging"
)

func (p *Provider) handleListCredentials(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(intArg(args, "limit", defaultListLimit, maxListLimit)))
	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "credentials", Query: q})

	var page n8n.Page[n8n.Credential]
	if err := res.Decode(&page); err != nil {
		logging.Warn("Tools", "list_credentials failed: %v", err)
		return errorResult("Failed to list credentials."), nil
	}
	return textResult(p.formatters.FormatCredentialList(page)), nil
}

func (p *Provider) handleGetCredential(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	id := stringArg(args, "credential_id")
	if id == "" {
		return errorResult(requiredArgMessage("credential_id")), nil
	}
	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "credentials/" + n8n.PathEscape(id)})
	if res.StatusCode == http.StatusNotFound {
		return errorResult(fmt.Sprintf("Error: Credential %s not found.", id)), nil
	}

	var cred n8n.Credential
	if err := res.Decode(&cred); err != nil {
		logging.Warn("Tools", "get_credential %s failed: %v", id, err)
		return errorResult(fmt.Sprintf("Failed to fetch credential %s.", id)), nil
	}
	return textResult(p.formatters.FormatCredential(cred)), nil
}

func (p *Provider) handleGetCurrentUser(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "users/me"})
	var user n8n.User
	if err := res.Decode(&user); err != nil {
		logging.Warn("Tools", "get_current_user failed: %v", err)
		return errorResult("Failed to fetch current user."), nil
	}
	return textResult(p.formatters.FormatUser(user)), nil
}

func (p *Provider) handleListTags(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(intArg(args, "limit", defaultListLimit, maxListLimit)))
	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "tags", Query: q})

	var page n8n.Page[n8n.Tag]
	if err := res.Decode(&page); err != nil {
		logging.Warn("Tools", "list_tags failed: %v", err)
		return errorResult("Failed to list tags."), nil
	}
	return textResult(p.formatters.FormatTagList(page)), nil
}

func (p *Provider) handleCreateTag(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}

	name := stringArg(args, "name")
	if name == "" {
		return errorResult(requiredArgMessage("name")), nil
	}
	res := p.call(ctx, s, n8n.Request{Method: http.MethodPost, Path: "tags", Body: map[string]string{"name": name}})
	if res.StatusCode == http.StatusConflict {
		return errorResult(fmt.Sprintf("Error: Tag %q already exists.", name)), nil
	}

	var tag n8n.Tag
	if err := res.Decode(&tag); err != nil {
		logging.Warn("Tools", "create_tag failed: %v", err)
		return errorResult(fmt.Sprintf("Failed to create tag %q.", name)), nil
	}
	return textResult(fmt.Sprintf("Tag created successfully.\nID: %s\nName: %s", tag.ID, tag.Name)), nil
}

// handleListWebhooks asks the instance for its webhooks and, when the
// instance has no such endpoint, derives them from the webhook nodes of its
// workflows.
func (p *Provider) handleListWebhooks(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	s, errRes := p.authenticate(ctx, args)
	if errRes != nil {
		return errRes, nil
	}
	workflowID := stringArg(args, "workflow_id")

	q := url.Values{}
	if workflowID != "" {
		q.Set("workflowId", workflowID)
	}
	res := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "webhooks", Query: q})
	if res.OK() {
		var page n8n.Page[struct {
			WorkflowID string `json:"workflowId"`
			Method     string `json:"method"`
			Path       string `json:"webhookPath"`
		}]
		if err := res.Decode(&page); err == nil {
			hooks := make([]Webhook, 0, len(page.Data))
			for _, h := range page.Data {
				hooks = append(hooks, Webhook{
					WorkflowID: h.WorkflowID,
					Method:     h.Method,
					URL:        webhookURL(s, h.Path),
					Active:     true,
				})
			}
			return textResult(p.formatters.FormatWebhookList(hooks)), nil
		}
	}
	logging.Debug("Tools", "webhooks endpoint unavailable (%s), deriving from workflows", res.Describe())

	var workflows []n8n.Workflow
	if workflowID != "" {
		wf, errRes := p.fetchWorkflow(ctx, s, workflowID)
		if errRes != nil {
			return errRes, nil
		}
		workflows = []n8n.Workflow{*wf}
	} else {
		wq := url.Values{}
		wq.Set("limit", strconv.Itoa(maxListLimit))
		wres := p.call(ctx, s, n8n.Request{Method: http.MethodGet, Path: "workflows", Query: wq})
		var page n8n.Page[n8n.Workflow]
		if err := wres.Decode(&page); err != nil {
			logging.Warn("Tools", "list_webhooks failed: %v", err)
			return errorResult("Failed to list webhooks."), nil
		}
		workflows = page.Data
	}

	var hooks []Webhook
	for i := range workflows {
		wf := &workflows[i]
		for _, node := range wf.Nodes {
			if node.Type != trigger.WebhookNodeType || node.Disabled {
				continue
			}
			single := n8n.Workflow{ID: wf.ID, Nodes: []n8n.Node{node}}
			tr := trigger.Detect(&single)
			if tr.Path == "" {
				continue
			}
			hooks = append(hooks, Webhook{
				WorkflowID:   wf.ID,
				WorkflowName: wf.Name,
				Method:       tr.HTTPMethod,
				URL:          webhookURL(s, tr.Path),
				Active:       wf.Active,
			})
		}
	}
	return textResult(p.formatters.FormatWebhookList(hooks)), nil
}

func webhookURL(s *session, path string) string {
	return s.hostRoot() + "/webhook/" + n8n.EscapePath(path)
}
