package trigger

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"n8nmcp/internal/n8n"
)

// Type classifies how a workflow is started.
type Type string

const (
	Webhook  Type = "webhook"
	Form     Type = "form"
	Schedule Type = "schedule"
	Chat     Type = "chat"
	Manual   Type = "manual"
	Unknown  Type = "unknown"
)

// Node type identifiers of the supported triggers.
const (
	WebhookNodeType  = "n8n-nodes-base.webhook"
	FormNodeType     = "n8n-nodes-base.formTrigger"
	ScheduleNodeType = "n8n-nodes-base.scheduleTrigger"
	ChatNodeType     = "@n8n/n8n-nodes-langchain.chatTrigger"
	ManualNodeType   = "n8n-nodes-base.manualTrigger"
)

var nodeTypes = map[string]Type{
	WebhookNodeType:  Webhook,
	FormNodeType:     Form,
	ScheduleNodeType: Schedule,
	ChatNodeType:     Chat,
	ManualNodeType:   Manual,
}

// SupportedTypes is the user-facing list used in rejection messages.
var SupportedTypes = []Type{Webhook, Form, Schedule, Chat, Manual}

// Trigger is derived from a workflow on every call and never stored.
type Trigger struct {
	Type Type
	// Node is the trigger node, nil for Unknown.
	Node *n8n.Node
	// NodeIndex is the position of Node in the workflow's node list, -1 for Unknown.
	NodeIndex int
	// Path is the webhook path for Webhook and the form id for Form.
	Path       string
	HTTPMethod string
}

type scope int

const (
	nodeScope scope = iota
	workflowScope
)

// accessor names one place a value may live. Lists of accessors are
// evaluated in order; the first non-empty value wins.
type accessor struct {
	scope scope
	path  string
}

var webhookPathAccessors = []accessor{
	{nodeScope, "parameters.path"},
	{nodeScope, "parameters.pathPrefix"},
	{nodeScope, "parameters.options.path"},
}

var webhookMethodAccessors = []accessor{
	{nodeScope, "parameters.httpMethod"},
}

// formIDAccessors reflects how different n8n versions place the form id.
var formIDAccessors = []accessor{
	{nodeScope, "parameters.formId"},
	{nodeScope, "webhookId"},
	{workflowScope, "settings.formId"},
	{workflowScope, "staticData.formId"},
	{workflowScope, "webhookId"},
	{workflowScope, "id"},
}

// NodeTypeOf maps a node type identifier to its trigger Type, or Unknown.
func NodeTypeOf(nodeType string) Type {
	if t, ok := nodeTypes[nodeType]; ok {
		return t
	}
	return Unknown
}

// IsTriggerNode reports whether a node type starts a workflow. Beyond the
// supported triggers this accepts any "*Trigger" node and plain webhooks.
func IsTriggerNode(nodeType string) bool {
	if NodeTypeOf(nodeType) != Unknown {
		return true
	}
	lower := strings.ToLower(nodeType)
	return strings.HasSuffix(lower, "trigger") || strings.HasSuffix(lower, ".webhook")
}

// Detect scans the node list in order and classifies the workflow by the
// first node of a supported trigger type.
func Detect(wf *n8n.Workflow) Trigger {
	unknown := Trigger{Type: Unknown, NodeIndex: -1}
	if wf == nil {
		return unknown
	}

	doc := document(wf)
	nodes := gjson.GetBytes(doc, "nodes").Array()

	for i, raw := range nodes {
		t := NodeTypeOf(raw.Get("type").String())
		if t == Unknown {
			continue
		}

		tr := Trigger{Type: t, NodeIndex: i}
		if i < len(wf.Nodes) {
			tr.Node = &wf.Nodes[i]
		}

		switch t {
		case Webhook:
			tr.Path = strings.Trim(firstValue(webhookPathAccessors, raw, doc), "/")
			tr.HTTPMethod = strings.ToUpper(firstValue(webhookMethodAccessors, raw, doc))
			if tr.HTTPMethod == "" {
				tr.HTTPMethod = http.MethodPost
			}
		case Form:
			tr.Path = firstValue(formIDAccessors, raw, doc)
			tr.HTTPMethod = http.MethodPost
		}
		return tr
	}

	return unknown
}

func firstValue(accessors []accessor, node gjson.Result, doc []byte) string {
	for _, a := range accessors {
		var r gjson.Result
		switch a.scope {
		case nodeScope:
			r = node.Get(a.path)
		case workflowScope:
			r = gjson.GetBytes(doc, a.path)
		}
		if !r.Exists() || r.Type == gjson.Null {
			continue
		}
		if v := strings.TrimSpace(r.String()); v != "" {
			return v
		}
	}
	return ""
}

// document returns the workflow as JSON, preferring the document it was
// decoded from so fields outside the struct remain visible.
func document(wf *n8n.Workflow) []byte {
	if len(wf.Raw) > 0 && gjson.ValidBytes(wf.Raw) {
		return wf.Raw
	}
	data, err := json.Marshal(wf)
	if err != nil {
		return nil
	}
	return data
}
