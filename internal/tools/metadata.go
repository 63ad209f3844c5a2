package tools

import (
	"n8nmcp/internal/api"
)

var userIDArg = api.ArgMetadata{
	Name:        "user_id",
	Type:        "string",
	Required:    false,
	Description: "Id of the user whose n8n integration is used",
}

func withUser(args ...api.ArgMetadata) []api.ArgMetadata {
	return append([]api.ArgMetadata{userIDArg}, args...)
}

func optional(a api.ArgMetadata) api.ArgMetadata {
	a.Required = false
	return a
}

func limitArg(def int, what string) api.ArgMetadata {
	return api.ArgMetadata{
		Name:        "limit",
		Type:        "number",
		Description: "Maximum number of " + what + " to return",
		Default:     def,
	}
}

var nodesArg = api.ArgMetadata{
	Name:        "nodes",
	Type:        "array",
	Required:    true,
	Description: "Workflow nodes; each needs name, type and a two-number position",
	Schema: map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":        map[string]interface{}{"type": "string"},
				"type":        map[string]interface{}{"type": "string"},
				"typeVersion": map[string]interface{}{"type": "number"},
				"position": map[string]interface{}{
					"type":     "array",
					"items":    map[string]interface{}{"type": "number"},
					"minItems": 2,
					"maxItems": 2,
				},
				"parameters": map[string]interface{}{"type": "object"},
			},
			"required": []string{"name", "type", "position"},
		},
	},
}

var connectionsArg = api.ArgMetadata{
	Name:        "connections",
	Type:        "object",
	Description: "Connections keyed by source node name, in n8n's format",
}

var settingsArg = api.ArgMetadata{
	Name:        "settings",
	Type:        "object",
	Description: "Workflow settings",
}

func workflowIDArg(required bool) api.ArgMetadata {
	return api.ArgMetadata{
		Name:        "workflow_id",
		Type:        "string",
		Required:    required,
		Description: "Workflow id",
	}
}

// GetTools returns metadata for every tool. Names are unprefixed; the MCP
// server adds the configured prefix.
func (p *Provider) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		// Workflows
		{
			Name:        "list_workflows",
			Description: "List workflows, optionally filtered by active state, tags or name",
			Args: withUser(
				api.ArgMetadata{Name: "active", Type: "boolean", Description: "Only active (true) or inactive (false) workflows"},
				api.ArgMetadata{Name: "tags", Type: "string", Description: "Comma-separated tag names"},
				api.ArgMetadata{Name: "name", Type: "string", Description: "Filter by workflow name"},
				limitArg(defaultListLimit, "workflows"),
				api.ArgMetadata{Name: "cursor", Type: "string", Description: "Pagination cursor from a previous call"},
			),
		},
		{
			Name:        "get_workflow",
			Description: "Show a workflow's details, trigger and nodes",
			Args:        withUser(workflowIDArg(true)),
		},
		{
			Name:        "create_workflow",
			Description: "Create a workflow from nodes and connections",
			Args: withUser(
				api.ArgMetadata{Name: "name", Type: "string", Required: true, Description: "Workflow name"},
				nodesArg,
				connectionsArg,
				settingsArg,
			),
		},
		{
			Name:        "update_workflow",
			Description: "Update a workflow's name, nodes, connections or settings",
			Args: withUser(
				workflowIDArg(true),
				api.ArgMetadata{Name: "name", Type: "string", Description: "New workflow name"},
				optional(nodesArg),
				connectionsArg,
				settingsArg,
			),
		},
		{
			Name:        "delete_workflow",
			Description: "Delete a workflow",
			Args:        withUser(workflowIDArg(true)),
		},
		{
			Name:        "activate_workflow",
			Description: "Activate a workflow so its triggers fire",
			Args:        withUser(workflowIDArg(true)),
		},
		{
			Name:        "deactivate_workflow",
			Description: "Deactivate a workflow",
			Args:        withUser(workflowIDArg(true)),
		},

		// Executions
		{
			Name:        "list_executions",
			Description: "List workflow executions",
			Args: withUser(
				workflowIDArg(false),
				api.ArgMetadata{Name: "status", Type: "string", Description: "One of success, error, waiting, running, canceled"},
				limitArg(defaultListLimit, "executions"),
				api.ArgMetadata{Name: "include_data", Type: "boolean", Description: "Include execution data", Default: false},
			),
		},
		{
			Name:        "get_execution",
			Description: "Show one execution, including the nodes that ran and any error",
			Args: withUser(
				api.ArgMetadata{Name: "execution_id", Type: "string", Required: true, Description: "Execution id"},
				api.ArgMetadata{Name: "include_data", Type: "boolean", Description: "Include execution data", Default: true},
			),
		},
		{
			Name:        "execute_workflow",
			Description: "Run an active workflow through its trigger (webhook, form, schedule, chat or manual)",
			Args: withUser(
				workflowIDArg(true),
				api.ArgMetadata{
					Name:        "input",
					Type:        "object",
					Description: "Input data; for chat triggers a message string or {message}",
					Schema:      map[string]interface{}{"type": []string{"object", "array", "string"}},
				},
				api.ArgMetadata{Name: "form_data", Type: "object", Description: "Form values keyed field-0, field-1, ... for form triggers"},
			),
		},

		// Account
		{
			Name:        "list_credentials",
			Description: "List credentials stored in n8n (metadata only)",
			Args:        withUser(limitArg(defaultListLimit, "credentials")),
		},
		{
			Name:        "get_credential",
			Description: "Show a credential's metadata",
			Args: withUser(
				api.ArgMetadata{Name: "credential_id", Type: "string", Required: true, Description: "Credential id"},
			),
		},
		{
			Name:        "get_current_user",
			Description: "Show the n8n user the API key belongs to",
			Args:        withUser(),
		},
		{
			Name:        "list_webhooks",
			Description: "List webhook URLs of workflows",
			Args:        withUser(workflowIDArg(false)),
		},
		{
			Name:        "list_tags",
			Description: "List workflow tags",
			Args:        withUser(limitArg(defaultListLimit, "tags")),
		},
		{
			Name:        "create_tag",
			Description: "Create a workflow tag",
			Args: withUser(
				api.ArgMetadata{Name: "name", Type: "string", Required: true, Description: "Tag name"},
			),
		},

		// Public catalog
		{
			Name:        "search_nodes",
			Description: "Search available node types by name",
			Args: []api.ArgMetadata{
				{Name: "query", Type: "string", Required: true, Description: "Search text, e.g. \"slack\""},
				limitArg(defaultSearchLimit, "nodes"),
			},
		},
		{
			Name:        "get_node",
			Description: "Show a node type's description and parameters",
			Args: []api.ArgMetadata{
				{Name: "node_type", Type: "string", Required: true, Description: "Node type, e.g. n8n-nodes-base.httpRequest"},
			},
		},
		{
			Name:        "search_templates",
			Description: "Search the public workflow template library",
			Args: []api.ArgMetadata{
				{Name: "query", Type: "string", Required: true, Description: "Search text"},
				{Name: "category", Type: "string", Description: "Template category"},
				limitArg(defaultSearchLimit, "templates"),
			},
		},
		{
			Name:        "get_template",
			Description: "Show a template and its workflow definition",
			Args: []api.ArgMetadata{
				{Name: "template_id", Type: "string", Required: true, Description: "Template id"},
			},
		},

		// Local validation
		{
			Name:        "validate_node",
			Description: "Check a node's parameters against required-field rules",
			Args: []api.ArgMetadata{
				{Name: "node_type", Type: "string", Required: true, Description: "Node type"},
				{Name: "parameters", Type: "object", Description: "Node parameters"},
			},
		},
		{
			Name:        "validate_workflow",
			Description: "Check a workflow's nodes and connections for structural problems",
			Args: []api.ArgMetadata{
				{Name: "nodes", Type: "array", Required: true, Description: "Workflow nodes to check"},
				connectionsArg,
			},
		},
	}
}
