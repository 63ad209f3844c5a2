package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"n8nmcp/internal/api"
	"n8nmcp/internal/credentials"
	"n8nmcp/internal/n8n"
	"n8nmcp/internal/trigger"
	"n8nmcp/pkg/logging"
)

// CredentialResolver maps a user id to that user's n8n credentials.
type CredentialResolver interface {
	Resolve(ctx context.Context, userID string) (*credentials.Credentials, bool)
}

// Provider implements api.ToolProvider for the n8n tools.
//
// It holds no per-call state: the client, catalog and resolver are read-only
// after construction, so one Provider serves concurrent tool calls.
type Provider struct {
	client      *n8n.Client
	catalog     *n8n.Catalog
	resolver    CredentialResolver
	synthesizer *trigger.Synthesizer
	formatters  *Formatters
	newID       func() string
}

// Option configures a Provider.
type Option func(*Provider)

// WithSynthesizer replaces the form-field synthesizer.
func WithSynthesizer(s *trigger.Synthesizer) Option {
	return func(p *Provider) {
		p.synthesizer = s
	}
}

// WithIDGenerator replaces the chat session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Provider) {
		p.newID = newID
	}
}

// NewProvider creates the tool provider.
func NewProvider(client *n8n.Client, catalog *n8n.Catalog, resolver CredentialResolver, opts ...Option) *Provider {
	p := &Provider{
		client:      client,
		catalog:     catalog,
		resolver:    resolver,
		synthesizer: trigger.NewSynthesizer(),
		formatters:  NewFormatters(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExecuteTool dispatches a tool call by name. Failures are returned as error
// results; the Go error is reserved for unknown tool names.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (result *api.CallToolResult, err error) {
	logging.Debug("Tools", "Executing tool %s", toolName)

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Tools", fmt.Errorf("panic: %v", r), "Tool %s panicked", toolName)
			result, err = errorResult(fmt.Sprintf("Failed to run %s: internal error", toolName)), nil
		}
	}()

	if args == nil {
		args = map[string]interface{}{}
	}

	switch toolName {
	case "list_workflows":
		return p.handleListWorkflows(ctx, args)
	case "get_workflow":
		return p.handleGetWorkflow(ctx, args)
	case "create_workflow":
		return p.handleCreateWorkflow(ctx, args)
	case "update_workflow":
		return p.handleUpdateWorkflow(ctx, args)
	case "delete_workflow":
		return p.handleDeleteWorkflow(ctx, args)
	case "activate_workflow":
		return p.handleSetActive(ctx, args, true)
	case "deactivate_workflow":
		return p.handleSetActive(ctx, args, false)
	case "list_executions":
		return p.handleListExecutions(ctx, args)
	case "get_execution":
		return p.handleGetExecution(ctx, args)
	case "execute_workflow":
		return p.handleExecuteWorkflow(ctx, args)
	case "list_credentials":
		return p.handleListCredentials(ctx, args)
	case "get_credential":
		return p.handleGetCredential(ctx, args)
	case "get_current_user":
		return p.handleGetCurrentUser(ctx, args)
	case "list_webhooks":
		return p.handleListWebhooks(ctx, args)
	case "list_tags":
		return p.handleListTags(ctx, args)
	case "create_tag":
		return p.handleCreateTag(ctx, args)
	case "search_nodes":
		return p.handleSearchNodes(ctx, args)
	case "get_node":
		return p.handleGetNode(ctx, args)
	case "search_templates":
		return p.handleSearchTemplates(ctx, args)
	case "get_template":
		return p.handleGetTemplate(ctx, args)
	case "validate_node":
		return p.handleValidateNode(ctx, args)
	case "validate_workflow":
		return p.handleValidateWorkflow(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func textResult(text string) *api.CallToolResult {
	return &api.CallToolResult{
		Content: []interface{}{text},
		IsError: false,
	}
}

func errorResult(message string) *api.CallToolResult {
	return &api.CallToolResult{
		Content: []interface{}{message},
		IsError: true,
	}
}
