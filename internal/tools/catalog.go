package tools

import (
	"context"
	"errors"
	"fmt"

	"n8nmcp/internal/api"
	"n8nmcp/internal/n8n"
	"n8nmcp/pkg/logging"
)

// Catalog tools read the public catalog and need no credentials.

func (p *Provider) handleSearchNodes(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	query := stringArg(args, "query")
	if query == "" {
		return errorResult(requiredArgMessage("query")), nil
	}
	limit := intArg(args, "limit", defaultSearchLimit, maxSearchLimit)

	nodes, err := p.catalog.SearchNodes(ctx, query, limit)
	if err != nil {
		logging.Warn("Tools", "search_nodes failed: %v", err)
		return errorResult("Failed to search nodes."), nil
	}
	return textResult(p.formatters.FormatNodeList(query, nodes)), nil
}

func (p *Provider) handleGetNode(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	nodeType := stringArg(args, "node_type")
	if nodeType == "" {
		return errorResult(requiredArgMessage("node_type")), nil
	}

	node, err := p.catalog.GetNode(ctx, nodeType)
	if errors.Is(err, n8n.ErrNodeTypeNotFound) {
		return errorResult(fmt.Sprintf("Error: Node type %q not found.", nodeType)), nil
	}
	if err != nil {
		logging.Warn("Tools", "get_node %s failed: %v", nodeType, err)
		return errorResult(fmt.Sprintf("Failed to fetch node type %s.", nodeType)), nil
	}
	return textResult(p.formatters.FormatNodeType(node)), nil
}

func (p *Provider) handleSearchTemplates(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	query := stringArg(args, "query")
	if query == "" {
		return errorResult(requiredArgMessage("query")), nil
	}
	limit := intArg(args, "limit", defaultSearchLimit, maxSearchLimit)

	templates, total, err := p.catalog.SearchTemplates(ctx, query, stringArg(args, "category"), limit)
	if err != nil {
		logging.Warn("Tools", "search_templates failed: %v", err)
		return errorResult("Failed to search templates."), nil
	}
	return textResult(p.formatters.FormatTemplateList(query, templates, total)), nil
}

func (p *Provider) handleGetTemplate(ctx context.Context, args map[string]interface{}) (*api.CallToolResult, error) {
	id := stringArg(args, "template_id")
	if id == "" {
		return errorResult(requiredArgMessage("template_id")), nil
	}

	tpl, err := p.catalog.GetTemplate(ctx, id)
	if err != nil {
		logging.Warn("Tools", "get_template %s failed: %v", id, err)
		return errorResult(fmt.Sprintf("Failed to fetch template %s.", id)), nil
	}
	return textResult(p.formatters.FormatTemplate(tpl)), nil
}
