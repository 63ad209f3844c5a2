package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"n8nmcp/internal/api"
	"n8nmcp/pkg/logging"
)

// createTools turns the provider's tool metadata into MCP tools, each
// dispatching back to provider.ExecuteTool under its unprefixed name.
func createTools(provider api.ToolProvider, prefix string) []mcpserver.ServerTool {
	metas := provider.GetTools()
	tools := make([]mcpserver.ServerTool, 0, len(metas))
	for _, meta := range metas {
		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        prefixToolName(prefix, meta.Name),
				Description: meta.Description,
				InputSchema: convertToMCPSchema(meta.Args),
			},
			Handler: createToolHandler(provider, meta.Name),
		})
	}
	return tools
}

// prefixToolName returns "<prefix>_<name>", or name when prefix is empty.
func prefixToolName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

func createToolHandler(provider api.ToolProvider, toolName string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		result, err := provider.ExecuteTool(ctx, toolName, args)
		if err != nil {
			logging.Error("ToolHandler", err, "Tool execution failed for %s", toolName)
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}
		return convertToMCPResult(result), nil
	}
}

// convertToMCPSchema builds the input schema. An arg's Schema, when set,
// takes precedence over its Type.
func convertToMCPSchema(params []api.ArgMetadata) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}

	for _, param := range params {
		var propSchema map[string]interface{}
		if len(param.Schema) > 0 {
			propSchema = make(map[string]interface{}, len(param.Schema)+1)
			for key, value := range param.Schema {
				propSchema[key] = value
			}
			if param.Description != "" {
				propSchema["description"] = param.Description
			}
		} else {
			propSchema = map[string]interface{}{
				"type":        param.Type,
				"description": param.Description,
			}
		}

		if param.Default != nil {
			propSchema["default"] = param.Default
		}
		properties[param.Name] = propSchema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func convertToMCPResult(result *api.CallToolResult) *mcp.CallToolResult {
	if result == nil {
		return mcp.NewToolResultError("Tool returned no result")
	}

	content := make([]mcp.Content, len(result.Content))
	for i, c := range result.Content {
		if text, ok := c.(string); ok {
			content[i] = mcp.NewTextContent(text)
			continue
		}
		jsonBytes, _ := json.Marshal(c)
		content[i] = mcp.NewTextContent(string(jsonBytes))
	}

	return &mcp.CallToolResult{
		Content: content,
		IsError: result.IsError,
	}
}
