package api

import (
	"context"
	"strings"
)

// CallToolResult represents the result of a tool call.
//
// Content holds text blocks; IsError marks results whose text is an error
// message ("Error: ..." / "Failed to ..."). Tool failures are never reported
// as Go errors to the MCP client.
type CallToolResult struct {
	Content []interface{} `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Text returns the concatenated string content of the result.
func (r *CallToolResult) Text() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		if s, ok := c.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolMetadata describes a tool that can be exposed
type ToolMetadata struct {
	Name        string // e.g., "list_workflows", "execute_workflow"
	Description string
	Args        []ArgMetadata
}

// ArgMetadata describes a tool argument
type ArgMetadata struct {
	Name        string
	Type        string // "string", "number", "boolean", "object", "array"
	Required    bool
	Description string
	Default     interface{}

	// Schema optionally carries a full JSON schema fragment for the argument.
	// When set it takes precedence over Type.
	Schema map[string]interface{}
}

// ToolProvider is implemented by packages that expose tools to the MCP server.
type ToolProvider interface {
	// Returns all tools this provider offers
	GetTools() []ToolMetadata

	// Executes a tool by name
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error)
}
