// Package api defines the small contract between tool implementations and the
// MCP server that exposes them.
//
// A ToolProvider advertises ToolMetadata (name, description, arguments) and
// executes calls by name. The server package converts the metadata into MCP
// input schemas and wraps ExecuteTool into MCP handlers, so tool packages never
// import mcp-go directly.
package api
