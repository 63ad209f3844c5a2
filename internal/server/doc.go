// Package server exposes an api.ToolProvider as an MCP server.
//
// Every tool the provider describes is registered under "<prefix>_<name>"
// with an input schema built from its argument metadata. Calls are
// dispatched back to the provider under the unprefixed name and its
// CallToolResult is converted to the MCP result type, keeping IsError.
//
// Two transports are supported: stdio for assistants that spawn the
// process, and streamable HTTP for a long-running deployment.
package server
