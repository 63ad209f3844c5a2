// Package tools implements the n8n tools exposed over MCP.
//
// Every tool follows the same shape: check arguments, resolve the caller's
// credentials, make one call through n8n.Client and render the answer as a
// single text block. Failures never surface as Go errors; they become error
// results whose text starts with "Error:" or "Failed to".
//
// Tools fall into four groups:
//
//   - Workflow, execution, credential, tag and webhook tools call the user's
//     n8n instance and require a user id with a stored API key.
//   - execute_workflow detects the workflow's trigger and starts it through
//     the matching endpoint (see execute.go).
//   - Catalog tools (search_nodes, get_node, search_templates, get_template)
//     read the public catalog without credentials.
//   - Validation tools apply local rules and make no network calls.
package tools
