package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"n8nmcp/internal/api"
	"n8nmcp/internal/config"
)

type fakeProvider struct {
	calls []string
	args  map[string]interface{}
}

func (f *fakeProvider) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		{
			Name:        "get_workflow",
			Description: "Get a workflow",
			Args: []api.ArgMetadata{
				{Name: "user_id", Type: "string", Required: true, Description: "User id"},
				{Name: "workflow_id", Type: "string", Required: true, Description: "Workflow id"},
			},
		},
		{
			Name:        "execute_workflow",
			Description: "Execute a workflow",
			Args: []api.ArgMetadata{
				{Name: "input", Description: "Input data", Schema: map[string]interface{}{"type": []string{"object", "array", "string"}, "description": "overridden"}},
				{Name: "include_data", Type: "boolean", Default: true},
			},
		},
	}
}

func (f *fakeProvider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	f.calls = append(f.calls, toolName)
	f.args = args
	switch toolName {
	case "get_workflow":
		return &api.CallToolResult{Content: []interface{}{"Workflow: Flow"}}, nil
	case "execute_workflow":
		return &api.CallToolResult{Content: []interface{}{"Error: nope"}, IsError: true}, nil
	default:
		return nil, errors.New("unknown tool: " + toolName)
	}
}

func TestPrefixToolName(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"n8n", "list_workflows", "n8n_list_workflows"},
		{"acme", "get_node", "acme_get_node"},
		{"", "get_node", "get_node"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prefixToolName(tt.prefix, tt.name))
	}
}

func TestConvertToMCPSchema(t *testing.T) {
	schema := convertToMCPSchema((&fakeProvider{}).GetTools()[1].Args)
	assert.Equal(t, "object", schema.Type)
	assert.Empty(t, schema.Required)

	input := schema.Properties["input"].(map[string]interface{})
	assert.Equal(t, []string{"object", "array", "string"}, input["type"])
	assert.Equal(t, "Input data", input["description"])

	include := schema.Properties["include_data"].(map[string]interface{})
	assert.Equal(t, "boolean", include["type"])
	assert.Equal(t, true, include["default"])

	schema = convertToMCPSchema((&fakeProvider{}).GetTools()[0].Args)
	assert.Equal(t, []string{"user_id", "workflow_id"}, schema.Required)
}

func TestConvertToMCPResult(t *testing.T) {
	res := convertToMCPResult(&api.CallToolResult{Content: []interface{}{"hello", map[string]int{"n": 1}}, IsError: true})
	require.Len(t, res.Content, 2)
	assert.True(t, res.IsError)
	assert.Equal(t, "hello", res.Content[0].(mcp.TextContent).Text)
	assert.JSONEq(t, `{"n":1}`, res.Content[1].(mcp.TextContent).Text)

	assert.True(t, convertToMCPResult(nil).IsError)
}

func TestToolHandler(t *testing.T) {
	provider := &fakeProvider{}
	tools := createTools(provider, "n8n")
	require.Len(t, tools, 2)
	assert.Equal(t, "n8n_get_workflow", tools[0].Tool.Name)

	req := mcp.CallToolRequest{}
	req.Params.Name = "n8n_get_workflow"
	req.Params.Arguments = map[string]interface{}{"user_id": "u1", "workflow_id": "1"}

	res, err := tools[0].Handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Workflow: Flow", res.Content[0].(mcp.TextContent).Text)
	assert.Equal(t, []string{"get_workflow"}, provider.calls)
	assert.Equal(t, "u1", provider.args["user_id"])

	req.Params.Arguments = nil
	res, err = tools[1].Handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.NotNil(t, provider.args)

	unknown := createToolHandler(provider, "missing")
	res, err = unknown(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "unknown tool: missing")
}

func TestServer_ListTools(t *testing.T) {
	s := New(&fakeProvider{}, Options{ToolPrefix: "n8n"})

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	names := gjson.GetBytes(out, "result.tools.#.name").Array()
	require.Len(t, names, 2)
	got := []string{names[0].String(), names[1].String()}
	assert.ElementsMatch(t, []string{"n8n_get_workflow", "n8n_execute_workflow"}, got)
}

func TestServer_CallTool(t *testing.T) {
	provider := &fakeProvider{}
	s := New(provider, Options{ToolPrefix: "n8n"})

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"n8n_execute_workflow","arguments":{"user_id":"u1"}}}`)
	out, err := json.Marshal(s.MCPServer().HandleMessage(context.Background(), msg))
	require.NoError(t, err)

	assert.True(t, gjson.GetBytes(out, "result.isError").Bool())
	assert.Equal(t, "Error: nope", gjson.GetBytes(out, "result.content.0.text").String())
	assert.Equal(t, []string{"execute_workflow"}, provider.calls)
}

func TestServer_Serve(t *testing.T) {
	t.Run("unsupported transport", func(t *testing.T) {
		s := New(&fakeProvider{}, Options{Transport: "carrier-pigeon"})
		assert.Error(t, s.Serve(context.Background()))
	})

	t.Run("streamable http stops on cancel", func(t *testing.T) {
		s := New(&fakeProvider{}, Options{Transport: config.TransportStreamableHTTP, Host: "127.0.0.1", Port: 0})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Serve(ctx) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.GetDefaultConfig()
	opts := OptionsFromConfig(cfg, "1.2.3")
	assert.Equal(t, config.DefaultServerName, opts.Name)
	assert.Equal(t, "1.2.3", opts.Version)
	assert.Equal(t, config.DefaultToolPrefix, opts.ToolPrefix)
	assert.Equal(t, config.TransportStdio, opts.Transport)
	assert.Equal(t, config.DefaultServerPort, opts.Port)
}
