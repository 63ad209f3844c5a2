package trigger

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"n8nmcp/internal/n8n"
)

func decodeWorkflow(t *testing.T, doc string) *n8n.Workflow {
	t.Helper()
	var wf n8n.Workflow
	require.NoError(t, json.Unmarshal([]byte(doc), &wf))
	return &wf
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantType   Type
		wantPath   string
		wantMethod string
		wantIndex  int
	}{
		{
			name:       "webhook defaults to POST",
			doc:        `{"id":"1","nodes":[{"name":"Hook","type":"n8n-nodes-base.webhook","parameters":{"path":"abc"}}]}`,
			wantType:   Webhook,
			wantPath:   "abc",
			wantMethod: "POST",
		},
		{
			name:       "webhook path prefix and method",
			doc:        `{"id":"1","nodes":[{"name":"Hook","type":"n8n-nodes-base.webhook","parameters":{"pathPrefix":"/pre/","httpMethod":"get"}}]}`,
			wantType:   Webhook,
			wantPath:   "pre",
			wantMethod: "GET",
		},
		{
			name:     "webhook nested options path",
			doc:      `{"id":"1","nodes":[{"name":"Hook","type":"n8n-nodes-base.webhook","parameters":{"path":"","options":{"path":"deep"}}}]}`,
			wantType: Webhook,
			wantPath: "deep",
		},
		{
			name:     "webhook without path",
			doc:      `{"id":"1","nodes":[{"name":"Hook","type":"n8n-nodes-base.webhook","parameters":{}}]}`,
			wantType: Webhook,
		},
		{
			name:     "form id from node parameters",
			doc:      `{"id":"wf","webhookId":"w","nodes":[{"name":"Form","type":"n8n-nodes-base.formTrigger","webhookId":"n","parameters":{"formId":"p"}}]}`,
			wantType: Form,
			wantPath: "p",
		},
		{
			name:     "form id from node webhookId",
			doc:      `{"id":"wf","nodes":[{"name":"Form","type":"n8n-nodes-base.formTrigger","webhookId":"n","parameters":{}}]}`,
			wantType: Form,
			wantPath: "n",
		},
		{
			name:     "form id from workflow settings",
			doc:      `{"id":"wf","settings":{"formId":"s"},"staticData":{"formId":"sd"},"nodes":[{"name":"Form","type":"n8n-nodes-base.formTrigger"}]}`,
			wantType: Form,
			wantPath: "s",
		},
		{
			name:     "form id from workflow static data",
			doc:      `{"id":"wf","staticData":{"formId":"sd"},"webhookId":"w","nodes":[{"name":"Form","type":"n8n-nodes-base.formTrigger"}]}`,
			wantType: Form,
			wantPath: "sd",
		},
		{
			name:     "form id from workflow webhookId",
			doc:      `{"id":"wf","webhookId":"w","nodes":[{"name":"Form","type":"n8n-nodes-base.formTrigger"}]}`,
			wantType: Form,
			wantPath: "w",
		},
		{
			name:     "form id falls back to workflow id",
			doc:      `{"id":"wf","nodes":[{"name":"Form","type":"n8n-nodes-base.formTrigger"}]}`,
			wantType: Form,
			wantPath: "wf",
		},
		{
			name:      "first trigger in list order wins",
			doc:       `{"id":"1","nodes":[{"name":"Set","type":"n8n-nodes-base.set"},{"name":"Cron","type":"n8n-nodes-base.scheduleTrigger"},{"name":"Hook","type":"n8n-nodes-base.webhook","parameters":{"path":"x"}}]}`,
			wantType:  Schedule,
			wantIndex: 1,
		},
		{
			name:     "chat",
			doc:      `{"id":"1","nodes":[{"name":"Chat","type":"@n8n/n8n-nodes-langchain.chatTrigger"}]}`,
			wantType: Chat,
		},
		{
			name:     "manual",
			doc:      `{"id":"1","nodes":[{"name":"Start","type":"n8n-nodes-base.manualTrigger"}]}`,
			wantType: Manual,
		},
		{
			name:      "unknown",
			doc:       `{"id":"1","nodes":[{"name":"Gmail","type":"n8n-nodes-base.gmailTrigger"}]}`,
			wantType:  Unknown,
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Detect(decodeWorkflow(t, tt.doc))
			assert.Equal(t, tt.wantType, tr.Type)
			assert.Equal(t, tt.wantPath, tr.Path)
			if tt.wantMethod != "" {
				assert.Equal(t, tt.wantMethod, tr.HTTPMethod)
			}
			assert.Equal(t, tt.wantIndex, tr.NodeIndex)
			if tt.wantType == Unknown {
				assert.Nil(t, tr.Node)
			} else {
				require.NotNil(t, tr.Node)
			}
		})
	}
}

func TestDetect_WithoutRawDocument(t *testing.T) {
	wf := &n8n.Workflow{
		ID: "1",
		Nodes: []n8n.Node{
			{Name: "Hook", Type: WebhookNodeType, Parameters: map[string]interface{}{"path": "abc"}},
		},
	}
	tr := Detect(wf)
	assert.Equal(t, Webhook, tr.Type)
	assert.Equal(t, "abc", tr.Path)
	assert.Equal(t, "POST", tr.HTTPMethod)

	assert.Equal(t, Unknown, Detect(nil).Type)
}

func TestIsTriggerNode(t *testing.T) {
	assert.True(t, IsTriggerNode(ManualNodeType))
	assert.True(t, IsTriggerNode("n8n-nodes-base.gmailTrigger"))
	assert.False(t, IsTriggerNode("n8n-nodes-base.set"))
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func formNode(t *testing.T, params string) *n8n.Node {
	t.Helper()
	var node n8n.Node
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Form","type":"n8n-nodes-base.formTrigger","parameters":`+params+`}`), &node))
	return &node
}

func TestSynthesize_TextEmailNumber(t *testing.T) {
	s := &Synthesizer{Now: fixedClock}
	node := formNode(t, `{"formFields":{"values":[
		{"fieldLabel":"Your name"},
		{"fieldLabel":"Contact","fieldType":"email"},
		{"fieldLabel":"Seats","fieldType":"number"}
	]}}`)

	out := s.Synthesize(node)
	require.Len(t, out, 3)
	for _, key := range []string{"field-0", "field-1", "field-2"} {
		require.Contains(t, out, key)
		assert.NotNil(t, out[key])
	}
	assert.Equal(t, "Test User", out["field-0"])
	assert.Contains(t, out["field-1"], "@")
	assert.Equal(t, float64(1), out["field-2"])
}

func TestSynthesize_Types(t *testing.T) {
	s := &Synthesizer{Now: fixedClock}
	node := formNode(t, `{"formFields":{"values":[
		{"fieldLabel":"Company name"},
		{"fieldLabel":"Notes","fieldType":"textarea"},
		{"fieldLabel":"Age","fieldType":"number","minValue":18},
		{"fieldLabel":"Agree","fieldType":"checkbox"},
		{"fieldLabel":"When","fieldType":"date"},
		{"fieldLabel":"Plan","fieldType":"dropdown","fieldOptions":{"values":[{"option":"Pro"},{"option":"Free"}]}},
		{"fieldLabel":"Tags","fieldType":"dropdown","multiselect":true,"fieldOptions":{"values":[{"option":"a"}]}},
		{"fieldLabel":"Secret","fieldType":"password"},
		{"fieldLabel":"Misc","fieldType":"html","placeholder":"hint"},
		{"fieldLabel":"Preset","defaultValue":"given"}
	]}}`)

	out := s.Synthesize(node)
	assert.Equal(t, "Example Corp", out["field-0"])
	assert.Contains(t, out["field-1"], "\n")
	assert.Equal(t, float64(18), out["field-2"])
	assert.Equal(t, true, out["field-3"])
	assert.Equal(t, "2026-03-14", out["field-4"])
	assert.Equal(t, "Pro", out["field-5"])
	assert.Equal(t, []interface{}{"a"}, out["field-6"])
	assert.Equal(t, sampleText, out["field-7"])
	assert.Equal(t, "hint", out["field-8"])
	assert.Equal(t, "given", out["field-9"])
}

func TestSynthesize_Sources(t *testing.T) {
	s := &Synthesizer{Now: fixedClock}

	t.Run("flat fields", func(t *testing.T) {
		out := s.Synthesize(formNode(t, `{"fields":[{"label":"Subject"},{"label":"Message"}]}`))
		assert.Equal(t, "Test submission", out["field-0"])
		assert.Equal(t, sampleMessage, out["field-1"])
	})

	t.Run("options form fields", func(t *testing.T) {
		out := s.Synthesize(formNode(t, `{"options":{"formFields":{"values":[{"fieldLabel":"Email address"}]}}}`))
		assert.Equal(t, sampleEmail, out["field-0"])
	})

	t.Run("schema fields", func(t *testing.T) {
		out := s.Synthesize(formNode(t, `{"schema":{"fields":[{"name":"count","type":"integer"}]}}`))
		assert.Equal(t, float64(1), out["field-0"])
	})

	t.Run("json schema as string", func(t *testing.T) {
		out := s.Synthesize(formNode(t, `{"jsonSchema":"{\"properties\":{\"email\":{\"type\":\"string\",\"format\":\"email\"},\"size\":{\"type\":\"string\",\"enum\":[\"S\",\"M\"]}}}"}`))
		require.Len(t, out, 2)
		assert.Equal(t, sampleEmail, out["field-0"])
		assert.Equal(t, "S", out["field-1"])
	})

	t.Run("empty first source falls through", func(t *testing.T) {
		out := s.Synthesize(formNode(t, `{"formFields":{"values":[]},"fields":[{"label":"Name"}]}`))
		assert.Equal(t, map[string]interface{}{"field-0": "Test User"}, out)
	})

	t.Run("no fields", func(t *testing.T) {
		out := s.Synthesize(formNode(t, `{}`))
		assert.Equal(t, map[string]interface{}{
			"message":   sampleMessage,
			"timestamp": "2026-03-14T09:26:53Z",
		}, out)
	})
}

func TestMergeFormData(t *testing.T) {
	defaults := map[string]interface{}{"field-0": "default-0", "field-1": "default-1"}

	merged := MergeFormData(defaults, map[string]interface{}{"field-0": "", "field-1": "x"})
	assert.Equal(t, "default-0", merged["field-0"])
	assert.Equal(t, "x", merged["field-1"])

	merged = MergeFormData(defaults, map[string]interface{}{
		"field-0": nil,
		"field-1": []interface{}{},
		"extra":   false,
	})
	assert.Equal(t, "default-0", merged["field-0"])
	assert.Equal(t, "default-1", merged["field-1"])
	assert.Equal(t, false, merged["extra"])

	// defaults untouched
	assert.Equal(t, "default-1", defaults["field-1"])
}

func TestFieldKey(t *testing.T) {
	assert.Equal(t, "field-12", FieldKey(12))
	assert.True(t, strings.HasPrefix(FieldKey(0), FieldKeyPrefix))
}
