package n8n

import (
	"encoding/json"
)

// Workflow is the subset of an n8n workflow the adapter reads. Raw keeps the
// complete document so trigger detection can look at fields not modelled here.
type Workflow struct {
	ID              string                            `json:"id"`
	Name            string                            `json:"name"`
	Active          bool                              `json:"active"`
	ActiveVersionID string                            `json:"activeVersionId,omitempty"`
	VersionID       string                            `json:"versionId,omitempty"`
	WebhookID       string                            `json:"webhookId,omitempty"`
	Nodes           []Node                            `json:"nodes"`
	Connections     map[string]map[string][][]NodeRef `json:"connections,omitempty"`
	Settings        map[string]interface{}            `json:"settings,omitempty"`
	StaticData      interface{}                       `json:"staticData,omitempty"`
	Tags            []Tag                             `json:"tags,omitempty"`
	CreatedAt       string                            `json:"createdAt,omitempty"`
	UpdatedAt       string                            `json:"updatedAt,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Node is one workflow node.
type Node struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	TypeVersion float64                `json:"typeVersion,omitempty"`
	Position    []float64              `json:"position,omitempty"`
	WebhookID   string                 `json:"webhookId,omitempty"`
	Disabled    bool                   `json:"disabled,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Credentials map[string]interface{} `json:"credentials,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// NodeRef is one connection endpoint.
type NodeRef struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// UnmarshalJSON keeps the original document alongside the decoded fields.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	type plain Workflow
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = Workflow(p)
	w.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// UnmarshalJSON keeps the original node document.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Node(p)
	n.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Execution is one workflow run.
type Execution struct {
	ID         string      `json:"id"`
	WorkflowID string      `json:"workflowId"`
	Status     string      `json:"status,omitempty"`
	Mode       string      `json:"mode,omitempty"`
	Finished   bool        `json:"finished"`
	StartedAt  string      `json:"startedAt,omitempty"`
	StoppedAt  string      `json:"stoppedAt,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Tag is a workflow tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts a tag object or a bare tag name.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Tag{Name: name}
		return nil
	}
	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tag(p)
	return nil
}

// Credential is credential metadata. n8n never returns secret values here.
type Credential struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// User is an n8n account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
	IsPending bool   `json:"isPending,omitempty"`
}

// Page is the envelope n8n uses for list endpoints.
type Page[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// NodeType is a node definition from the public catalog.
type NodeType struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description,omitempty"`
	Group       []string `json:"group,omitempty"`
	Version     any      `json:"version,omitempty"`
	Codex       any      `json:"codex,omitempty"`
	Properties  any      `json:"properties,omitempty"`
}

// Template is a workflow template summary from the public catalog.
type Template struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TotalViews  int    `json:"totalViews,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Nodes       []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"nodes,omitempty"`
}
