package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tidwall/gjson"

	"n8nmcp/internal/n8n"
	"n8nmcp/internal/trigger"
	pkgstrings "n8nmcp/pkg/strings"
)

const descriptionMaxLen = pkgstrings.DefaultDescriptionMaxLen

// Formatters renders API objects as text for the assistant. Output is plain
// text (no ANSI colors) since it is read by a model, not a terminal.
type Formatters struct{}

// NewFormatters creates a new formatters instance.
func NewFormatters() *Formatters {
	return &Formatters{}
}

func (f *Formatters) table(header table.Row, rows []table.Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (f *Formatters) withCursor(s, cursor string) string {
	if cursor == "" {
		return s
	}
	return s + "\n\nMore results available. Pass cursor=" + cursor + " to fetch the next page."
}

// FormatWorkflowList renders a page of workflows.
func (f *Formatters) FormatWorkflowList(page n8n.Page[n8n.Workflow]) string {
	if len(page.Data) == 0 {
		return "No workflows found."
	}

	rows := make([]table.Row, 0, len(page.Data))
	for _, wf := range page.Data {
		rows = append(rows, table.Row{
			wf.ID,
			pkgstrings.TruncateDescription(wf.Name, descriptionMaxLen),
			yesNo(wf.Active),
			len(wf.Nodes),
			pkgstrings.OrDash(tagNames(wf.Tags)),
			pkgstrings.OrDash(wf.UpdatedAt),
		})
	}

	out := fmt.Sprintf("Found %s:\n\n", pkgstrings.Pluralize(len(page.Data), "workflow")) +
		f.table(table.Row{"ID", "NAME", "ACTIVE", "NODES", "TAGS", "UPDATED"}, rows)
	return f.withCursor(out, page.NextCursor)
}

// FormatWorkflow renders one workflow with its trigger and nodes.
func (f *Formatters) FormatWorkflow(wf *n8n.Workflow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow: %s\n", wf.Name)
	fmt.Fprintf(&b, "ID: %s\n", wf.ID)
	fmt.Fprintf(&b, "Active: %s\n", yesNo(wf.Active))
	fmt.Fprintf(&b, "Published: %s\n", yesNo(wf.ActiveVersionID != ""))
	if wf.CreatedAt != "" {
		fmt.Fprintf(&b, "Created: %s\n", wf.CreatedAt)
	}
	if wf.UpdatedAt != "" {
		fmt.Fprintf(&b, "Updated: %s\n", wf.UpdatedAt)
	}
	if tags := tagNames(wf.Tags); tags != "" {
		fmt.Fprintf(&b, "Tags: %s\n", tags)
	}

	tr := trigger.Detect(wf)
	if tr.Node != nil {
		fmt.Fprintf(&b, "Trigger: %s (node %q)", tr.Type, tr.Node.Name)
		if tr.Path != "" {
			fmt.Fprintf(&b, ", path %s", tr.Path)
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "Trigger: %s\n", tr.Type)
	}

	if len(wf.Nodes) == 0 {
		b.WriteString("\nNo nodes.")
		return b.String()
	}

	rows := make([]table.Row, 0, len(wf.Nodes))
	for _, n := range wf.Nodes {
		rows = append(rows, table.Row{n.Name, n.Type, formatVersion(n.TypeVersion), yesNo(n.Disabled)})
	}
	fmt.Fprintf(&b, "\nNodes (%d):\n", len(wf.Nodes))
	b.WriteString(f.table(table.Row{"NAME", "TYPE", "VERSION", "DISABLED"}, rows))

	if conns := connectionLines(wf.Connections); len(conns) > 0 {
		b.WriteString("\n\nConnections:\n")
		b.WriteString(strings.Join(conns, "\n"))
	}
	return b.String()
}

func formatVersion(v float64) string {
	if v == 0 {
		return "1"
	}
	return fmt.Sprintf("%g", v)
}

func connectionLines(conns map[string]map[string][][]n8n.NodeRef) []string {
	sources := make([]string, 0, len(conns))
	for src := range conns {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var lines []string
	for _, src := range sources {
		for _, outputs := range conns[src] {
			for _, targets := range outputs {
				for _, t := range targets {
					lines = append(lines, fmt.Sprintf("  %s -> %s", src, t.Node))
				}
			}
		}
	}
	return lines
}

func tagNames(tags []n8n.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

// FormatExecutionList renders a page of executions.
func (f *Formatters) FormatExecutionList(page n8n.Page[n8n.Execution]) string {
	if len(page.Data) == 0 {
		return "No executions found."
	}

	rows := make([]table.Row, 0, len(page.Data))
	for _, e := range page.Data {
		rows = append(rows, table.Row{
			e.ID,
			e.WorkflowID,
			executionStatus(e),
			pkgstrings.OrDash(e.Mode),
			pkgstrings.OrDash(e.StartedAt),
			pkgstrings.OrDash(e.StoppedAt),
		})
	}

	out := fmt.Sprintf("Found %s:\n\n", pkgstrings.Pluralize(len(page.Data), "execution")) +
		f.table(table.Row{"ID", "WORKFLOW", "STATUS", "MODE", "STARTED", "STOPPED"}, rows)
	return f.withCursor(out, page.NextCursor)
}

// executionStatus falls back to finished/stoppedAt on instances that do not
// report status.
func executionStatus(e n8n.Execution) string {
	switch {
	case e.Status != "":
		return e.Status
	case e.Finished:
		return "success"
	case e.StoppedAt != "":
		return "error"
	default:
		return "running"
	}
}

// FormatExecution renders one execution. raw is the response body, read
// with gjson for the run data summary.
func (f *Formatters) FormatExecution(e n8n.Execution, raw []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Execution: %s\n", e.ID)
	fmt.Fprintf(&b, "Workflow: %s\n", e.WorkflowID)
	fmt.Fprintf(&b, "Status: %s\n", executionStatus(e))
	fmt.Fprintf(&b, "Mode: %s\n", pkgstrings.OrDash(e.Mode))
	fmt.Fprintf(&b, "Started: %s\n", pkgstrings.OrDash(e.StartedAt))
	fmt.Fprintf(&b, "Stopped: %s\n", pkgstrings.OrDash(e.StoppedAt))

	result := gjson.GetBytes(raw, "data.resultData")
	if !result.Exists() {
		return strings.TrimRight(b.String(), "\n")
	}

	if last := result.Get("lastNodeExecuted").String(); last != "" {
		fmt.Fprintf(&b, "Last node: %s\n", last)
	}
	if msg := result.Get("error.message").String(); msg != "" {
		fmt.Fprintf(&b, "Error: %s\n", msg)
		if node := result.Get("error.node.name").String(); node != "" {
			fmt.Fprintf(&b, "Failed node: %s\n", node)
		}
	}

	var rows []table.Row
	result.Get("runData").ForEach(func(name, runs gjson.Result) bool {
		items := 0
		status := "success"
		runs.ForEach(func(_, run gjson.Result) bool {
			items += len(run.Get("data.main.0").Array())
			if run.Get("error").Exists() {
				status = "error"
			}
			return true
		})
		rows = append(rows, table.Row{name.String(), len(runs.Array()), items, status})
		return true
	})
	if len(rows) > 0 {
		b.WriteString("\nNodes run:\n")
		b.WriteString(f.table(table.Row{"NODE", "RUNS", "ITEMS", "STATUS"}, rows))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCredentialList renders credential metadata.
func (f *Formatters) FormatCredentialList(page n8n.Page[n8n.Credential]) string {
	if len(page.Data) == 0 {
		return "No credentials found."
	}
	rows := make([]table.Row, 0, len(page.Data))
	for _, c := range page.Data {
		rows = append(rows, table.Row{c.ID, c.Name, c.Type, pkgstrings.OrDash(c.UpdatedAt)})
	}
	out := fmt.Sprintf("Found %s:\n\n", pkgstrings.Pluralize(len(page.Data), "credential")) +
		f.table(table.Row{"ID", "NAME", "TYPE", "UPDATED"}, rows)
	return f.withCursor(out, page.NextCursor)
}

// FormatCredential renders one credential's metadata.
func (f *Formatters) FormatCredential(c n8n.Credential) string {
	return fmt.Sprintf("Credential: %s\nID: %s\nType: %s\nCreated: %s\nUpdated: %s",
		c.Name, c.ID, c.Type, pkgstrings.OrDash(c.CreatedAt), pkgstrings.OrDash(c.UpdatedAt))
}

// FormatUser renders an n8n account.
func (f *Formatters) FormatUser(u n8n.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return fmt.Sprintf("User: %s\nEmail: %s\nID: %s\nRole: %s",
		pkgstrings.OrDash(name), u.Email, u.ID, pkgstrings.OrDash(u.Role))
}

// FormatTagList renders tags.
func (f *Formatters) FormatTagList(page n8n.Page[n8n.Tag]) string {
	if len(page.Data) == 0 {
		return "No tags found."
	}
	rows := make([]table.Row, 0, len(page.Data))
	for _, t := range page.Data {
		rows = append(rows, table.Row{t.ID, t.Name})
	}
	out := fmt.Sprintf("Found %s:\n\n", pkgstrings.Pluralize(len(page.Data), "tag")) +
		f.table(table.Row{"ID", "NAME"}, rows)
	return f.withCursor(out, page.NextCursor)
}

// Webhook is one webhook endpoint, either reported by the instance or
// derived from a workflow's webhook node.
type Webhook struct {
	WorkflowID   string
	WorkflowName string
	Method       string
	URL          string
	Active       bool
}

// FormatWebhookList renders webhooks.
func (f *Formatters) FormatWebhookList(hooks []Webhook) string {
	if len(hooks) == 0 {
		return "No webhooks found."
	}
	rows := make([]table.Row, 0, len(hooks))
	for _, h := range hooks {
		rows = append(rows, table.Row{pkgstrings.OrDash(h.WorkflowID), pkgstrings.OrDash(h.WorkflowName), h.Method, h.URL, yesNo(h.Active)})
	}
	return fmt.Sprintf("Found %s:\n\n", pkgstrings.Pluralize(len(hooks), "webhook")) +
		f.table(table.Row{"WORKFLOW", "NAME", "METHOD", "URL", "ACTIVE"}, rows)
}

// FormatNodeList renders catalog search results.
func (f *Formatters) FormatNodeList(query string, nodes []n8n.NodeType) string {
	if len(nodes) == 0 {
		return fmt.Sprintf("No nodes found matching %q.", query)
	}
	rows := make([]table.Row, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, table.Row{n.Name, n.DisplayName, pkgstrings.TruncateDescription(n.Description, descriptionMaxLen)})
	}
	return fmt.Sprintf("Found %s matching %q:\n\n", pkgstrings.Pluralize(len(nodes), "node"), query) +
		f.table(table.Row{"TYPE", "NAME", "DESCRIPTION"}, rows)
}

// FormatNodeType renders a catalog node definition with its parameters.
func (f *Formatters) FormatNodeType(n *n8n.NodeType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node: %s\n", n.DisplayName)
	fmt.Fprintf(&b, "Type: %s\n", n.Name)
	if n.Version != nil {
		fmt.Fprintf(&b, "Version: %v\n", n.Version)
	}
	if len(n.Group) > 0 {
		fmt.Fprintf(&b, "Group: %s\n", strings.Join(n.Group, ", "))
	}
	if n.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", n.Description)
	}

	props, _ := n.Properties.([]interface{})
	var rows []table.Row
	for _, p := range props {
		m, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		typ, _ := m["type"].(string)
		required, _ := m["required"].(bool)
		desc, _ := m["description"].(string)
		rows = append(rows, table.Row{name, typ, yesNo(required), pkgstrings.TruncateDescription(desc, descriptionMaxLen)})
	}
	if len(rows) > 0 {
		fmt.Fprintf(&b, "\nParameters (%d):\n", len(rows))
		b.WriteString(f.table(table.Row{"NAME", "TYPE", "REQUIRED", "DESCRIPTION"}, rows))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTemplateList renders template search results.
func (f *Formatters) FormatTemplateList(query string, templates []n8n.Template, total int) string {
	if len(templates) == 0 {
		return fmt.Sprintf("No templates found matching %q.", query)
	}
	rows := make([]table.Row, 0, len(templates))
	for _, t := range templates {
		nodes := make([]string, 0, len(t.Nodes))
		for _, n := range t.Nodes {
			nodes = append(nodes, n.DisplayName)
		}
		rows = append(rows, table.Row{
			t.ID,
			pkgstrings.TruncateDescription(t.Name, descriptionMaxLen),
			t.TotalViews,
			pkgstrings.OrDash(pkgstrings.TruncateDescription(strings.Join(nodes, ", "), descriptionMaxLen)),
		})
	}
	return fmt.Sprintf("Found %d templates matching %q (showing %d):\n\n", total, query, len(templates)) +
		f.table(table.Row{"ID", "NAME", "VIEWS", "NODES"}, rows)
}

// FormatTemplate renders a template with its importable workflow JSON.
func (f *Formatters) FormatTemplate(tpl map[string]interface{}) string {
	doc, _ := json.Marshal(tpl)

	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", gjson.GetBytes(doc, "name").String())
	fmt.Fprintf(&b, "ID: %s\n", gjson.GetBytes(doc, "id").String())
	if views := gjson.GetBytes(doc, "totalViews"); views.Exists() {
		fmt.Fprintf(&b, "Views: %d\n", views.Int())
	}
	if desc := gjson.GetBytes(doc, "description").String(); desc != "" {
		fmt.Fprintf(&b, "Description: %s\n", pkgstrings.TruncateDescription(desc, 500))
	}

	definition := gjson.GetBytes(doc, "workflow")
	if !definition.Exists() {
		return strings.TrimRight(b.String(), "\n")
	}

	var types []string
	seen := map[string]bool{}
	definition.Get("nodes.#.type").ForEach(func(_, v gjson.Result) bool {
		if !seen[v.String()] {
			seen[v.String()] = true
			types = append(types, v.String())
		}
		return true
	})
	if len(types) > 0 {
		fmt.Fprintf(&b, "Node types: %s\n", strings.Join(types, ", "))
	}

	var pretty map[string]interface{}
	if err := json.Unmarshal([]byte(definition.Raw), &pretty); err == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Fprintf(&b, "\nWorkflow JSON:\n%s", out)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatJSON pretty-prints a response body for the execution paths.
func (f *Formatters) FormatJSON(data interface{}) string {
	if data == nil {
		return "(empty)"
	}
	if s, ok := data.(string); ok {
		return s
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(out)
}
