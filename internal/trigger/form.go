package trigger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"n8nmcp/internal/n8n"
)

const (
	// FieldKeyPrefix forms positional keys: the form endpoint addresses
	// fields by declaration order, not by label.
	FieldKeyPrefix = "field-"

	sampleText     = "Sample text"
	sampleEmail    = "test@example.com"
	sampleMessage  = "This is a test message sent from n8nmcp."
	sampleTextarea = "This is a test submission.\nIt was generated automatically\nto exercise the form workflow."
	dateLayout     = "2006-01-02"
)

// FieldKey returns the positional key for the i-th declared field.
func FieldKey(i int) string {
	return fmt.Sprintf("%s%d", FieldKeyPrefix, i)
}

// Field is one declared form field, whatever shape it was declared in.
type Field struct {
	Label       string
	Type        string
	Placeholder string
	Options     []string
	Default     interface{}
	HasDefault  bool
	Min         *float64
}

// fieldSources lists where a form node may declare its fields, first
// non-empty source wins.
var fieldSources = []string{
	"parameters.formFields.values",
	"parameters.fields",
	"parameters.options.formFields.values",
	"parameters.schema.fields",
	"parameters.jsonSchema",
}

// labelHeuristics is checked in order against the lowercased label of text fields.
var labelHeuristics = []struct {
	keyword string
	value   string
}{
	{"email", sampleEmail},
	{"company", "Example Corp"},
	{"name", "Test User"},
	{"subject", "Test submission"},
	{"message", sampleMessage},
}

// Synthesizer produces placeholder values for form fields.
type Synthesizer struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewSynthesizer returns a Synthesizer using the wall clock.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{Now: time.Now}
}

func (s *Synthesizer) now() time.Time {
	if s == nil || s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Synthesize returns a value for every field the node declares, keyed
// positionally. A node without declared fields yields {message, timestamp}.
func (s *Synthesizer) Synthesize(node *n8n.Node) map[string]interface{} {
	fields := Fields(node)
	if len(fields) == 0 {
		return map[string]interface{}{
			"message":   sampleMessage,
			"timestamp": s.now().UTC().Format(time.RFC3339),
		}
	}

	out := make(map[string]interface{}, len(fields))
	for i, f := range fields {
		out[FieldKey(i)] = s.value(f)
	}
	return out
}

func (s *Synthesizer) value(f Field) interface{} {
	if f.HasDefault && !isEmpty(f.Default) {
		return f.Default
	}

	switch f.Type {
	case "email":
		return sampleEmail
	case "textarea":
		return sampleTextarea
	case "number":
		if f.Min != nil {
			return *f.Min
		}
		return float64(1)
	case "boolean", "checkbox":
		return true
	case "date":
		return s.now().Format(dateLayout)
	case "dropdown", "select", "radio":
		if len(f.Options) > 0 {
			return f.Options[0]
		}
	case "multiselect":
		if len(f.Options) > 0 {
			return []interface{}{f.Options[0]}
		}
		return []interface{}{placeholderOr(f)}
	case "text", "":
		label := strings.ToLower(f.Label)
		for _, h := range labelHeuristics {
			if strings.Contains(label, h.keyword) {
				return h.value
			}
		}
	}
	return placeholderOr(f)
}

func placeholderOr(f Field) string {
	if p := strings.TrimSpace(f.Placeholder); p != "" {
		return p
	}
	return sampleText
}

// Fields extracts the declared fields of a form node.
func Fields(node *n8n.Node) []Field {
	if node == nil {
		return nil
	}
	raw := nodeDocument(node)

	for _, src := range fieldSources {
		r := gjson.GetBytes(raw, src)
		if !r.Exists() {
			continue
		}

		var fields []Field
		if src == "parameters.jsonSchema" {
			fields = schemaFields(r)
		} else {
			for _, item := range r.Array() {
				if item.IsObject() {
					fields = append(fields, declaredField(item))
				}
			}
		}
		if len(fields) > 0 {
			return fields
		}
	}
	return nil
}

func declaredField(item gjson.Result) Field {
	f := Field{
		Label:       firstString(item, "fieldLabel", "label", "name", "title"),
		Type:        normalizeType(firstString(item, "fieldType", "type", "inputType")),
		Placeholder: firstString(item, "placeholder"),
		Options:     options(item),
		Min:         firstNumber(item, "minValue", "minimum", "min"),
	}
	for _, key := range []string{"defaultValue", "default", "value"} {
		if d := item.Get(key); d.Exists() && d.Type != gjson.Null {
			f.Default = d.Value()
			f.HasDefault = true
			break
		}
	}
	if f.Type == "dropdown" && item.Get("multiselect").Bool() {
		f.Type = "multiselect"
	}
	return f
}

// schemaFields reads a JSON-schema declaration, given either as an object or
// as a string holding JSON.
func schemaFields(r gjson.Result) []Field {
	if r.Type == gjson.String {
		if !gjson.Valid(r.Str) {
			return nil
		}
		r = gjson.Parse(r.Str)
	}

	props := r.Get("properties")
	if !props.IsObject() {
		// Some nodes store the properties map directly.
		props = r
		if !props.IsObject() {
			return nil
		}
	}

	var fields []Field
	props.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		f := Field{
			Label:       firstString(value, "title"),
			Type:        normalizeType(value.Get("type").String()),
			Placeholder: firstString(value, "description", "examples.0"),
			Options:     stringList(value.Get("enum")),
			Min:         firstNumber(value, "minimum"),
		}
		if f.Label == "" {
			f.Label = key.String()
		}
		if value.Get("format").String() == "email" {
			f.Type = "email"
		}
		if value.Get("format").String() == "date" {
			f.Type = "date"
		}
		if len(f.Options) > 0 && f.Type == "text" {
			f.Type = "dropdown"
		}
		if d := value.Get("default"); d.Exists() && d.Type != gjson.Null {
			f.Default = d.Value()
			f.HasDefault = true
		}
		fields = append(fields, f)
		return true
	})
	return fields
}

func normalizeType(t string) string {
	switch t = strings.ToLower(strings.TrimSpace(t)); t {
	case "", "string":
		return "text"
	case "integer", "float":
		return "number"
	case "bool":
		return "boolean"
	case "options":
		return "dropdown"
	case "multioptions":
		return "multiselect"
	default:
		return t
	}
}

func options(item gjson.Result) []string {
	if opts := stringList(item.Get("fieldOptions.values.#.option")); len(opts) > 0 {
		return opts
	}
	for _, key := range []string{"options", "enum", "choices"} {
		if opts := stringList(item.Get(key)); len(opts) > 0 {
			return opts
		}
	}
	return nil
}

// stringList accepts ["a","b"] as well as [{"option":"a"}], [{"value":"a"}]
// and [{"label":"a"}].
func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		s := v.String()
		if v.IsObject() {
			s = firstString(v, "option", "value", "label", "name")
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.Get(k).String()); v != "" {
			return v
		}
	}
	return ""
}

func firstNumber(r gjson.Result, keys ...string) *float64 {
	for _, k := range keys {
		if v := r.Get(k); v.Type == gjson.Number {
			n := v.Num
			return &n
		}
	}
	return nil
}

func nodeDocument(node *n8n.Node) []byte {
	if len(node.Raw) > 0 && gjson.ValidBytes(node.Raw) {
		return node.Raw
	}
	data, err := json.Marshal(node)
	if err != nil {
		return nil
	}
	return data
}
