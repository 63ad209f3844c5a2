// Package trigger classifies a workflow by its trigger node and prepares the
// data needed to start it.
//
// Detect walks the node list in order and returns the first supported
// trigger. Where n8n has stored addressing information in more than one
// place over time (webhook paths, form ids), the candidate locations are
// kept as ordered accessor tables and read with gjson.
//
// Synthesizer fills in a plausible value for every declared form field so a
// form-triggered workflow can be started without caller input.
package trigger
