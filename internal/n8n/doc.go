// Package n8n talks HTTP to an n8n instance and to the public n8n catalog.
//
// Client.Execute is the single entry point for REST API calls. It always
// returns a Result instead of an error so callers decide how a failure is
// phrased to the user; Result.OK separates a failed call from a successful
// one with an empty body.
//
// Webhook, form and run endpoints are not under the API path. HostRoot
// reduces a base URL to scheme://host for those, and CallURL/SubmitForm call
// them directly.
package n8n
