// Package logging provides the subsystem-tagged structured logger used across
// n8nmcp.
//
// It is a thin layer over log/slog. Every entry carries a subsystem attribute
// so that output from the credential resolver, the n8n client and the MCP
// server can be told apart:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Server", "Serving %d tools over %s", n, transport)
//	logging.Debug("N8NClient", "GET %s", url)
//	logging.Error("Credentials", err, "Failed to load user %s", logging.TruncateID(userID))
//
// # Output
//
// When the MCP server runs on the stdio transport, stdout is the protocol
// channel. Init therefore defaults to stderr and nothing in this package ever
// writes to stdout.
//
// Before Init is called, Debug and Info are dropped and Warn/Error go to
// stderr as plain lines.
package logging
