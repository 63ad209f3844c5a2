// Package app bootstraps n8nmcp.
//
// The bootstrap has two phases:
//
//  1. NewApplication configures logging, loads config.yaml from the config
//     directory and builds the services (credential store, vault, resolver,
//     n8n client and catalog, tool provider, MCP server).
//  2. Run serves MCP on the configured transport until the context ends.
//
// Logs always go to stderr: with the stdio transport stdout carries the MCP
// protocol.
//
// The users subcommands reuse NewStore and NewVault to provision encrypted
// API keys into the same store the server reads.
package app
