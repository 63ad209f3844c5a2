// Package config loads the n8nmcp configuration.
//
// Configuration lives in a single directory (default ~/.config/n8nmcp):
//
//	config.yaml   main configuration (optional)
//	users.yaml    encrypted per-user integration records (file store only)
//
// Example config.yaml:
//
//	api:
//	  baseURL: https://n8n.example.com/api/v1
//	  toolPrefix: n8n
//	store:
//	  type: redis
//	  redisAddr: localhost:6379
//	server:
//	  transport: streamable-http
//	  port: 8091
//
// Environment variables override the file: N8N_API_URL, N8NMCP_MASTER_KEY,
// N8NMCP_REDIS_ADDR and N8NMCP_LOG_LEVEL.
package config
