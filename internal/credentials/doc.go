// Package credentials resolves a user id into the n8n API key and optional
// base URL for that user.
//
// Records are kept either in users.yaml (FileStore) or in Redis (RedisStore).
// The API key is stored encrypted with XChaCha20-Poly1305 under a 32-byte
// master key; only Resolver ever sees the plaintext, wrapped in APIKey so it
// cannot be logged by accident.
//
// Tool calls only read. The CLI `users` commands are the only writers.
package credentials
