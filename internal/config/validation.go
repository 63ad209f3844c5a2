package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks a loaded configuration. The master key is only checked for
// shape here; its absence is reported when the vault is built.
func Validate(cfg Config) ValidationErrors {
	var errs ValidationErrors

	for field, raw := range map[string]string{
		"api.baseURL":    cfg.API.BaseURL,
		"api.catalogURL": cfg.API.CatalogURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add(field, "must be an absolute http(s) URL", raw)
		}
	}

	switch cfg.Store.Type {
	case StoreTypeFile:
	case StoreTypeRedis:
		if strings.TrimSpace(cfg.Store.RedisAddr) == "" {
			errs.Add("store.redisAddr", "is required when store.type is redis")
		}
	default:
		errs.Add("store.type", "must be one of file, redis", cfg.Store.Type)
	}

	if cfg.Store.MasterKey != "" {
		key, err := hex.DecodeString(cfg.Store.MasterKey)
		if err != nil || len(key) != 32 {
			errs.Add("store.masterKey", "must be 64 hex characters (32 bytes)")
		}
	}

	switch cfg.Server.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		errs.Add("server.transport", "must be one of stdio, streamable-http", cfg.Server.Transport)
	}
	if cfg.Server.Transport == TransportStreamableHTTP && (cfg.Server.Port <= 0 || cfg.Server.Port > 65535) {
		errs.Add("server.port", "must be between 1 and 65535", cfg.Server.Port)
	}

	return errs
}
