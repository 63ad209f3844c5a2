package credentials

import (
	"context"
	"errors"
	"strings"

	"n8nmcp/pkg/logging"
)

// Resolver turns a user id into usable n8n credentials.
type Resolver struct {
	store     Store
	decrypter Decrypter
}

// NewResolver creates a Resolver over the given store and decrypter.
func NewResolver(store Store, decrypter Decrypter) *Resolver {
	return &Resolver{store: store, decrypter: decrypter}
}

// Resolve returns the credentials for userID. It fails closed: any missing
// record, missing integration, missing key or decryption failure yields
// (nil, false). Causes are logged, never returned.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*Credentials, bool) {
	if r == nil || r.store == nil || r.decrypter == nil {
		logging.Warn("Credentials", "Resolver is not configured")
		return nil, false
	}
	if strings.TrimSpace(userID) == "" {
		return nil, false
	}

	rec, err := r.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			logging.Debug("Credentials", "No record for user %s", logging.TruncateID(userID))
		} else {
			logging.Error("Credentials", err, "Failed to load record for user %s", logging.TruncateID(userID))
		}
		return nil, false
	}
	if rec == nil || rec.N8N == nil || strings.TrimSpace(rec.N8N.EncryptedAPIKey) == "" {
		logging.Debug("Credentials", "User %s has no n8n API key", logging.TruncateID(userID))
		return nil, false
	}

	plaintext, err := r.decrypter.DecryptString(rec.N8N.EncryptedAPIKey)
	if err != nil {
		logging.Error("Credentials", err, "Failed to decrypt n8n API key for user %s", logging.TruncateID(userID))
		return nil, false
	}
	if plaintext == "" {
		return nil, false
	}

	return &Credentials{
		AccessToken: NewAPIKey(plaintext),
		APIBaseURL:  strings.TrimSpace(rec.N8N.APIBaseURL),
	}, true
}
