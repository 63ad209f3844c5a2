package credentials

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned by stores when no record exists for a user.
	ErrUserNotFound = errors.New("user not found")
)

// UserNotFoundError wraps ErrUserNotFound with the requested id.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.UserID)
}

func (e *UserNotFoundError) Unwrap() error {
	return ErrUserNotFound
}

// Integration is the n8n sub-record of a user. EncryptedAPIKey is the
// base64 vault ciphertext of the user's n8n API key.
type Integration struct {
	EncryptedAPIKey string `yaml:"apiKey,omitempty"`
	APIBaseURL      string `yaml:"apiBaseUrl,omitempty"`
}

// UserRecord is a stored per-user configuration record.
type UserRecord struct {
	ID  string       `yaml:"id"`
	N8N *Integration `yaml:"n8n,omitempty"`
}

// UsersFile is the root structure of users.yaml.
type UsersFile struct {
	Users []UserRecord `yaml:"users,omitempty"`
}

// Get returns the user with the given id, or nil if not found.
func (f *UsersFile) Get(id string) *UserRecord {
	for i := range f.Users {
		if f.Users[i].ID == id {
			return &f.Users[i]
		}
	}
	return nil
}

// Upsert adds or replaces the record with the same id.
func (f *UsersFile) Upsert(rec UserRecord) {
	for i := range f.Users {
		if f.Users[i].ID == rec.ID {
			f.Users[i] = rec
			return
		}
	}
	f.Users = append(f.Users, rec)
}

// Remove deletes the record with the given id and reports whether it existed.
func (f *UsersFile) Remove(id string) bool {
	for i := range f.Users {
		if f.Users[i].ID == id {
			f.Users = append(f.Users[:i], f.Users[i+1:]...)
			return true
		}
	}
	return false
}

// APIKey wraps a decrypted n8n API key to prevent accidental logging.
//
// String, GoString and the marshalers all return "[REDACTED]". Use Value only
// when setting the request header.
type APIKey struct {
	value string
}

// NewAPIKey wraps the given plaintext key.
func NewAPIKey(value string) APIKey {
	return APIKey{value: value}
}

// Value returns the plaintext key. Never log the result.
func (k APIKey) Value() string {
	return k.value
}

func (k APIKey) String() string {
	return "[REDACTED]"
}

func (k APIKey) GoString() string {
	return "credentials.APIKey{[REDACTED]}"
}

// IsEmpty returns true if the key is empty.
func (k APIKey) IsEmpty() bool {
	return k.value == ""
}

func (k APIKey) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

func (k APIKey) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// Credentials are the resolved access details for one user.
type Credentials struct {
	AccessToken APIKey
	// APIBaseURL is the user's override; empty means "use the configured default".
	APIBaseURL string
}
