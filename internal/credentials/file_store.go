package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// usersFileName is the name of the user records file inside the store directory.
const usersFileName = "users.yaml"

// Store looks up user records by id. Implementations return an error
// wrapping ErrUserNotFound for unknown users.
type Store interface {
	GetUser(ctx context.Context, userID string) (*UserRecord, error)
}

// Writer is implemented by stores the CLI can provision.
type Writer interface {
	PutUser(ctx context.Context, rec UserRecord) error
	DeleteUser(ctx context.Context, userID string) error
}

// FileStore provides thread-safe access to users.yaml.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) filePath() string {
	return filepath.Join(s.dir, usersFileName)
}

// GetUser implements Store.
func (s *FileStore) GetUser(ctx context.Context, userID string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	rec := f.Get(userID)
	if rec == nil {
		return nil, &UserNotFoundError{UserID: userID}
	}
	out := *rec
	return &out, nil
}

// PutUser implements Writer.
func (s *FileStore) PutUser(ctx context.Context, rec UserRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	f.Upsert(rec)
	return s.saveLocked(f)
}

// DeleteUser implements Writer.
func (s *FileStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	if !f.Remove(userID) {
		return &UserNotFoundError{UserID: userID}
	}
	return s.saveLocked(f)
}

// loadLocked reads users.yaml. A missing file is an empty store.
func (s *FileStore) loadLocked() (*UsersFile, error) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UsersFile{}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var f UsersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	return &f, nil
}

func (s *FileStore) saveLocked(f *UsersFile) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal users file: %w", err)
	}

	if err := os.WriteFile(s.filePath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}
