package credentials

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v9"
)

const (
	userKeyPrefix   = "user"
	fieldAPIKey     = "apiKey"
	fieldAPIBaseURL = "apiBaseUrl"
)

// hashClient is the subset of the redis client used by RedisStore.
type hashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps one hash per user at "<namespace>:user:<id>" with the
// fields apiKey (vault ciphertext) and apiBaseUrl.
type RedisStore struct {
	client    hashClient
	namespace string
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	Namespace string
}

// NewRedisStore connects a RedisStore to the given server.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
	})
	return newRedisStoreWithClient(client, opts.Namespace)
}

func newRedisStoreWithClient(client hashClient, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) userKey(userID string) string {
	if s.namespace == "" {
		return fmt.Sprintf("%s:%s", userKeyPrefix, userID)
	}
	return fmt.Sprintf("%s:%s:%s", s.namespace, userKeyPrefix, userID)
}

// GetUser implements Store.
func (s *RedisStore) GetUser(ctx context.Context, userID string) (*UserRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load user from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, &UserNotFoundError{UserID: userID}
	}

	rec := &UserRecord{ID: userID}
	if fields[fieldAPIKey] != "" || fields[fieldAPIBaseURL] != "" {
		rec.N8N = &Integration{
			EncryptedAPIKey: fields[fieldAPIKey],
			APIBaseURL:      fields[fieldAPIBaseURL],
		}
	}
	return rec, nil
}

// PutUser implements Writer.
func (s *RedisStore) PutUser(ctx context.Context, rec UserRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	var apiKey, baseURL string
	if rec.N8N != nil {
		apiKey = rec.N8N.EncryptedAPIKey
		baseURL = rec.N8N.APIBaseURL
	}
	if err := s.client.HSet(ctx, s.userKey(rec.ID), fieldAPIKey, apiKey, fieldAPIBaseURL, baseURL).Err(); err != nil {
		return fmt.Errorf("failed to store user in redis: %w", err)
	}
	return nil
}

// DeleteUser implements Writer.
func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	n, err := s.client.Del(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete user from redis: %w", err)
	}
	if n == 0 {
		return &UserNotFoundError{UserID: userID}
	}
	return nil
}
