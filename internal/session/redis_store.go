// Package session stores which user is signed in on which page.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

var _ model.SessionStore = (*RedisStore)(nil)

type bindingData struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisStore keeps page bindings in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "page:",
	}
}

func (s *RedisStore) key(pageID string) string {
	return s.prefix + pageID
}

// Bind records that binding's user is signed in on pageID.
func (s *RedisStore) Bind(ctx context.Context, pageID string, binding model.PageBinding, ttl time.Duration) error {
	data, err := json.Marshal(bindingData{
		UserID:    binding.UserID,
		Email:     binding.Email,
		CreatedAt: binding.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal page binding: %w", err)
	}

	if err := s.client.Set(ctx, s.key(pageID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save page binding: %w", err)
	}

	return nil
}

// Lookup returns the binding of pageID or model.ErrNotFound.
func (s *RedisStore) Lookup(ctx context.Context, pageID string) (model.PageBinding, error) {
	raw, err := s.client.Get(ctx, s.key(pageID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PageBinding{}, model.ErrNotFound
	}
	if err != nil {
		return model.PageBinding{}, fmt.Errorf("failed to lookup page binding: %w", err)
	}

	var data bindingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.PageBinding{}, fmt.Errorf("failed to unmarshal page binding: %w", err)
	}

	return model.PageBinding{
		UserID:    data.UserID,
		Email:     data.Email,
		CreatedAt: data.CreatedAt,
	}, nil
}

// Unbind signs pageID out. Unbinding an unknown page is not an error.
func (s *RedisStore) Unbind(ctx context.Context, pageID string) error {
	if err := s.client.Del(ctx, s.key(pageID)).Err(); err != nil {
		return fmt.Errorf("failed to delete page binding: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
