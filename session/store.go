package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokensNotFound is an exported constant or variable used by the verification workflow.
var ErrTokensNotFound = errors.New("tokens not found")

// ErrRedisUnavailable is an exported constant or variable used by the verification workflow.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store defines a public type used by authflow APIs.
//
// Store implementations persist the token pair for one installed client,
// keyed by device ID. A successful Login flow writes here; discarding a
// flow never touches the store.
type Store interface {
	Save(ctx context.Context, deviceID string, tokens Tokens) error
	Load(ctx context.Context, deviceID string) (Tokens, error)
	Clear(ctx context.Context, deviceID string) error
}

// MemoryStore defines a public type used by authflow APIs.
//
// MemoryStore is the in-process Store used by tests and by single-user
// mobile builds where the platform keychain wraps it.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]Tokens
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]Tokens)}
}

// Save describes the save operation and its observable behavior.
func (s *MemoryStore) Save(_ context.Context, deviceID string, tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[deviceID] = tokens
	return nil
}

// Load describes the load operation and its observable behavior.
//
// Load returns ErrTokensNotFound when no login has been stored for deviceID.
func (s *MemoryStore) Load(_ context.Context, deviceID string) (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[deviceID]
	if !ok {
		return Tokens{}, ErrTokensNotFound
	}
	return t, nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear is idempotent: clearing an absent device is not an error.
func (s *MemoryStore) Clear(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, deviceID)
	return nil
}

// RedisStore defines a public type used by authflow APIs.
//
// RedisStore keeps token pairs in Redis, one hash per device, expiring
// with the refresh horizon. It serves kiosk and backend-for-frontend
// deployments where several processes share a login.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// A non-positive ttl stores tokens without expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "aft"
	}
	return &RedisStore{redis: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(deviceID string) string {
	return s.prefix + ":" + deviceID
}

// Save describes the save operation and its observable behavior.
func (s *RedisStore) Save(ctx context.Context, deviceID string, tokens Tokens) error {
	key := s.key(deviceID)
	if err := s.redis.HSet(ctx, key, "access", tokens.AccessToken, "refresh", tokens.RefreshToken).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if s.ttl > 0 {
		if err := s.redis.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

// Load describes the load operation and its observable behavior.
func (s *RedisStore) Load(ctx context.Context, deviceID string) (Tokens, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(deviceID)).Result()
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return Tokens{}, ErrTokensNotFound
	}
	return Tokens{AccessToken: fields["access"], RefreshToken: fields["refresh"]}, nil
}

// Clear describes the clear operation and its observable behavior.
func (s *RedisStore) Clear(ctx context.Context, deviceID string) error {
	if err := s.redis.Del(ctx, s.key(deviceID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
