package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "cardstage:"

// RedisStore keeps sessions and OAuth state tokens in Redis so several
// server instances can share them. Keys expire with the session.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) sessionKey(id string) string { return s.prefix + "session:" + id }
func (s *RedisStore) stateKey(state string) string { return s.prefix + "state:" + state }

// Get loads a session. Missing keys yield nil, nil.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

// Set stores a session until its ExpiresAt.
func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.sessionKey(sessionID)).Err()
}

// Cleanup is a no-op: Redis expires keys itself.
func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

// Generate stores a fresh state token for ttl.
func (s *RedisStore) Generate(ctx context.Context, ttl time.Duration) (string, error) {
	state, err := GenerateID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.stateKey(state), "1", ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set state: %w", err)
	}
	return state, nil
}

// Validate consumes a state token. Only the first call for a token succeeds.
func (s *RedisStore) Validate(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, s.stateKey(state)).Result()
	if err != nil {
		return false, fmt.Errorf("redis validate state: %w", err)
	}
	return n == 1, nil
}

var (
	_ Store      = (*RedisStore)(nil)
	_ StateStore = (*RedisStore)(nil)
)
