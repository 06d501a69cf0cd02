package session

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"draftworx_orchestrator/internal/core"
)

// DefaultSessionTTL is applied when no TTL is configured.
const DefaultSessionTTL = 40 * time.Minute

// RedisStore is an alternative Store backend keeping session state in Redis
// under "session:<id>" keys. It trades MemoryStore's guarantees for
// continuity across processes, with a weaker contract: Update and
// PushToolRun are non-atomic read-modify-write round trips, so concurrent
// writers (in one process or across processes) can overwrite each other's
// whole state, and keys expire after the configured TTL rather than living
// for the process lifetime. Deployments that need the strict contract use
// MemoryStore.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*core.SessionState, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return core.NewSessionState(), nil
		}
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}

	state := core.NewSessionState()
	if err := sonic.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return state, nil
}

func (r *RedisStore) Update(ctx context.Context, sessionID string, patch core.StatePatch) (*core.SessionState, error) {
	state, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.Apply(patch)
	if err := r.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *RedisStore) PushToolRun(ctx context.Context, sessionID string, toolRunID string) error {
	state, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	state.ToolRunSequence = append(state.ToolRunSequence, toolRunID)
	return r.save(ctx, sessionID, state)
}

func (r *RedisStore) save(ctx context.Context, sessionID string, state *core.SessionState) error {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session state: %w", err)
	}
	return nil
}

// Ping tests the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
