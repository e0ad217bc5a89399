package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/interomap/interomap/pkg/errors"
	"github.com/interomap/interomap/pkg/observability"
)

// defaultRedisPrefix namespaces session keys in a shared Redis.
const defaultRedisPrefix = "interomap:session:"

// RedisConfig configures the Redis-backed session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix overrides the default key namespace.
	Prefix string
}

// RedisStore holds session snapshots in Redis for multi-instance hosting.
// Expiry is delegated to Redis TTLs, so Cleanup is a no-op.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// NewRedisStoreWithClient wraps an existing client, used by tests.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Get retrieves a session snapshot.
func (r *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		observability.Store().OnMiss(ctx, "redis")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get session %s", id)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode session %s", id)
	}
	if st.IsExpired() {
		observability.Store().OnMiss(ctx, "redis")
		return nil, ErrExpired
	}
	observability.Store().OnHit(ctx, "redis")
	return &st, nil
}

// Set stores a session snapshot with a TTL matching its expiry.
func (r *RedisStore) Set(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode session %s", st.ID)
	}

	var ttl time.Duration
	if !st.ExpiresAt.IsZero() {
		ttl = time.Until(st.ExpiresAt)
		if ttl <= 0 {
			ttl = time.Second
		}
	}
	if err := r.client.Set(ctx, r.key(st.ID), data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "set session %s", st.ID)
	}
	observability.Store().OnSet(ctx, "redis", len(data))
	return nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete session %s", id)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (r *RedisStore) Cleanup(context.Context) error {
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
