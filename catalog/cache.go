package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache keeps raw catalog responses for a while. A failing cache behaves
// like an empty one.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

type entry struct {
	val       []byte
	fetchedAt time.Time
}

// MemoryCache is a process local Cache.
type MemoryCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || time.Since(e.fetchedAt) >= m.ttl {
		return nil, false
	}
	return e.val, true
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.entries {
		if now.Sub(e.fetchedAt) >= m.ttl {
			delete(m.entries, k)
		}
	}
	m.entries[key] = entry{val: val, fetchedAt: now}
}

// RedisCache shares catalog responses between instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    logrus.FieldLogger
}

// NewRedisCache connects to the Redis server at rawURL and checks it
// answers.
func NewRedisCache(ctx context.Context, rawURL string, ttl time.Duration, log logrus.FieldLogger) (*RedisCache, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "catalog:",
		log:    log,
	}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithField("key", key).Warnf("reading cache: %v", err)
		}
		return nil, false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte) {
	if err := r.client.Set(ctx, r.prefix+key, val, r.ttl).Err(); err != nil {
		r.log.WithField("key", key).Warnf("writing cache: %v", err)
	}
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
