package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
)

// Cache stores remotely validated identities per token so the auth service is
// not hit on every request. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, token string) (*request.Identity, bool)
	Set(ctx context.Context, token string, id *request.Identity, ttl time.Duration)
}

// MemoryCache is the default single-process implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	identity *request.Identity
	expiry   time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryEntry{}, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, token string) (*request.Identity, bool) {
	c.mu.RLock()
	e, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiry) {
		c.mu.Lock()
		delete(c.entries, token)
		c.mu.Unlock()
		return nil, false
	}
	return e.identity, true
}

func (c *MemoryCache) Set(_ context.Context, token string, id *request.Identity, ttl time.Duration) {
	c.mu.Lock()
	c.entries[token] = memoryEntry{identity: id, expiry: c.now().Add(ttl)}
	c.mu.Unlock()
}

// RedisCache shares validated identities across gateway replicas. Keys are
// token digests, never raw tokens.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache { return &RedisCache{rdb: rdb} }

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "gateway:identity:" + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, token string) (*request.Identity, bool) {
	bs, err := c.rdb.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		return nil, false
	}
	var id request.Identity
	if json.Unmarshal(bs, &id) != nil {
		return nil, false
	}
	return &id, true
}

func (c *RedisCache) Set(ctx context.Context, token string, id *request.Identity, ttl time.Duration) {
	if bs, err := json.Marshal(id); err == nil {
		_ = c.rdb.Set(ctx, cacheKey(token), bs, ttl).Err()
	}
}
