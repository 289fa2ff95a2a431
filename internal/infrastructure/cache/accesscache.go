package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const (
	accessKeyPrefix     = "rbac:access:"
	accessGenerationKey = "rbac:access:gen"
	baseAccessTTL       = 5 * time.Minute
	accessTTLJitter     = time.Minute // TTL range: 5-6 min (anti-stampede)
)

// RedisAccessCache caches resolved user access as JSON. Entries are namespaced by a
// generation counter so InvalidateAll is a single INCR.
type RedisAccessCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisAccessCache(client *redis.Client, logger logger.Interface) *RedisAccessCache {
	return &RedisAccessCache{
		client: client,
		logger: logger,
	}
}

var _ apppermission.AccessCache = (*RedisAccessCache)(nil)

func (c *RedisAccessCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, accessGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisAccessCache) key(gen int64, userID uint) string {
	return fmt.Sprintf("%s%d:%d", accessKeyPrefix, gen, userID)
}

// Get treats every redis failure as a miss.
func (c *RedisAccessCache) Get(ctx context.Context, userID uint) (*apppermission.UserAccess, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warnw("failed to read access cache generation", "error", err)
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(gen, userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("failed to read access cache", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var access apppermission.UserAccess
	if err := json.Unmarshal(data, &access); err != nil {
		c.logger.Warnw("corrupt access cache entry", "user_id", userID, "error", err)
		return nil, false
	}
	return &access, true
}

func (c *RedisAccessCache) Set(ctx context.Context, userID uint, access *apppermission.UserAccess) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warnw("failed to read access cache generation", "error", err)
		return
	}
	data, err := json.Marshal(access)
	if err != nil {
		c.logger.Warnw("failed to marshal user access", "user_id", userID, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(gen, userID), data, accessTTLWithJitter()).Err(); err != nil {
		c.logger.Warnw("failed to write access cache", "user_id", userID, "error", err)
	}
}

// InvalidateAll bumps the generation. Old entries expire on their own.
func (c *RedisAccessCache) InvalidateAll(ctx context.Context) {
	if err := c.client.Incr(ctx, accessGenerationKey).Err(); err != nil {
		c.logger.Errorw("failed to invalidate access cache", "error", err)
		return
	}
	c.logger.Debugw("access cache invalidated")
}

func accessTTLWithJitter() time.Duration {
	return baseAccessTTL + time.Duration(rand.Int64N(int64(accessTTLJitter)))
}

type memoryAccessEntry struct {
	access    apppermission.UserAccess
	expiresAt time.Time
}

// MemoryAccessCache is the in-process AccessCache used when redis is disabled.
type MemoryAccessCache struct {
	mu      sync.RWMutex
	entries map[uint]memoryAccessEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryAccessCache(ttl time.Duration) *MemoryAccessCache {
	if ttl <= 0 {
		ttl = baseAccessTTL
	}
	return &MemoryAccessCache{
		entries: make(map[uint]memoryAccessEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ apppermission.AccessCache = (*MemoryAccessCache)(nil)

func (c *MemoryAccessCache) Get(ctx context.Context, userID uint) (*apppermission.UserAccess, bool) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	access := e.access
	access.Roles = append([]string(nil), e.access.Roles...)
	access.Permissions = append([]string(nil), e.access.Permissions...)
	return &access, true
}

func (c *MemoryAccessCache) Set(ctx context.Context, userID uint, access *apppermission.UserAccess) {
	if access == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryAccessEntry{access: *access, expiresAt: c.now().Add(c.ttl)}
}

func (c *MemoryAccessCache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint]memoryAccessEntry)
}
