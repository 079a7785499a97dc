package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"branchdesk-backend/internal/config"
	"branchdesk-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	itemListKeyFmt = "items:branch:%d"
	itemListTTL    = 10 * time.Minute
)

// Cache is a read-through helper over Redis. A Cache without a client (Redis
// disabled or unreachable at startup) misses every read and ignores writes.
type Cache struct {
	client *redis.Client
}

// New connects when Redis is enabled. A failed ping returns a disabled cache
// together with the error so the caller can log it and carry on.
func New(ctx context.Context, cfg *config.Config) (*Cache, error) {
	if !cfg.Redis.Enabled {
		return &Cache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return &Cache{}, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func itemListKey(branchID int) string {
	return fmt.Sprintf(itemListKeyFmt, branchID)
}

// GetItems returns the cached item list of a branch (0 = all branches)
func (c *Cache) GetItems(ctx context.Context, branchID int) ([]*models.Item, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, itemListKey(branchID)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []*models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *Cache) SetItems(ctx context.Context, branchID int, items []*models.Item) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.client.Set(ctx, itemListKey(branchID), data, itemListTTL)
}

// InvalidateItems drops the branch list and the all-branches list
func (c *Cache) InvalidateItems(ctx context.Context, branchID int) {
	if !c.Enabled() {
		return
	}
	c.client.Del(ctx, itemListKey(branchID), itemListKey(0))
}
