package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "todoapi/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "todo:list:"

// TodoCache caches each owner's todo list in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for ownerID or nil on a miss.
func (c *TodoCache) GetList(ctx context.Context, ownerID string) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []dom.Todo{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the owner's list.
func (c *TodoCache) SetList(ctx context.Context, ownerID string, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID), b, c.ttl).Err()
}

// Invalidate drops the owner's cached list after any write.
func (c *TodoCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.rdb.Del(ctx, listKey(ownerID)).Err()
}

func listKey(ownerID string) string {
	return keyListPrefix + ownerID
}
