package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

const cacheKey = "catalog:records"

// Cache provides Redis-backed catalog caching to offload the DB on session
// starts. Entries hold the canonical (unshuffled) record list; each session
// shuffles its own copy.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a redis client with the given TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached catalog, or nil on a miss.
func (c *Cache) Get(ctx context.Context) ([]QuestionRecord, error) {
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var records []QuestionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Set stores the catalog with the configured TTL.
func (c *Cache) Set(ctx context.Context, records []QuestionRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey, data, c.ttl).Err()
}
