package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// MetadataCachePrefix is the key prefix for cached metadata API responses
	MetadataCachePrefix = "tmdb:"

	// TrendingTTL is how long the trending list stays cached. Trending churns
	// daily, but half-hourly refreshes keep the homepage snappy.
	TrendingTTL = 30 * time.Minute

	// DetailsTTL is how long search/details/credits responses stay cached.
	DetailsTTL = 6 * time.Hour
)

// MetadataCache stores raw JSON payloads from the metadata API keyed by
// request shape. Using an interface enables testing with mocks.
type MetadataCache interface {
	// Get returns the cached payload for a key, or found=false on a miss.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)

	// Set stores a payload under a key with the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// RedisMetadataCache implements MetadataCache using plain Redis string keys.
type RedisMetadataCache struct {
	client *redis.Client
}

// NewMetadataCache creates a MetadataCache backed by Redis.
func NewMetadataCache(client *redis.Client) MetadataCache {
	return &RedisMetadataCache{client: client}
}

func metadataKey(key string) string {
	return MetadataCachePrefix + key
}

// Get fetches a cached payload. Cache errors are returned so callers can
// decide to fall through to the upstream API.
func (c *RedisMetadataCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, metadataKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		log.Printf("[MetaCache] Get FAILED: key=%s err=%v", key, err)
		return nil, false, fmt.Errorf("get cached metadata: %w", err)
	}

	return payload, true, nil
}

// Set stores a payload with TTL.
func (c *RedisMetadataCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, metadataKey(key), payload, ttl).Err()
	if err != nil {
		log.Printf("[MetaCache] Set FAILED: key=%s err=%v", key, err)
		return fmt.Errorf("set cached metadata: %w", err)
	}

	log.Printf("[MetaCache] Set OK: key=%s bytes=%d ttl=%v", key, len(payload), ttl)
	return nil
}
