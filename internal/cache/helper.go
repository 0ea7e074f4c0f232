package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"filmrate/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Key prefixes and TTLs for the catalog cache. Merged lists are cached
// pre-shuffle so trending stays fresh per request.
const (
	TrendingKey     = "catalog:trending"
	TopRatedKey     = "catalog:top_rated"
	SearchKeyPrefix = "catalog:search:"
	DetailKeyPrefix = "catalog:detail:"

	ListTTL   = 5 * time.Minute
	DetailTTL = 15 * time.Minute
)

// SearchKey returns the cache key for a search query.
func SearchKey(query string) string {
	return SearchKeyPrefix + query
}

// DetailKey returns the cache key for a detail lookup.
func DetailKey(mediaType string, id int64) string {
	return DetailKeyPrefix + mediaType + ":" + strconv.FormatInt(id, 10)
}

// GetJSON attempts to get the key and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, client *redis.Client, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, client *redis.Client, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on miss it calls fetch (which must populate dest)
// and stores the result with ttl, best-effort. Cache failures degrade to a
// direct fetch.
func Aside(ctx context.Context, client *redis.Client, key string, dest any, ttl time.Duration, fetch func() error) error {
	prefix := keyPrefix(key)
	found, err := GetJSON(ctx, client, key, dest)
	if err == nil && found {
		observability.CacheHits.WithLabelValues(prefix).Inc()
		return nil
	}
	observability.CacheMisses.WithLabelValues(prefix).Inc()

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, client, key, dest, ttl)
	return nil
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		if j := strings.IndexByte(key[i+1:], ':'); j > 0 {
			return key[:i+1+j]
		}
		return key
	}
	return key
}
