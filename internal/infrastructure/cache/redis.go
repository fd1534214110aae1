package cache

import (
	"github.com/redis/go-redis/v9"
)

// Open parses a redis:// or rediss:// URL. An empty URL yields a nil client; callers
// treat that as "Redis not configured".
func Open(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
