package app

import (
	"strings"

	"github.com/ajglobal/staffverify/internal/cache"
)

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		URL:     strings.TrimSpace(c.Redis.URL),
		Timeout: c.Redis.Timeout,
	}
}
