package config

import (
	"strings"
	"time"
)

// CacheConfig configures the Redis response cache in front of the
// clinical read endpoints. Caching is opt-in and also needs a reachable
// Redis; successful writes drop the cached reads of the affected
// resources.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // only safe methods survive normalisation
	TTL          time.Duration
	KeyStrategy  string // route, route_query, method_route, method_route_query
	Prefix       string
	MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", false),
		Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}.normalized()
}

func (c CacheConfig) normalized() CacheConfig {
	for m := range c.Methods {
		if m != "GET" && m != "HEAD" {
			delete(c.Methods, m)
		}
	}
	if len(c.Methods) == 0 {
		c.Methods = map[string]bool{"GET": true}
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
	return c
}

// parseMethods turns "get, head" into {"GET": true, "HEAD": true}.
func parseMethods(s string) map[string]bool {
	out := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out[p] = true
		}
	}
	return out
}
