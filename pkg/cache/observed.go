package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/bendchain/pkg/observability"
)

// observed reports every lookup and write to the registered cache hooks.
type observed struct {
	Cache
}

// WithHooks wraps c so that hits, misses and writes are reported to
// observability.Cache(). The key type is the key's first segment
// ("eval", "artifact", ...).
func WithHooks(c Cache) Cache {
	return observed{Cache: c}
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

// keyType extracts the kind segment of a key, skipping any scope prefix
// that ends in ':'.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	for i := len(parts) - 2; i >= 0; i-- {
		switch parts[i] {
		case "eval", "artifact":
			return parts[i]
		}
	}
	return parts[0]
}
