package imaging

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache stores encoded renditions.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// CacheKey identifies a rendition of ref at the given size and fit.
func CacheKey(ref string, width, height int, fit Fit) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%s|%d|%d|%s", ref, width, height, fit))
	return fmt.Sprintf("venues:image:%016x", sum)
}
