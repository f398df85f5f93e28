package usecase

import (
	"context"
	"fmt"
	"time"
)

// ListingCache caches list and search results. Implementations must treat a
// missing backend as a permanent miss.
type ListingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	DeleteByPattern(ctx context.Context, pattern string) error
}

// InvalidateListingCache retires every cached list and search result. Anything
// that writes experts outside the directory service calls it too.
func InvalidateListingCache(ctx context.Context, cache ListingCache) error {
	if cache == nil {
		return nil
	}
	gen, err := cache.Incr(ctx, listingsGenerationKey)
	if err != nil {
		if delErr := cache.DeleteByPattern(ctx, allListingsPattern); delErr != nil {
			return fmt.Errorf("bump listings generation: %w", err)
		}
		return nil
	}
	if gen > 0 {
		return cache.DeleteByPattern(ctx, generationPattern(gen-1))
	}
	return nil
}

// listingsGeneration returns the current generation. ok is false when the
// cache cannot be trusted for this request.
func (u *Directory) listingsGeneration(ctx context.Context) (gen int64, ok bool) {
	if u.cache == nil {
		return 0, false
	}
	if _, err := u.cache.GetJSON(ctx, listingsGenerationKey, &gen); err != nil {
		u.recordCache("error")
		if u.logger != nil {
			u.logger.Printf("[Directory] cache generation read failed | error=%v", err)
		}
		return 0, false
	}
	return gen, true
}

func (u *Directory) cacheGet(ctx context.Context, key string, out any) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.GetJSON(ctx, key, out)
	switch {
	case err != nil:
		u.recordCache("error")
		if u.logger != nil {
			u.logger.Printf("[Directory] cache read failed | key=%s error=%v", key, err)
		}
		return false
	case hit:
		u.recordCache("hit")
		return true
	default:
		u.recordCache("miss")
		return false
	}
}

func (u *Directory) cacheSet(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, 0); err != nil && u.logger != nil {
		u.logger.Printf("[Directory] cache write failed | key=%s error=%v", key, err)
	}
}

func (u *Directory) invalidateListings(ctx context.Context) {
	if err := InvalidateListingCache(ctx, u.cache); err != nil && u.logger != nil {
		u.logger.Printf("[Directory] cache invalidation failed | error=%v", err)
	}
}

func (u *Directory) recordCache(result string) {
	if u.metrics != nil {
		u.metrics.CacheLookup(result)
	}
}
