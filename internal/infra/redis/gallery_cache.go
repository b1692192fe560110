package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"space-adventure-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// GalleryStore is the source of truth for characters (e.g., Postgres).
type GalleryStore interface {
	Append(ctx context.Context, c domain.Character) error
	List(ctx context.Context) ([]domain.Character, error)
}

// GalleryCache keeps the character list in Redis and falls back to the store on a miss.
// The list is stored as: RPUSH gallery:characters {json} ... plus a marker key, both with a TTL.
// The marker distinguishes an empty gallery from a cold cache.
type GalleryCache struct {
	client *redis.Client
	store  GalleryStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand

	// gen is bumped by every Append. A fill that started under an older gen is not written back.
	mu  sync.Mutex
	gen uint64
}

func NewGalleryCache(client *redis.Client, store GalleryStore, ttl time.Duration) *GalleryCache {
	return &GalleryCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	listKey   = "gallery:characters"
	markerKey = "gallery:characters:loaded"
)

// Append writes through to the store and drops the cached list.
func (c *GalleryCache) Append(ctx context.Context, ch domain.Character) error {
	if err := c.store.Append(ctx, ch); err != nil {
		return err
	}
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	if err := c.client.Del(ctx, markerKey, listKey).Err(); err != nil {
		return fmt.Errorf("drop gallery cache: %w", err)
	}
	return nil
}

func (c *GalleryCache) List(ctx context.Context) ([]domain.Character, error) {
	if chars, ok := c.cached(ctx); ok {
		return chars, nil
	}

	result, err, _ := c.sf.Do(listKey, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if chars, ok := c.cached(ctx); ok {
			return chars, nil
		}

		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		chars, err := c.store.List(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return chars, nil
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.TxPipeline()
		pipe.Del(ctx, listKey)
		for _, ch := range chars {
			raw, err := json.Marshal(ch)
			if err != nil {
				return nil, fmt.Errorf("marshal character: %w", err)
			}
			pipe.RPush(ctx, listKey, raw)
		}
		pipe.Set(ctx, markerKey, len(chars), ttl)
		if ttl > 0 && len(chars) > 0 {
			pipe.Expire(ctx, listKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return chars, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Character), nil
}

func (c *GalleryCache) cached(ctx context.Context) ([]domain.Character, bool) {
	if n, err := c.client.Exists(ctx, markerKey).Result(); err != nil || n == 0 {
		return nil, false
	}
	raws, err := c.client.LRange(ctx, listKey, 0, -1).Result()
	if err != nil {
		return nil, false
	}
	chars := make([]domain.Character, 0, len(raws))
	for _, raw := range raws {
		var ch domain.Character
		if err := json.Unmarshal([]byte(raw), &ch); err != nil {
			return nil, false
		}
		chars = append(chars, ch)
	}
	return chars, true
}

func (c *GalleryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
