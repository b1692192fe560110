package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"space-adventure-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Gallery is an in-process, append-only character list.
type Gallery struct {
	mu         sync.RWMutex
	characters []domain.Character
}

func NewGallery(seed ...domain.Character) *Gallery {
	return &Gallery{characters: append([]domain.Character(nil), seed...)}
}

func (g *Gallery) Append(_ context.Context, c domain.Character) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.characters = append(g.characters, c)
	return nil
}

func (g *Gallery) List(_ context.Context) ([]domain.Character, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Character(nil), g.characters...), nil
}

// GalleryStore is the backing store behind a cache (e.g., Postgres).
type GalleryStore interface {
	Append(ctx context.Context, c domain.Character) error
	List(ctx context.Context) ([]domain.Character, error)
}

// GalleryCache keeps the character list in memory with a TTL to avoid repeated DB hits.
// Appends go to the store and drop the cached list.
type GalleryCache struct {
	store GalleryStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Character
	loaded    bool
	expiresAt time.Time
	gen       uint64
}

func NewGalleryCache(store GalleryStore, ttl time.Duration) *GalleryCache {
	return &GalleryCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *GalleryCache) Append(ctx context.Context, ch domain.Character) error {
	if err := c.store.Append(ctx, ch); err != nil {
		return err
	}
	c.mu.Lock()
	c.cached = nil
	c.loaded = false
	c.gen++
	c.mu.Unlock()
	return nil
}

func (c *GalleryCache) List(ctx context.Context) ([]domain.Character, error) {
	if chars, ok := c.fresh(); ok {
		return chars, nil
	}

	result, err, _ := c.sf.Do("gallery", func() (interface{}, error) {
		if chars, ok := c.fresh(); ok {
			return chars, nil
		}
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		chars, err := c.store.List(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.cached = chars
			c.loaded = true
			c.expiresAt = c.clock().Add(c.ttlWithJitter())
		}
		c.mu.Unlock()
		return chars, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Character(nil), result.([]domain.Character)...), nil
}

func (c *GalleryCache) fresh() ([]domain.Character, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || !c.expiresAt.After(c.clock()) {
		return nil, false
	}
	return append([]domain.Character(nil), c.cached...), true
}

func (c *GalleryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
