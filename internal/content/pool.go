package content

import (
	"context"
	"fmt"
	"sync"

	"space-adventure-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefaultIcons is the fixed icon set appended after user characters.
// It holds enough items for the largest draw any game makes.
var DefaultIcons = []domain.ContentItem{
	icon("rocket"),
	icon("moon"),
	icon("sun"),
	icon("star"),
	icon("heart"),
	icon("cloud"),
	icon("zap"),
	icon("disc"),
	icon("cpu"),
	icon("globe"),
}

func icon(name string) domain.ContentItem {
	return domain.ContentItem{ID: name, Visual: domain.Visual{Kind: domain.VisualIcon, Ref: name}}
}

// Defaults returns a copy of DefaultIcons as a pool.
func Defaults() domain.ContentPool {
	return append(domain.ContentPool(nil), DefaultIcons...)
}

// BuildPool maps characters to image items ahead of the default icons, keeping order.
func BuildPool(characters []domain.Character) domain.ContentPool {
	pool := make(domain.ContentPool, 0, len(characters)+len(DefaultIcons))
	for _, c := range characters {
		pool = append(pool, domain.ContentItem{
			ID:     "char:" + c.ID,
			Visual: domain.Visual{Kind: domain.VisualImage, Ref: c.ImageURL},
		})
	}
	return append(pool, DefaultIcons...)
}

// CharacterLister is the read side of the character gallery.
type CharacterLister interface {
	List(ctx context.Context) ([]domain.Character, error)
}

// Provider caches the pool built from the gallery until Invalidate is called.
type Provider struct {
	gallery CharacterLister
	group   singleflight.Group

	mu      sync.RWMutex
	pool    domain.ContentPool
	version uint64
	valid   bool
}

func NewProvider(gallery CharacterLister) *Provider {
	return &Provider{gallery: gallery}
}

// Pool returns the current pool. Callers must treat it as read-only.
func (p *Provider) Pool(ctx context.Context) (domain.ContentPool, error) {
	p.mu.RLock()
	if p.valid {
		pool := p.pool
		p.mu.RUnlock()
		return pool, nil
	}
	version := p.version
	p.mu.RUnlock()

	v, err, _ := p.group.Do(fmt.Sprint(version), func() (any, error) {
		characters, err := p.gallery.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list characters: %w", err)
		}
		pool := BuildPool(characters)
		p.mu.Lock()
		if p.version == version {
			p.pool = pool
			p.valid = true
		}
		p.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.ContentPool), nil
}

// Invalidate drops the cached pool; the next Pool call rebuilds it from the gallery.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.version++
	p.valid = false
	p.pool = nil
	p.mu.Unlock()
}
