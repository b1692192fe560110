package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"space-adventure-service/internal/domain"
)

// DefaultCharacterName is given to characters saved without a name.
const DefaultCharacterName = "Uzay Dostu"

// GalleryRepository stores characters in creation order. There is no update or removal.
type GalleryRepository interface {
	Append(ctx context.Context, c domain.Character) error
	List(ctx context.Context) ([]domain.Character, error)
}

// PoolInvalidator is notified after the gallery changes.
type PoolInvalidator interface {
	Invalidate()
}

// Gallery is the single writer of the character gallery.
type Gallery struct {
	repo  GalleryRepository
	pools PoolInvalidator
	now   func() time.Time
	mu    sync.Mutex
}

func NewGallery(repo GalleryRepository, pools PoolInvalidator) *Gallery {
	return &Gallery{repo: repo, pools: pools, now: time.Now}
}

// Append fills in id, name, type and creation time, stores the character and invalidates the pool.
func (g *Gallery) Append(ctx context.Context, c domain.Character) (domain.Character, error) {
	if strings.TrimSpace(c.ImageURL) == "" {
		return domain.Character{}, fmt.Errorf("%w: image is required", domain.ErrInvalidCharacter)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if strings.TrimSpace(c.Name) == "" {
		c.Name = DefaultCharacterName
	}
	if c.Type == "" {
		c.Type = domain.CharacterRobot
	}
	c.CreatedAt = g.now().UTC()

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.repo.Append(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("append character: %w", err)
	}
	if g.pools != nil {
		g.pools.Invalidate()
	}
	return c, nil
}

func (g *Gallery) List(ctx context.Context) ([]domain.Character, error) {
	return g.repo.List(ctx)
}

// Get finds a character by id.
func (g *Gallery) Get(ctx context.Context, id string) (domain.Character, error) {
	chars, err := g.repo.List(ctx)
	if err != nil {
		return domain.Character{}, err
	}
	for _, c := range chars {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Character{}, domain.ErrCharacterNotFound
}
