package content

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"space-adventure-service/internal/domain"
)

type stubGallery struct {
	characters []domain.Character
	err        error
	calls      atomic.Int32
}

func (s *stubGallery) List(ctx context.Context) ([]domain.Character, error) {
	s.calls.Add(1)
	return s.characters, s.err
}

func TestBuildPoolEmptyFallsBackToDefaults(t *testing.T) {
	pool := BuildPool(nil)
	if len(pool) != len(DefaultIcons) {
		t.Fatalf("expected %d items, got %d", len(DefaultIcons), len(pool))
	}
	if len(pool) < 8 {
		t.Fatalf("default set must hold at least 8 items, got %d", len(pool))
	}
}

func TestBuildPoolPutsCharactersFirstInOrder(t *testing.T) {
	chars := []domain.Character{
		{ID: "a", ImageURL: "data:image/png;base64,AAA"},
		{ID: "b", ImageURL: "data:image/png;base64,BBB"},
	}
	pool := BuildPool(chars)
	if len(pool) != len(DefaultIcons)+2 {
		t.Fatalf("unexpected pool size %d", len(pool))
	}
	if pool[0].ID != "char:a" || pool[1].ID != "char:b" {
		t.Fatalf("characters out of order: %s, %s", pool[0].ID, pool[1].ID)
	}
	if pool[0].Visual.Kind != domain.VisualImage || pool[0].Visual.Ref != chars[0].ImageURL {
		t.Fatalf("character not mapped to image visual: %+v", pool[0].Visual)
	}
	if pool[2].ID != DefaultIcons[0].ID {
		t.Fatalf("defaults should follow characters, got %s", pool[2].ID)
	}
}

func TestProviderCachesUntilInvalidated(t *testing.T) {
	gallery := &stubGallery{}
	p := NewProvider(gallery)
	ctx := context.Background()

	if _, err := p.Pool(ctx); err != nil {
		t.Fatalf("pool: %v", err)
	}
	if _, err := p.Pool(ctx); err != nil {
		t.Fatalf("pool: %v", err)
	}
	if got := gallery.calls.Load(); got != 1 {
		t.Fatalf("expected one gallery read, got %d", got)
	}

	gallery.characters = []domain.Character{{ID: "new", ImageURL: "x"}}
	p.Invalidate()
	pool, err := p.Pool(ctx)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool[0].ID != "char:new" {
		t.Fatalf("expected rebuilt pool to include new character, got %s", pool[0].ID)
	}
	if got := gallery.calls.Load(); got != 2 {
		t.Fatalf("expected rebuild after invalidate, got %d reads", got)
	}
}

func TestProviderSurfacesGalleryError(t *testing.T) {
	p := NewProvider(&stubGallery{err: errors.New("boom")})
	if _, err := p.Pool(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
