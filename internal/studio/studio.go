package studio

import (
	"sync"

	"github.com/google/uuid"

	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
)

// Studio keeps the open workshops by id.
type Studio struct {
	artist  *Artist
	gallery CharacterStore
	log     *logger.Logger

	mu        sync.RWMutex
	workshops map[string]*Workshop
}

func New(artist *Artist, gallery CharacterStore, log *logger.Logger) *Studio {
	if log == nil {
		log = logger.Nop()
	}
	return &Studio{
		artist:    artist,
		gallery:   gallery,
		log:       log.With("service", "studio.Studio"),
		workshops: make(map[string]*Workshop),
	}
}

func (s *Studio) Open(kind Kind) (*Workshop, error) {
	w, err := newWorkshop(uuid.NewString(), kind, s.artist, s.gallery, s.log)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.workshops[w.id] = w
	s.mu.Unlock()
	s.log.Debug("workshop opened", "workshop", w.id, "kind", kind)
	return w, nil
}

func (s *Studio) Get(id string) (*Workshop, error) {
	s.mu.RLock()
	w, ok := s.workshops[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrWorkshopNotFound
	}
	return w, nil
}

// Close forgets the workshop. A generation still running for it is discarded when it finishes.
func (s *Studio) Close(id string) error {
	s.mu.Lock()
	w, ok := s.workshops[id]
	delete(s.workshops, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrWorkshopNotFound
	}
	w.close()
	return nil
}

func (s *Studio) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workshops)
}
