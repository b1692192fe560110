package rounds

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strconv"
	"time"

	"space-adventure-service/internal/content"
	"space-adventure-service/internal/domain"
)

// maxDraws bounds the random redraws of drawOther before it falls back to a scan.
const maxDraws = 16

// NewSeed returns a seed from crypto/rand, falling back to the clock.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
}

// NewRand returns a source seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// atLeast returns pool if it holds n items, the default icons otherwise.
func atLeast(pool domain.ContentPool, n int) domain.ContentPool {
	if len(pool) >= n {
		return pool
	}
	return content.Defaults()
}

// drawOther picks an item whose id is not in avoid. Random redraws are bounded by maxDraws,
// then the pool is scanned in order, then the default icons.
func drawOther(rnd *rand.Rand, pool domain.ContentPool, avoid ...string) domain.ContentItem {
	excluded := func(item domain.ContentItem) bool {
		for _, id := range avoid {
			if item.ID == id {
				return true
			}
		}
		return false
	}
	if len(pool) > 0 {
		for range maxDraws {
			if item := pool[rnd.Intn(len(pool))]; !excluded(item) {
				return item
			}
		}
		for _, item := range pool {
			if !excluded(item) {
				return item
			}
		}
	}
	for _, item := range content.DefaultIcons {
		if !excluded(item) {
			return item
		}
	}
	return content.DefaultIcons[0]
}

// sample draws n items without replacement.
func sample(rnd *rand.Rand, pool domain.ContentPool, n int) []domain.ContentItem {
	pool = atLeast(pool, n)
	out := make([]domain.ContentItem, 0, n)
	for _, i := range rnd.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func shuffle[T any](rnd *rand.Rand, items []T) {
	rnd.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

// positional turns items into options whose ids are their 0-based positions.
func positional(items []domain.ContentItem) []domain.Option {
	options := make([]domain.Option, len(items))
	for i, item := range items {
		options[i] = domain.Option{ID: strconv.Itoa(i), Item: item}
	}
	return options
}

func level(req Request) int {
	if req.Level < 1 {
		return 1
	}
	return req.Level
}

func rng(req Request) *rand.Rand {
	if req.Rand != nil {
		return req.Rand
	}
	return NewRand(NewSeed())
}
