package rounds

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"space-adventure-service/internal/domain"
)

// Pairs is a flip-two-cards matching game. An answer is a card index.
type Pairs struct{}

func (Pairs) Kind() domain.GameKind { return domain.KindPairs }

func (Pairs) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		MaxLevel:     3,
		AdvanceDelay: 1500 * time.Millisecond,
		ExitDelay:    3 * time.Second,
		ConcealDelay: time.Second,
		Messages: Messages{
			Success:  "Harika! Bu bölüm bitti.",
			Miss:     "Olmadı, tekrar dene.",
			GameOver: "Oyun bitti.",
			Complete: "Tebrikler! Tüm hafıza oyununu bitirdin!",
			Score:    "Toplam %d bölüm tamamladın.",
		},
	}
}

// PairCount is the number of pairs at a level.
func PairCount(level int) int {
	switch {
	case level <= 1:
		return 3
	case level == 2:
		return 6
	default:
		return 8
	}
}

func (Pairs) Generate(req Request) domain.Round {
	lvl := level(req)
	rnd := rng(req)
	items := sample(rnd, req.Pool, PairCount(lvl))

	deck := make([]domain.ContentItem, 0, 2*len(items))
	for _, item := range items {
		deck = append(deck, item, item)
	}
	shuffle(rnd, deck)

	cards := make([]domain.Card, len(deck))
	options := make([]domain.Option, len(deck))
	for i, item := range deck {
		cards[i] = domain.Card{Index: i, ItemID: item.ID, Item: item}
		options[i] = domain.Option{ID: strconv.Itoa(i), Item: item}
	}

	return domain.Round{
		Kind:    domain.KindPairs,
		Level:   lvl,
		Prompt:  fmt.Sprintf("Seviye %d: Toplam %d çift var. Hepsini bul!", lvl, len(items)),
		Options: options,
		Entry:   domain.EntryCards,
		Aux:     domain.Aux{Cards: cards},
	}
}

func (Pairs) Begin(domain.Round) domain.Progress {
	return domain.Progress{Stage: domain.StageAnswer}
}

// Step flips one card. At most two cards are face up; a pair with equal item ids moves to matched.
func (Pairs) Step(r domain.Round, p domain.Progress, answer string) StepResult {
	idx, err := strconv.Atoi(answer)
	cards := r.Aux.Cards
	if err != nil || idx < 0 || idx >= len(cards) ||
		len(p.Flipped) >= 2 || slices.Contains(p.Flipped, idx) || slices.Contains(p.Matched, idx) {
		return StepResult{Progress: p, Outcome: Ignored}
	}

	next := p
	next.Flipped = append(slices.Clone(p.Flipped), idx)
	if len(next.Flipped) < 2 {
		return StepResult{Progress: next, Outcome: Partial}
	}

	a, b := next.Flipped[0], next.Flipped[1]
	if cards[a].ItemID != cards[b].ItemID {
		return StepResult{Progress: next, Outcome: Miss}
	}
	next.Matched = append(slices.Clone(p.Matched), a, b)
	next.Flipped = nil
	if len(next.Matched) == len(cards) {
		return StepResult{Progress: next, Outcome: Solved}
	}
	return StepResult{Progress: next, Outcome: Partial, Say: "Süper! Eşleşti."}
}

// Conceal turns mismatched cards face down again.
func (Pairs) Conceal(p domain.Progress) domain.Progress {
	p.Flipped = nil
	return p
}
