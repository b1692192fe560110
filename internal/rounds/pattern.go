package rounds

import (
	"fmt"
	"time"

	"space-adventure-service/internal/domain"
)

// Pattern shows a repeating unit twice and asks for the item that continues it.
// The continuation is always the first item of the unit.
type Pattern struct{}

func (Pattern) Kind() domain.GameKind { return domain.KindPattern }

func (Pattern) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		Penalize:     true,
		AdvanceDelay: 1500 * time.Millisecond,
		ExitDelay:    2 * time.Second,
		Messages: Messages{
			Success:  "Aferin! Doğru.",
			Failure:  "Yanlış oldu. Tekrar dene.",
			GameOver: "Oyun bitti.",
			Score:    "Toplam %d puan topladın.",
		},
	}
}

// PatternUnit is the length of the repeating unit at a level.
func PatternUnit(level int) int {
	if level < 5 {
		return 2
	}
	return 3
}

// PatternOptions is the option count at a level.
func PatternOptions(level int) int {
	if level < 3 {
		return 3
	}
	return 4
}

func (Pattern) Generate(req Request) domain.Round {
	lvl := level(req)
	rnd := rng(req)
	pool := atLeast(req.Pool, PatternUnit(lvl))

	unit := []domain.ContentItem{pool[rnd.Intn(len(pool))]}
	for len(unit) < PatternUnit(lvl) {
		ids := make([]string, len(unit))
		for i, item := range unit {
			ids[i] = item.ID
		}
		unit = append(unit, drawOther(rnd, pool, ids...))
	}
	sequence := append(append([]domain.ContentItem(nil), unit...), unit...)
	answer := unit[0]

	items := []domain.ContentItem{answer}
	for len(items) < PatternOptions(lvl) {
		// decoys only need to differ from the answer
		items = append(items, drawOther(rnd, pool, answer.ID))
	}
	shuffle(rnd, items)
	options := positional(items)
	var answerID string
	for _, o := range options {
		if o.Item.ID == answer.ID {
			answerID = o.ID
		}
	}

	return domain.Round{
		Kind:    domain.KindPattern,
		Level:   lvl,
		Prompt:  fmt.Sprintf("Seviye %d: Soru işareti yerine ne gelmeli?", lvl),
		Options: options,
		Answer:  answerID,
		Entry:   domain.EntryChoice,
		Aux:     domain.Aux{Sequence: sequence},
	}
}
