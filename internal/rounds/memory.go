package rounds

import (
	"fmt"
	"time"

	"space-adventure-service/internal/domain"
)

// Memory shows a set of items, hides them, and asks which one went missing.
type Memory struct{}

func (Memory) Kind() domain.GameKind { return domain.KindMemory }

func (Memory) Rules() Rules {
	return Rules{
		OnWrong:      Regenerate,
		Penalize:     true,
		AdvanceDelay: 2 * time.Second,
		ExitDelay:    3 * time.Second,
		MemorizeFor:  4 * time.Second,
		HideFor:      time.Second,
		Messages: Messages{
			Success:  "Harika hafıza! Bildin.",
			Failure:  "Yanlış cevap. Yeni cisimlerle tekrar dene!",
			GameOver: "Canın kalmadı. Ana menüye dönelim.",
			Score:    "Toplam %d puan topladın.",
		},
	}
}

// MemoryItems is the number of items to memorize at a level.
func MemoryItems(level int) int {
	return min(3+(level-1)/2, 6)
}

func (Memory) Generate(req Request) domain.Round {
	lvl := level(req)
	rnd := rng(req)
	items := sample(rnd, req.Pool, MemoryItems(lvl))
	missing := items[rnd.Intn(len(items))]

	choices := append([]domain.ContentItem(nil), items...)
	shuffle(rnd, choices)
	options := make([]domain.Option, len(choices))
	for i, item := range choices {
		options[i] = domain.Option{ID: item.ID, Item: item}
	}

	return domain.Round{
		Kind:    domain.KindMemory,
		Level:   lvl,
		Intro:   fmt.Sprintf("Bu %d cismi aklında tut!", len(items)),
		Prompt:  "Hangisi kayboldu?",
		Options: options,
		Answer:  missing.ID,
		Entry:   domain.EntryChoice,
		Aux:     domain.Aux{Shown: items},
	}
}

func (Memory) Begin(domain.Round) domain.Progress {
	return domain.Progress{Stage: domain.StageMemorize}
}

func (m Memory) Step(r domain.Round, p domain.Progress, answer string) StepResult {
	if p.Stage != domain.StageAnswer {
		return StepResult{Progress: p, Outcome: Ignored}
	}
	if Evaluate(r, answer) == domain.Correct {
		return StepResult{Progress: p, Outcome: Solved}
	}
	return StepResult{Progress: p, Outcome: Wrong}
}
