package rounds

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"space-adventure-service/internal/domain"
)

// FindDifferent shows copies of one item and a single different item.
type FindDifferent struct{}

func (FindDifferent) Kind() domain.GameKind { return domain.KindFindDifferent }

func (FindDifferent) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		Penalize:     true,
		AdvanceDelay: 1500 * time.Millisecond,
		ExitDelay:    3 * time.Second,
		Messages: Messages{
			Success:  "Harika! Doğru bildin. Devam edelim!",
			Failure:  "Yanlış oldu. Devam edebilirsin!",
			GameOver: "Oyun bitti. Tekrar denemek ister misin?",
			Score:    "Toplam %d puan topladın.",
		},
	}
}

// FindDifferentOptions is the option count at a level.
func FindDifferentOptions(level int) int {
	if level < 2 {
		return 3
	}
	return 4
}

func (FindDifferent) Generate(req Request) domain.Round {
	lvl := level(req)
	options, answer := oddOneOut(rng(req), req.Pool, FindDifferentOptions(lvl), 0)
	return domain.Round{
		Kind:    domain.KindFindDifferent,
		Level:   lvl,
		Prompt:  fmt.Sprintf("Seviye %d: Hangisi diğerlerinden farklı?", lvl),
		Options: options,
		Answer:  answer,
		Entry:   domain.EntryChoice,
	}
}

// NumberedDifferent is the voice variant: four numbered options, answered by saying the number.
type NumberedDifferent struct{}

// NumberedOptions is fixed: the spoken number table covers one to four.
const NumberedOptions = 4

func (NumberedDifferent) Kind() domain.GameKind { return domain.KindNumberedDifferent }

func (NumberedDifferent) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		Penalize:     true,
		AdvanceDelay: 2 * time.Second,
		ExitDelay:    3 * time.Second,
		Messages: Messages{
			Success:  "Harika! Doğru bildin. Bir sonraki seviyeye geçiyoruz!",
			Failure:  "Yanlış oldu ama pes etme! Tekrar dene.",
			Clarify:  "Sayıyı tam duyamadım. Bir, iki, üç veya dört demelisin.",
			GameOver: "Oyun bitti ama harika denedin! Tekrar oynamak ister misin?",
			Score:    "Toplam %d puan topladın.",
		},
	}
}

func (NumberedDifferent) Generate(req Request) domain.Round {
	lvl := level(req)
	options, answer := oddOneOut(rng(req), req.Pool, NumberedOptions, 1)
	return domain.Round{
		Kind:    domain.KindNumberedDifferent,
		Level:   lvl,
		Prompt:  fmt.Sprintf("Seviye %d: Farklı olan resmin numarası kaç?", lvl),
		Options: options,
		Answer:  answer,
		Entry:   domain.EntryChoice,
		Voice:   domain.VoiceNumeric,
	}
}

// oddOneOut places one different item at a uniformly random position among n copies of a common
// item. Option ids are positions counted from base.
func oddOneOut(rnd *rand.Rand, pool domain.ContentPool, n, base int) ([]domain.Option, string) {
	pool = atLeast(pool, 2)
	common := pool[rnd.Intn(len(pool))]
	different := drawOther(rnd, pool, common.ID)
	pos := rnd.Intn(n)
	options := make([]domain.Option, n)
	for i := range options {
		item := common
		if i == pos {
			item = different
		}
		options[i] = domain.Option{ID: strconv.Itoa(base + i), Item: item}
	}
	return options, strconv.Itoa(base + pos)
}
