package rounds

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"space-adventure-service/internal/domain"
)

// CipherLogic assigns each symbol a distinct digit, shows two example rows and asks for the
// digits of a shuffled question row.
type CipherLogic struct{}

// cipherExamples is the number of example rows shown.
const cipherExamples = 2

func (CipherLogic) Kind() domain.GameKind { return domain.KindCipherLogic }

func (CipherLogic) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		Penalize:     true,
		AdvanceDelay: 2 * time.Second,
		ExitDelay:    3 * time.Second,
		Messages: Messages{
			Success:  "Müthişsin! Doğru cevap.",
			Failure:  "Dikkatli bak! Hangi karakter hangi sayıydı?",
			GameOver: "Oyun bitti. Tekrar deneyelim mi?",
			Score:    "Toplam %d puan topladın.",
		},
	}
}

// CipherSymbols is the symbol count at a level.
func CipherSymbols(level int) int {
	if level < 4 {
		return 3
	}
	return 4
}

func (CipherLogic) Generate(req Request) domain.Round {
	lvl := level(req)
	rnd := rng(req)
	n := CipherSymbols(lvl)
	symbols := append([]domain.ContentItem(nil), atLeast(req.Pool, n)[:n]...)

	digits := make(map[string]int, n)
	for i, d := range rnd.Perm(9)[:n] {
		digits[symbols[i].ID] = d + 1
	}

	row := func() domain.CipherRow {
		items := append([]domain.ContentItem(nil), symbols...)
		shuffle(rnd, items)
		r := domain.CipherRow{Symbols: items, Digits: make([]int, len(items))}
		for i, item := range items {
			r.Digits[i] = digits[item.ID]
		}
		return r
	}
	examples := make([]domain.CipherRow, cipherExamples)
	for i := range examples {
		examples[i] = row()
	}
	question := row()

	var answer strings.Builder
	for _, d := range question.Digits {
		answer.WriteString(strconv.Itoa(d))
	}

	return domain.Round{
		Kind:   domain.KindCipherLogic,
		Level:  lvl,
		Prompt: fmt.Sprintf("Seviye %d: Karakterlerin yerini takip et! Sayıları bul.", lvl),
		Answer: answer.String(),
		Entry:  domain.EntryDigits,
		Aux: domain.Aux{Cipher: &domain.Cipher{
			Examples: examples,
			Question: question.Symbols,
			Digits:   digits,
		}},
	}
}
