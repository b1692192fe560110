package rounds

import (
	"strconv"
	"time"

	"space-adventure-service/internal/domain"
)

func shape(name string) domain.ContentItem {
	return domain.ContentItem{ID: name, Visual: domain.Visual{Kind: domain.VisualShape, Ref: name}}
}

func iconItem(name string) domain.ContentItem {
	return domain.ContentItem{ID: name, Visual: domain.Visual{Kind: domain.VisualIcon, Ref: name}}
}

func label(text string) domain.ContentItem {
	return domain.ContentItem{ID: "label:" + text, Visual: domain.Visual{Kind: domain.VisualLabel, Ref: text}}
}

type question struct {
	text    string
	items   []domain.ContentItem
	answer  int
	counted *domain.ContentItem
}

func practiceBank(character *domain.ContentItem) []question {
	first := question{
		text:   "Hangisi diğerlerinden farklı?",
		items:  []domain.ContentItem{shape("square"), shape("square"), shape("circle")},
		answer: 2,
	}
	if character != nil {
		first = question{
			text:   "Hangisi senin yaptığın karakter?",
			items:  []domain.ContentItem{shape("square"), shape("circle"), *character},
			answer: 2,
		}
	}
	star := iconItem("star")
	star.Count = 3
	small, large := shape("circle"), shape("circle")
	small.Size, large.Size = "small", "large"
	two, four := iconItem("heart"), iconItem("heart")
	two.Count, four.Count = 2, 4

	return []question{
		first,
		{text: "Burada kaç tane yıldız var?", items: []domain.ContentItem{label("2"), label("3"), label("4")}, answer: 1, counted: &star},
		{text: "Roketin gölgesi hangisi olabilir?", items: []domain.ContentItem{shape("square"), iconItem("rocket")}, answer: 1},
		{text: "Kare, Üçgen, Kare, Üçgen... Sırada ne var?", items: []domain.ContentItem{shape("square"), shape("triangle")}, answer: 0},
		{text: "Hangisi gökyüzünde olmaz?", items: []domain.ContentItem{iconItem("sun"), shape("square"), iconItem("cloud")}, answer: 1},
		{text: "En büyük şekil hangisi?", items: []domain.ContentItem{small, large}, answer: 1},
		{text: "Hangisi bir ulaşım aracıdır?", items: []domain.ContentItem{iconItem("moon"), iconItem("rocket"), iconItem("star")}, answer: 1},
		{text: "Şekli tamamla: Yarım daire + Yarım daire = ?", items: []domain.ContentItem{shape("circle"), shape("square")}, answer: 0},
		{text: "Hangi grupta daha çok kalp var?", items: []domain.ContentItem{two, four}, answer: 1},
	}
}

// PracticeQuestions is the size of the practice bank.
const PracticeQuestions = 9

// Practice is a fixed question bank asked once each, in an order fixed by the session seed.
// Every answer moves on; only correct ones score.
type Practice struct{}

func (Practice) Kind() domain.GameKind { return domain.KindPractice }

func (Practice) Rules() Rules {
	return Rules{
		OnWrong:      Advance,
		MaxLevel:     PracticeQuestions,
		AdvanceDelay: 1500 * time.Millisecond,
		ExitDelay:    4 * time.Second,
		Messages: Messages{
			Success:  "Harika! Doğru cevap.",
			Failure:  "Yanlış oldu, ama sorun değil.",
			GameOver: "Sınav bitti!",
			Complete: "Sınav bitti!",
			Score:    "%d doğru yaptın.",
		},
	}
}

func (Practice) Generate(req Request) domain.Round {
	lvl := level(req)
	rnd := rng(req)

	var character *domain.ContentItem
	var characters []domain.ContentItem
	for _, item := range req.Pool {
		if item.Visual.Kind == domain.VisualImage {
			characters = append(characters, item)
		}
	}
	if len(characters) > 0 {
		c := characters[rnd.Intn(len(characters))]
		character = &c
	}

	bank := practiceBank(character)
	order := NewRand(req.Seed).Perm(len(bank))
	q := bank[order[(lvl-1)%len(bank)]]

	options := make([]domain.Option, len(q.items))
	for i, item := range q.items {
		options[i] = domain.Option{ID: strconv.Itoa(i + 1), Item: item}
		if item.Visual.Kind == domain.VisualLabel {
			options[i].Label = item.Visual.Ref
		}
	}
	answer := options[q.answer].ID
	shuffle(rnd, options)

	prompt := q.text
	intro := ""
	if lvl == 1 {
		intro = "Sorular hazır. Başlayalım!"
	}
	round := domain.Round{
		Kind:    domain.KindPractice,
		Level:   lvl,
		Intro:   intro,
		Prompt:  prompt,
		Options: options,
		Answer:  answer,
		Entry:   domain.EntryChoice,
	}
	if q.counted != nil {
		round.Aux.Shown = []domain.ContentItem{*q.counted}
	}
	return round
}
