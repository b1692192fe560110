package rounds

import (
	"time"

	"space-adventure-service/internal/domain"
)

type story struct {
	text     string
	question string
	keywords []string
	success  string
}

var stories = []story{
	{
		text:     "Küçük roket Mavi Gezegene indi. Orada sarı bir robotla tanıştı. Birlikte elma yediler.",
		question: "Roket hangi renk gezegene indi?",
		keywords: []string{"mavi"},
		success:  "Doğru! Mavi gezegene indi.",
	},
	{
		text:     "Uzaylı Zuzu, sabah uyanınca 3 tane yıldız topladı. Sonra onları cebine koydu.",
		question: "Zuzu kaç tane yıldız topladı?",
		keywords: []string{"üç", "3"},
		success:  "Harika! Tam 3 tane.",
	},
	{
		text:     "Kırmızı roket çok hızlı uçuyordu. Aniden karşısına mor bir uydu çıktı. Roket fren yaptı.",
		question: "Roketin karşısına ne çıktı?",
		keywords: []string{"uydu", "mor"},
		success:  "Süper! Mor bir uydu çıktı.",
	},
}

// Story reads a short story, then asks a question answered by voice keywords.
type Story struct{}

func (Story) Kind() domain.GameKind { return domain.KindStory }

func (Story) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		MaxLevel:     len(stories),
		AdvanceDelay: 3 * time.Second,
		ExitDelay:    3 * time.Second,
		Messages: Messages{
			Failure:  "Tam olmadı. Biraz düşün, tekrar söyle.",
			Clarify:  "Tam olmadı. Biraz düşün, tekrar söyle.",
			GameOver: "Oyun bitti.",
			Complete: "Tebrikler! Tüm hikayeleri bitirdin!",
			Score:    "%d soruyu doğru cevapladın.",
		},
	}
}

func (Story) Generate(req Request) domain.Round {
	lvl := level(req)
	s := stories[(lvl-1)%len(stories)]
	intro := s.text + " Dinledin mi?"
	if lvl > 1 {
		intro = "Sıradaki hikaye: " + s.text
	}
	return domain.Round{
		Kind:     domain.KindStory,
		Level:    lvl,
		Intro:    intro,
		Prompt:   "Sorum şu: " + s.question,
		Answer:   s.keywords[0],
		Entry:    domain.EntryKeywords,
		Voice:    domain.VoiceKeywords,
		Keywords: s.keywords,
		Success:  s.success,
		Aux:      domain.Aux{Story: s.text, Question: s.question},
	}
}

func (Story) Begin(domain.Round) domain.Progress {
	return domain.Progress{Stage: domain.StageStory}
}

func (Story) Step(r domain.Round, p domain.Progress, answer string) StepResult {
	if p.Stage != domain.StageAnswer {
		return StepResult{Progress: p, Outcome: Ignored}
	}
	for _, k := range r.Keywords {
		if answer == k {
			return StepResult{Progress: p, Outcome: Solved}
		}
	}
	return StepResult{Progress: p, Outcome: Wrong}
}
