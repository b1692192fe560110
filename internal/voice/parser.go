package voice

import (
	"strconv"
	"strings"
	"unicode"

	"space-adventure-service/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var numberWords = map[string]int{
	"bir":  1,
	"iki":  2,
	"üç":   3,
	"dört": 4,
	"1":    1,
	"2":    2,
	"3":    3,
	"4":    4,
}

// Fold lowercases text with Turkish casing rules, so "İKİ" becomes "iki" and "DÖRT" becomes "dört".
func Fold(text string) string {
	return cases.Lower(language.Turkish).String(text)
}

// ParseNumber returns the value of the first word that is a number word or digit from one to four.
func ParseNumber(text string) (int, bool) {
	for _, w := range strings.Fields(Fold(text)) {
		w = strings.TrimFunc(w, func(r rune) bool { return unicode.IsPunct(r) })
		if n, ok := numberWords[w]; ok {
			return n, true
		}
	}
	return 0, false
}

// MatchKeyword returns the first keyword contained in text, compared case-insensitively.
func MatchKeyword(text string, keywords []string) (string, bool) {
	folded := Fold(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(folded, Fold(k)) {
			return k, true
		}
	}
	return "", false
}

// Parse maps recognized speech to a candidate answer for the round. ok is false when nothing
// matched confidently and the caller should ask again.
func Parse(text string, r domain.Round) (string, bool) {
	switch r.Voice {
	case domain.VoiceNumeric:
		n, ok := ParseNumber(text)
		if !ok {
			return "", false
		}
		return strconv.Itoa(n), true
	case domain.VoiceKeywords:
		return MatchKeyword(text, r.Keywords)
	}
	return "", false
}
