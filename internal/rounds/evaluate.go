package rounds

import (
	"strings"
	"unicode"

	"space-adventure-service/internal/domain"
)

// Evaluate compares a submitted identity with the round's correct answer.
// Digit entry rounds ignore whitespace in the submission.
func Evaluate(r domain.Round, submitted string) domain.Verdict {
	if r.Entry == domain.EntryDigits {
		submitted = strings.Map(func(c rune) rune {
			if unicode.IsSpace(c) {
				return -1
			}
			return c
		}, submitted)
	}
	if submitted != "" && submitted == r.Answer {
		return domain.Correct
	}
	return domain.Incorrect
}
