package extract

import (
	"strings"
	"unicode"
)

const (
	minConceptWords = 1
	maxConceptWords = 4
	minConceptLen   = 3
)

// validConcept is the shared filter for candidate spans from every strategy.
// A span passes when it:
//
//   - has a word count within [minConceptWords, maxConceptWords]
//   - contains no stopword (general set plus the given domain profiles)
//   - is at least minConceptLen characters and not purely numeric
//   - starts and ends with an alphanumeric character
//   - has at most wordCount-1 non-alphanumeric characters, not counting
//     spaces, hyphens, and apostrophes
func validConcept(span string, profiles ...string) bool {
	span = strings.TrimSpace(span)
	if len([]rune(span)) < minConceptLen {
		return false
	}

	words := strings.Fields(span)
	if len(words) < minConceptWords || len(words) > maxConceptWords {
		return false
	}
	for _, w := range words {
		if isStopword(w, profiles...) {
			return false
		}
	}

	runes := []rune(span)
	if !isAlnum(runes[0]) || !isAlnum(runes[len(runes)-1]) {
		return false
	}

	numeric := true
	special := 0
	for _, r := range runes {
		if !unicode.IsDigit(r) && r != ' ' {
			numeric = false
		}
		if !isAlnum(r) && r != ' ' && r != '-' && r != '\'' {
			special++
		}
	}
	if numeric {
		return false
	}
	return special <= len(words)-1
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
