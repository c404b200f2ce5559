package forum

import (
	"strings"
	"unicode"

	goaway "github.com/TwiN/go-away"
)

// ProfanityFilter rejects comment text containing any listed word.
type ProfanityFilter struct {
	words map[string]struct{}
}

// NewProfanityFilter builds a filter from the go-away base dictionary plus any
// hand-added words.
func NewProfanityFilter(extraWords ...string) *ProfanityFilter {
	words := make(map[string]struct{}, len(goaway.DefaultProfanities)+len(extraWords))
	for _, w := range goaway.DefaultProfanities {
		words[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extraWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words[w] = struct{}{}
		}
	}
	return &ProfanityFilter{words: words}
}

// ContainsProfanity splits the text on whitespace and checks each token,
// lowercased and stripped of surrounding punctuation, against the dictionary.
// Any single hit condemns the whole text. Matching is whole-token only, so
// innocent words that merely contain a listed word pass.
func (f *ProfanityFilter) ContainsProfanity(text string) bool {
	for _, token := range strings.Fields(text) {
		normalized := strings.ToLower(strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if normalized == "" {
			continue
		}
		if _, hit := f.words[normalized]; hit {
			return true
		}
	}
	return false
}
