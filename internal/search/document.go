package search

import (
	"strings"
	"unicode"
)

// Document represents one indexed item. ID is its position in the store.
type Document struct {
	ID      int
	Content string
	Vector  SparseVector
}

// Tokenize lowercases text, splits it on non-alphanumeric runes and drops
// empty tokens. Stop words are kept; the vectorizer removes them.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	}
	fields := strings.FieldsFunc(text, f)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		tokens = append(tokens, strings.ToLower(field))
	}
	return tokens
}

// Analyze tokenizes text and removes stop words.
func Analyze(text string) []string {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, token := range tokens {
		if !IsStopWord(token) {
			kept = append(kept, token)
		}
	}
	return kept
}
