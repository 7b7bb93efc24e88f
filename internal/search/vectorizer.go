package search

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned by Fit when no document yields a usable term.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words")

// Vectorizer turns text into a vector
type Vectorizer interface {
	Fit(docs []string) error
	Transform(text string) SparseVector
	VocabularySize() int
}

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// with smoothed idf and L2-normalized output.
type TFIDFVectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: make(map[string]int),
	}
}

// Fit analyzes the corpus to build vocabulary and IDF stats. Columns are
// assigned in lexical term order so the model does not depend on map order.
func (v *TFIDFVectorizer) Fit(docs []string) error {
	docCount := float64(len(docs))
	wordDocCounts := make(map[string]int)

	// 1. Count document occurrences
	for _, doc := range docs {
		seenInDoc := make(map[string]bool)
		for _, token := range Analyze(doc) {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
		}
	}
	if len(wordDocCounts) == 0 {
		return ErrEmptyVocabulary
	}

	// 2. Build Vocabulary
	terms := make([]string, 0, len(wordDocCounts))
	for term := range wordDocCounts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocab[term] = i
		// idf = ln((1 + N) / (1 + df)) + 1
		idf[i] = math.Log((1+docCount)/(1+float64(wordDocCounts[term]))) + 1
	}

	v.Vocabulary = vocab
	v.IDF = idf
	return nil
}

// Transform converts text to a unit-length vector based on the learned
// vocabulary. Unknown terms are ignored.
func (v *TFIDFVectorizer) Transform(text string) SparseVector {
	// Calculate Term Frequency (TF)
	tf := make(map[int]float64)
	for _, token := range Analyze(text) {
		if idx, exists := v.Vocabulary[token]; exists {
			tf[idx]++
		}
	}

	// Calculate TF-IDF
	for idx, count := range tf {
		tf[idx] = count * v.IDF[idx]
	}

	return newSparseVector(tf).Normalize()
}

// VocabularySize returns the number of terms learned by Fit.
func (v *TFIDFVectorizer) VocabularySize() int {
	return len(v.Vocabulary)
}
