package search

import (
	"sort"
)

// SearchResult holds a matching document and its score
type SearchResult struct {
	Document *Document
	Score    float64
}

// VectorStore holds the indexed documents. It is built once by Build and
// is read-only afterwards, so Search is safe for concurrent use.
type VectorStore struct {
	Documents  []*Document
	Vectorizer Vectorizer
}

func NewVectorStore() *VectorStore {
	return &VectorStore{
		Documents:  make([]*Document, 0),
		Vectorizer: NewTFIDFVectorizer(),
	}
}

// Build trains the vectorizer on contents and indexes one document per
// content string, in order.
func (vs *VectorStore) Build(contents []string) error {
	// 1. Fit the vectorizer
	if err := vs.Vectorizer.Fit(contents); err != nil {
		return err
	}

	// 2. Vectorize all documents
	docs := make([]*Document, len(contents))
	for i, content := range contents {
		docs[i] = &Document{
			ID:      i,
			Content: content,
			Vector:  vs.Vectorizer.Transform(content),
		}
	}
	vs.Documents = docs
	return nil
}

// Len returns the number of indexed documents.
func (vs *VectorStore) Len() int {
	return len(vs.Documents)
}

// Scores returns the similarity of query against every document, indexed
// like Documents. The slice is freshly allocated per call.
func (vs *VectorStore) Scores(query string) []float64 {
	queryVector := vs.Vectorizer.Transform(query)
	scores := make([]float64, len(vs.Documents))
	if queryVector.IsZero() {
		return scores
	}
	for i, doc := range vs.Documents {
		// both sides are unit length
		scores[i] = Dot(queryVector, doc.Vector)
	}
	return scores
}

// Search ranks every document against the query and returns the topK best.
// Equal scores keep document order. Zero-score documents are included.
func (vs *VectorStore) Search(query string, topK int) []SearchResult {
	scores := vs.Scores(query)
	results := make([]SearchResult, len(vs.Documents))
	for i, doc := range vs.Documents {
		results[i] = SearchResult{Document: doc, Score: scores[i]}
	}

	// Sort by descending score
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK >= 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}
