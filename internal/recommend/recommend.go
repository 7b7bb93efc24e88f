package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moodreel/backend/internal/index"
)

// ErrInvalidRequest is returned for a non-positive result count.
var ErrInvalidRequest = errors.New("invalid request")

// Recommendation is one ranked movie as shown to the caller.
type Recommendation struct {
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	Score  float64 `json:"score"`
}

// Ranker scores catalog movies against free text. It only reads the index,
// so one Ranker may serve concurrent calls.
type Ranker struct {
	idx *index.Index
}

func NewRanker(idx *index.Index) *Ranker {
	return &Ranker{idx: idx}
}

// Index returns the index the ranker reads from.
func (r *Ranker) Index() *index.Index {
	return r.idx
}

// Recommend returns up to n movies ranked by similarity to query. A blank
// query yields an empty result for any n. Equal scores keep catalog order,
// so a query with no indexed terms returns the first n movies.
func (r *Ranker) Recommend(query string, n int) ([]Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Recommendation{}, nil
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidRequest, n)
	}

	results := r.idx.Store().Search(query, n)
	recs := make([]Recommendation, len(results))
	for i, res := range results {
		movie := r.idx.Movie(res.Document.ID)
		recs[i] = Recommendation{
			Title:  movie.Title,
			Genres: movie.Genres,
			Score:  res.Score,
		}
	}
	return recs, nil
}
