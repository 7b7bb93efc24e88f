// Package index builds the immutable similarity index over a movie catalog.
//
// An Index is constructed once at startup and then shared read-only by any
// number of concurrent rankers.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moodreel/backend/internal/catalog"
	"github.com/moodreel/backend/internal/search"
)

// Index pairs the catalog movies with their TF-IDF vectors. Movies[i] is
// described by Store.Documents[i].
type Index struct {
	Source string
	movies []catalog.Movie
	store  *search.VectorStore

	genresOnce sync.Once
	genres     []string
}

// Build indexes the movies of an already loaded catalog.
func Build(cat *catalog.Catalog) (*Index, error) {
	if cat == nil || len(cat.Movies) == 0 {
		return nil, catalog.ErrEmptyCatalog
	}

	store := search.NewVectorStore()
	if err := store.Build(catalog.Contents(cat.Movies)); err != nil {
		if errors.Is(err, search.ErrEmptyVocabulary) {
			return nil, fmt.Errorf("%w: %v", catalog.ErrEmptyCatalog, err)
		}
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	movies := make([]catalog.Movie, len(cat.Movies))
	copy(movies, cat.Movies)

	return &Index{
		Source: cat.Source,
		movies: movies,
		store:  store,
	}, nil
}

// Load reads the catalog from src and indexes it. Any failure aborts the
// build; no partial index is returned.
func Load(ctx context.Context, src catalog.Source, logger *logrus.Entry) (*Index, error) {
	start := time.Now()
	log := logger.WithField("source", src.Name())

	cat, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cat.Skipped > 0 {
		log.WithField("skipped", cat.Skipped).Warn("Skipped unusable catalog rows")
	}

	idx, err := Build(cat)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"movies":     idx.Len(),
		"vocabulary": idx.VocabularySize(),
		"elapsed":    time.Since(start).String(),
	}).Info("Catalog indexed")
	return idx, nil
}

// Len returns the number of indexed movies.
func (idx *Index) Len() int {
	return len(idx.movies)
}

// Movie returns the movie at position i.
func (idx *Index) Movie(i int) catalog.Movie {
	return idx.movies[i]
}

// Movies returns a copy of the catalog in index order.
func (idx *Index) Movies() []catalog.Movie {
	out := make([]catalog.Movie, len(idx.movies))
	copy(out, idx.movies)
	return out
}

// Store exposes the vector store. Callers must not modify it.
func (idx *Index) Store() *search.VectorStore {
	return idx.store
}

// VocabularySize returns the number of distinct indexed terms.
func (idx *Index) VocabularySize() int {
	return idx.store.Vectorizer.VocabularySize()
}

// Genres returns the sorted unique genre tags of the catalog. The list is
// computed on first use and shared afterwards; callers must not modify it.
func (idx *Index) Genres() []string {
	idx.genresOnce.Do(func() {
		idx.genres = catalog.ListGenres(idx.movies)
	})
	return idx.genres
}
