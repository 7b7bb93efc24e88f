package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moodreel/backend/internal/config"
	"github.com/moodreel/backend/internal/filter"
	"github.com/moodreel/backend/internal/index"
	"github.com/moodreel/backend/internal/metrics"
	"github.com/moodreel/backend/internal/recommend"
	"github.com/moodreel/backend/internal/source"
)

// Status describes how a suggestion request ended.
type Status string

const (
	StatusOK            Status = "ok"
	StatusMissingPrompt Status = "missing_prompt"
	StatusNoResults     Status = "no_results"
)

// Message returns the user-facing text for a status.
func (s Status) Message() string {
	switch s {
	case StatusMissingPrompt:
		return "Please enter a prompt describing your mood or what kind of movie you want."
	case StatusNoResults:
		return "No recommendations found after applying your filters. Try a different prompt, relax the genre filters, or remove some 'already seen' titles."
	default:
		return ""
	}
}

// Request is one suggestion request. Filters run after ranking N movies.
type Request struct {
	Prompt string
	N      int
	Genres []string
	Seen   []string
}

// Result is the filtered ranking for a Request.
type Result struct {
	Status          Status
	Recommendations []recommend.Recommendation
}

// Engine serves suggestions from an index built once at startup
type Engine struct {
	Config *config.Config
	Logger *logrus.Entry
	Index  *index.Index
	Ranker *recommend.Ranker

	// Stats
	Stats EngineStats
}

type EngineStats struct {
	StartTime     time.Time
	QueriesServed atomic.Int64
}

// NewEngine wraps an already built index.
func NewEngine(cfg *config.Config, logger *logrus.Entry, idx *index.Index) *Engine {
	e := &Engine{
		Config: cfg,
		Logger: logger,
		Index:  idx,
		Ranker: recommend.NewRanker(idx),
	}
	e.Stats.StartTime = time.Now()
	return e
}

// Bootstrap resolves the configured catalog source, builds the index and
// returns an engine ready to serve. It fails without a partial index.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*Engine, error) {
	src, err := source.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	start := time.Now()
	idx, err := index.Load(ctx, src, logger)
	if err != nil {
		return nil, err
	}
	metrics.RecordIndex(idx.Len(), idx.VocabularySize(), time.Since(start))

	return NewEngine(cfg, logger, idx), nil
}

// Suggest ranks the catalog for the prompt and applies the request filters.
func (e *Engine) Suggest(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		e.Stats.QueriesServed.Add(1)
		metrics.RecordRecommendation(string(StatusMissingPrompt), 0)
		return &Result{Status: StatusMissingPrompt, Recommendations: []recommend.Recommendation{}}, nil
	}
	if limit := e.Config.Recommend.MaxN; limit > 0 && req.N > limit {
		metrics.RecordRecommendation("invalid", 0)
		return nil, fmt.Errorf("%w: n must be at most %d, got %d", recommend.ErrInvalidRequest, limit, req.N)
	}

	start := time.Now()
	ranked, err := e.Ranker.Recommend(req.Prompt, req.N)
	if err != nil {
		metrics.RecordRecommendation("invalid", 0)
		return nil, err
	}
	elapsed := time.Since(start)

	result := &Result{
		Status:          StatusOK,
		Recommendations: filter.Apply(ranked, filter.Options{Genres: req.Genres, Seen: req.Seen}),
	}
	if len(result.Recommendations) == 0 {
		result.Status = StatusNoResults
	}

	e.Stats.QueriesServed.Add(1)
	metrics.RecordRecommendation(string(result.Status), elapsed)

	e.Logger.WithFields(logrus.Fields{
		"status":   result.Status,
		"n":        req.N,
		"ranked":   len(ranked),
		"returned": len(result.Recommendations),
		"elapsed":  elapsed.String(),
	}).Debug("Suggestion served")

	return result, nil
}

// Genres returns the sorted genre list of the catalog.
func (e *Engine) Genres() []string {
	return e.Index.Genres()
}

// Uptime returns the time since the engine started serving.
func (e *Engine) Uptime() time.Duration {
	return time.Since(e.Stats.StartTime)
}
