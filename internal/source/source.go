// Package source resolves a configured catalog location into a
// catalog.Source: a local CSV file or a remote CSV/HTML document.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/moodreel/backend/internal/catalog"
	"github.com/moodreel/backend/internal/config"
	"github.com/moodreel/backend/internal/fetcher"
	"github.com/moodreel/backend/internal/politeness"
	"github.com/moodreel/backend/internal/storage"
)

// ErrDisallowed is returned when robots.txt forbids fetching the catalog.
var ErrDisallowed = errors.New("blocked by robots.txt")

// IsRemote reports whether location names an HTTP(S) resource.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// New returns the source for cfg.Catalog.Source.
func New(cfg *config.Config, logger *logrus.Entry) (catalog.Source, error) {
	if !IsRemote(cfg.Catalog.Source) {
		return catalog.NewFileSource(cfg.Catalog.Source), nil
	}

	store, err := storage.NewFileStorage(cfg.Catalog.DataDir)
	if err != nil {
		return nil, err
	}
	ft := fetcher.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
	pm := politeness.NewPolitenessManager(cfg.Fetch, ft.Client(), logger.WithField("component", "politeness"))

	return NewRemote(cfg.Catalog.Source, ft, pm, store, logger), nil
}

// Remote loads a catalog over HTTP. CSV bodies are parsed directly; HTML
// bodies are searched for the first table carrying title and genres
// columns. Successful downloads are snapshotted and reused when a later
// download fails.
type Remote struct {
	URL        string
	Fetcher    *fetcher.Fetcher
	Politeness *politeness.PolitenessManager
	Storage    storage.ContentStorage
	Logger     *logrus.Entry
}

func NewRemote(url string, ft *fetcher.Fetcher, pm *politeness.PolitenessManager, store storage.ContentStorage, logger *logrus.Entry) *Remote {
	return &Remote{
		URL:        url,
		Fetcher:    ft,
		Politeness: pm,
		Storage:    store,
		Logger:     logger.WithField("component", "remote_catalog"),
	}
}

func (r *Remote) Name() string {
	return r.URL
}

func (r *Remote) Load(ctx context.Context) (*catalog.Catalog, error) {
	res, fetchErr := r.fetch(ctx)
	if fetchErr != nil {
		if errors.Is(fetchErr, ErrDisallowed) || r.Storage == nil {
			return nil, &catalog.LoadError{Source: r.URL, Err: fetchErr}
		}
		snapshot, err := r.Storage.Get(r.URL)
		if err != nil || snapshot.URL != r.URL {
			return nil, &catalog.LoadError{Source: r.URL, Err: fetchErr}
		}
		r.Logger.WithError(fetchErr).WithField("fetched_at", snapshot.FetchedAt).Warn("Catalog download failed, using stored snapshot")
		return Parse(snapshot)
	}

	cat, err := Parse(res)
	if err != nil {
		return nil, err
	}

	if r.Storage != nil {
		if err := r.Storage.Save(res); err != nil {
			r.Logger.WithError(err).Warn("Failed to store catalog snapshot")
		}
	}
	return cat, nil
}

// Close releases the snapshot storage.
func (r *Remote) Close() error {
	if r.Storage == nil {
		return nil
	}
	return r.Storage.Close()
}

func (r *Remote) fetch(ctx context.Context) (*fetcher.FetchResult, error) {
	if r.Politeness != nil {
		allowed, err := r.Politeness.IsURLAllowed(ctx, r.URL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrDisallowed
		}
	}
	return r.Fetcher.Fetch(ctx, r.URL)
}

// Parse turns a fetched document into a catalog according to its media type.
func Parse(res *fetcher.FetchResult) (*catalog.Catalog, error) {
	if res.MediaType() != "text/html" && res.MediaType() != "application/xhtml+xml" {
		return catalog.ParseCSV(res.URL, bytes.NewReader(res.Body))
	}

	tables, err := fetcher.ParseTables(bytes.NewReader(res.Body))
	if err != nil {
		return nil, &catalog.LoadError{Source: res.URL, Err: fmt.Errorf("parsing html: %w", err)}
	}

	// a table with the right header but no rows beats one without the header
	var firstErr, emptyErr error
	for _, rows := range tables {
		cat, err := catalog.FromRecords(res.URL, rows)
		switch {
		case err == nil:
			return cat, nil
		case errors.Is(err, catalog.ErrEmptyCatalog) && emptyErr == nil:
			emptyErr = err
		case firstErr == nil:
			firstErr = err
		}
	}
	if emptyErr != nil {
		return nil, emptyErr
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, &catalog.LoadError{Source: res.URL, Err: errors.New("no table found")}
}
