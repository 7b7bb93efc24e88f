package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Catalog is a loaded, normalized set of movies in source row order.
type Catalog struct {
	Source string
	Movies []Movie
	// Skipped counts rows dropped for a blank title or missing fields.
	Skipped int
}

// Source yields a catalog. Implementations fail with *LoadError.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Catalog, error)
}

// FromRecords builds a catalog from tabular records whose first record is
// the header. The header must name "title" and "genres" columns; other
// columns such as "movieId" are ignored. Matching is case-insensitive.
func FromRecords(source string, records [][]string) (*Catalog, error) {
	if len(records) == 0 {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("no header row")}
	}

	titleCol, genresCol := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "title":
			titleCol = i
		case "genres":
			genresCol = i
		}
	}
	if titleCol < 0 {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("%w: title", ErrMissingColumn)}
	}
	if genresCol < 0 {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("%w: genres", ErrMissingColumn)}
	}

	cat := &Catalog{Source: source, Movies: make([]Movie, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if len(rec) <= titleCol || len(rec) <= genresCol {
			cat.Skipped++
			continue
		}
		title := strings.TrimSpace(rec[titleCol])
		if title == "" {
			cat.Skipped++
			continue
		}
		cat.Movies = append(cat.Movies, NewMovie(len(cat.Movies), title, rec[genresCol]))
	}

	if len(cat.Movies) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyCatalog)
	}
	return cat, nil
}

// ParseCSV reads a CSV catalog.
func ParseCSV(source string, r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("reading csv: %w", err)}
	}
	return FromRecords(source, records)
}

// FileSource loads a CSV catalog from the local file system.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return s.Path
}

func (s *FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	defer f.Close()

	return ParseCSV(s.Path, f)
}
