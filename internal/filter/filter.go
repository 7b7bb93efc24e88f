// Package filter narrows an already ranked recommendation list. Filters
// never change which movies were ranked, only which of them are kept.
package filter

import (
	"strings"

	"github.com/moodreel/backend/internal/catalog"
	"github.com/moodreel/backend/internal/recommend"
)

// Options selects the post-ranking filters. Zero value keeps everything.
type Options struct {
	// Genres keeps rows sharing at least one tag with this set.
	Genres []string
	// Seen drops rows whose title equals one of these exactly.
	Seen []string
}

// ParseSeen splits a comma-separated list of titles, trimming blanks.
func ParseSeen(text string) []string {
	var titles []string
	for _, part := range strings.Split(text, ",") {
		if title := strings.TrimSpace(part); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

// Apply runs the genre filter, then the seen exclusion, preserving order.
func Apply(recs []recommend.Recommendation, opts Options) []recommend.Recommendation {
	seen := make(map[string]struct{}, len(opts.Seen))
	for _, title := range opts.Seen {
		seen[title] = struct{}{}
	}

	out := make([]recommend.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if len(opts.Genres) > 0 {
			movie := catalog.Movie{Genres: rec.Genres}
			if !movie.HasAnyGenre(opts.Genres) {
				continue
			}
		}
		if _, ok := seen[rec.Title]; ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}
