package catalog

import (
	"sort"
	"strings"
)

const (
	// GenreSeparator joins genre tags in the source form.
	GenreSeparator = "|"

	// NoGenresSentinel is the MovieLens placeholder for a movie without genres.
	NoGenresSentinel = "(no genres listed)"
)

// Movie is an immutable catalog record.
type Movie struct {
	// ID is the dense zero-based position in the catalog.
	ID    int
	Title string
	// Genres is the pipe-joined source form, empty when none are listed.
	Genres string
	// Content is the indexed text: title followed by space-separated genres.
	Content string
}

// NewMovie normalizes the genre sentinel and derives Content.
func NewMovie(id int, title, genres string) Movie {
	if strings.TrimSpace(genres) == NoGenresSentinel {
		genres = ""
	}
	return Movie{
		ID:      id,
		Title:   title,
		Genres:  genres,
		Content: title + " " + strings.ReplaceAll(genres, GenreSeparator, " "),
	}
}

// GenreTags splits Genres into trimmed, non-empty tags in source order.
func (m Movie) GenreTags() []string {
	if m.Genres == "" {
		return nil
	}
	parts := strings.Split(m.Genres, GenreSeparator)
	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// HasAnyGenre reports whether the movie carries at least one of genres.
func (m Movie) HasAnyGenre(genres []string) bool {
	for _, tag := range m.GenreTags() {
		for _, g := range genres {
			if tag == g {
				return true
			}
		}
	}
	return false
}

// ListGenres returns the sorted set of genre tags across movies.
func ListGenres(movies []Movie) []string {
	set := make(map[string]struct{})
	for _, m := range movies {
		for _, tag := range m.GenreTags() {
			set[tag] = struct{}{}
		}
	}
	genres := make([]string, 0, len(set))
	for g := range set {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// Contents returns the Content field of every movie, in order.
func Contents(movies []Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Content
	}
	return out
}
