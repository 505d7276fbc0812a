package listing

import (
	"strings"

	"linernotes/pkg/models"
)

// NormalizeQuery trims and lowercases search text the way matching expects
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// MatchesQuery reports whether the album's title or artist contains the query,
// ignoring case. An empty query matches everything.
func MatchesQuery(a models.Album, query string) bool {
	return matchesNormalized(a, NormalizeQuery(query))
}

// MatchesGenre reports whether the album belongs to genre. The comparison is
// exact and case-sensitive; an empty genre matches everything.
func MatchesGenre(a models.Album, genre string) bool {
	return genre == "" || a.Genre == genre
}

func matchesNormalized(a models.Album, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Artist), q)
}

// Filter derives the visible set from the full catalog. The result keeps
// catalog order and is always a fresh slice, never a view into albums.
func Filter(albums []models.Album, query, genre string) []models.Album {
	q := NormalizeQuery(query)

	visible := make([]models.Album, 0, len(albums))
	for _, a := range albums {
		if matchesNormalized(a, q) && MatchesGenre(a, genre) {
			visible = append(visible, a)
		}
	}
	return visible
}
