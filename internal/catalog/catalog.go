// Package catalog loads the album catalog from its static resource and keeps
// the immutable result together with its genre index.
package catalog

import (
	"sort"
	"sync/atomic"
	"time"

	"linernotes/pkg/models"
)

// Catalog is an ordered, immutable sequence of albums. Accessors hand out
// copies so callers can sort and slice freely.
type Catalog struct {
	albums   []models.Album
	genres   []string
	source   string
	loadedAt time.Time
	version  int64
}

var versions atomic.Int64

// New creates a catalog from already validated albums and builds the genre index
func New(albums []models.Album, source string) *Catalog {
	owned := make([]models.Album, len(albums))
	copy(owned, albums)

	return &Catalog{
		albums:   owned,
		genres:   buildGenreIndex(owned),
		source:   source,
		loadedAt: time.Now(),
		version:  versions.Add(1),
	}
}

// Albums returns a copy of the catalog in load order
func (c *Catalog) Albums() []models.Album {
	if c == nil {
		return []models.Album{}
	}
	out := make([]models.Album, len(c.albums))
	copy(out, c.albums)
	return out
}

// Len returns the number of albums in the catalog
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.albums)
}

// Genres returns the distinct genres, sorted lexicographically
func (c *Catalog) Genres() []string {
	if c == nil {
		return []string{}
	}
	out := make([]string, len(c.genres))
	copy(out, c.genres)
	return out
}

// Source names where the catalog was read from
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// LoadedAt returns when the catalog was built
func (c *Catalog) LoadedAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.loadedAt
}

// Version increases with every catalog built in this process
func (c *Catalog) Version() int64 {
	if c == nil {
		return 0
	}
	return c.version
}

func buildGenreIndex(albums []models.Album) []string {
	seen := make(map[string]struct{}, len(albums))
	genres := make([]string, 0, len(albums))
	for _, a := range albums {
		if _, ok := seen[a.Genre]; ok {
			continue
		}
		seen[a.Genre] = struct{}{}
		genres = append(genres, a.Genre)
	}
	sort.Strings(genres)
	return genres
}
