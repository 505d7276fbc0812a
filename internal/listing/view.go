// Package listing holds the pure Filter and Sort stages of the album listing.
// Nothing in here touches a display; every function takes and returns plain
// values so the pipeline can be tested without a UI.
package listing

import "strings"

// SortKey selects the ordering of the visible albums
type SortKey string

const (
	SortScore  SortKey = "score"
	SortTitle  SortKey = "title"
	SortArtist SortKey = "artist"
	SortYear   SortKey = "year"
)

// DefaultSortKey is used when no sort is selected
const DefaultSortKey = SortScore

var sortLabels = map[SortKey]string{
	SortScore:  "Score",
	SortTitle:  "Title",
	SortArtist: "Artist",
	SortYear:   "Year",
}

// SortKeys lists the selectable keys in display order
func SortKeys() []SortKey {
	return []SortKey{SortScore, SortTitle, SortArtist, SortYear}
}

// ParseSortKey maps a selection value onto a key. An empty value selects the
// default; anything unrecognised is kept as an unknown key, which sorts as a
// no-op rather than failing.
func ParseSortKey(s string) SortKey {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSortKey
	}
	return SortKey(s)
}

// Valid reports whether k is one of the four known keys
func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

// Label returns the human readable name of the key
func (k SortKey) Label() string {
	if label, ok := sortLabels[k]; ok {
		return label
	}
	return string(k)
}

// Next cycles through the known keys; unknown keys restart at the default
func (k SortKey) Next() SortKey {
	keys := SortKeys()
	for i, key := range keys {
		if key == k {
			return keys[(i+1)%len(keys)]
		}
	}
	return DefaultSortKey
}

// ViewState is the user-controlled part of the listing
type ViewState struct {
	SearchQuery   string
	SelectedGenre string // empty selects all genres
	SortKey       SortKey
}

// NewViewState returns the initial state: no search, all genres, score order
func NewViewState() ViewState {
	return ViewState{SortKey: DefaultSortKey}
}
