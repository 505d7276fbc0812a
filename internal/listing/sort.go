package listing

import (
	"sort"
	"sync"

	"linernotes/pkg/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders albums by a SortKey. Title and artist use locale-aware
// collation; a Collator keeps scratch buffers, so access is serialised.
type Sorter struct {
	mutex    sync.Mutex
	collator *collate.Collator
	tag      language.Tag
}

// NewSorter creates a sorter collating for the given language
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{
		collator: collate.New(tag),
		tag:      tag,
	}
}

// NewSorterForLocale parses a BCP 47 tag, falling back to English
func NewSorterForLocale(locale string) (*Sorter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return NewSorter(language.English), err
	}
	return NewSorter(tag), nil
}

// Language returns the collation language
func (s *Sorter) Language() language.Tag {
	return s.tag
}

// Sort orders albums in place with a stable sort:
//
//	score   descending, ties by ascending title
//	title   ascending, collated
//	artist  ascending, collated
//	year    descending
//
// Unknown keys leave the order untouched.
func (s *Sorter) Sort(albums []models.Album, key SortKey) {
	var less func(a, b models.Album) bool

	switch key {
	case SortScore:
		less = func(a, b models.Album) bool {
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return a.Title < b.Title
		}
	case SortTitle:
		less = func(a, b models.Album) bool {
			return s.collator.CompareString(a.Title, b.Title) < 0
		}
	case SortArtist:
		less = func(a, b models.Album) bool {
			return s.collator.CompareString(a.Artist, b.Artist) < 0
		}
	case SortYear:
		less = func(a, b models.Album) bool {
			return a.Year > b.Year
		}
	default:
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sort.SliceStable(albums, func(i, j int) bool {
		return less(albums[i], albums[j])
	})
}

var defaultSorter = NewSorter(language.English)

// Sort orders albums in place using English collation
func Sort(albums []models.Album, key SortKey) {
	defaultSorter.Sort(albums, key)
}

// Apply runs the whole Filter then Sort pipeline for a view state
func (s *Sorter) Apply(albums []models.Album, state ViewState) []models.Album {
	visible := Filter(albums, state.SearchQuery, state.SelectedGenre)
	s.Sort(visible, state.SortKey)
	return visible
}
