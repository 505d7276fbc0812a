package listing

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"linernotes/pkg/models"

	"golang.org/x/text/language"
)

func scenarioCatalog() []models.Album {
	return []models.Album{
		{Title: "A", Artist: "X", Year: 2020, Genre: "Rock", Score: 9.5},
		{Title: "B", Artist: "Y", Year: 2019, Genre: "Jazz", Score: 6},
	}
}

func titles(albums []models.Album) []string {
	out := make([]string, len(albums))
	for i, a := range albums {
		out[i] = a.Title
	}
	return out
}

func randomCatalog(r *rand.Rand, n int) []models.Album {
	genres := []string{"Rock", "Jazz", "rock", "Ambient", ""}
	words := []string{"Blue", "night", "Train", "echo", "Rain", "b", "Ünder", "àlpha"}
	albums := make([]models.Album, n)
	for i := range albums {
		albums[i] = models.Album{
			Title:  words[r.Intn(len(words))] + " " + words[r.Intn(len(words))],
			Artist: words[r.Intn(len(words))],
			Year:   1990 + r.Intn(5),
			Genre:  genres[r.Intn(len(genres))],
			Score:  float64(r.Intn(21)) / 2,
		}
	}
	return albums
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		state ViewState
		want  []string
	}{
		{
			name:  "no filters, score order",
			state: ViewState{SortKey: SortScore},
			want:  []string{"A", "B"},
		},
		{
			name:  "query b",
			state: ViewState{SearchQuery: "b", SortKey: SortScore},
			want:  []string{"B"},
		},
		{
			name:  "genre Jazz",
			state: ViewState{SelectedGenre: "Jazz", SortKey: SortScore},
			want:  []string{"B"},
		},
		{
			name:  "query matches artist",
			state: ViewState{SearchQuery: "  x ", SortKey: SortScore},
			want:  []string{"A"},
		},
		{
			name:  "genre is case-sensitive",
			state: ViewState{SelectedGenre: "jazz", SortKey: SortScore},
			want:  []string{},
		},
		{
			name:  "query and genre must both hold",
			state: ViewState{SearchQuery: "a", SelectedGenre: "Jazz", SortKey: SortScore},
			want:  []string{},
		},
	}

	sorter := NewSorter(language.English)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(sorter.Apply(scenarioCatalog(), tt.state))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterIsSubsetAndSatisfiesPredicates(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	queries := []string{"", "b", "BLUE", " night ", "ün", "zzz"}
	genres := []string{"", "Rock", "rock", "Jazz"}

	for round := 0; round < 20; round++ {
		albums := randomCatalog(r, 30)
		for _, q := range queries {
			for _, g := range genres {
				visible := Filter(albums, q, g)

				// Every included album satisfies both predicates
				for _, a := range visible {
					if !MatchesQuery(a, q) || !MatchesGenre(a, g) {
						t.Fatalf("album %+v included for q=%q g=%q", a, q, g)
					}
				}

				// And every album satisfying both is included, in catalog order
				var want []models.Album
				for _, a := range albums {
					if MatchesQuery(a, q) && MatchesGenre(a, g) {
						want = append(want, a)
					}
				}
				if len(want) != len(visible) {
					t.Fatalf("q=%q g=%q: expected %d albums, got %d", q, g, len(want), len(visible))
				}
				for i := range want {
					if want[i] != visible[i] {
						t.Fatalf("q=%q g=%q: order differs at %d", q, g, i)
					}
				}

				// Idempotent
				again := Filter(visible, q, g)
				if !reflect.DeepEqual(again, visible) {
					t.Fatalf("q=%q g=%q: filter is not idempotent", q, g)
				}
			}
		}
	}
}

func TestFilterReturnsFreshSlice(t *testing.T) {
	albums := scenarioCatalog()
	visible := Filter(albums, "", "")
	visible[0].Title = "changed"

	if albums[0].Title != "A" {
		t.Error("Filter result aliases the catalog")
	}
	if got := Filter(nil, "", ""); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSortScoreProperty(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for round := 0; round < 50; round++ {
		albums := randomCatalog(r, 25)
		Sort(albums, SortScore)

		for i := 0; i < len(albums); i++ {
			for j := i + 1; j < len(albums); j++ {
				a, b := albums[i], albums[j]
				ok := a.Score > b.Score || (a.Score == b.Score && a.Title <= b.Title)
				if !ok {
					t.Fatalf("%q(%v) sorted before %q(%v)", a.Title, a.Score, b.Title, b.Score)
				}
			}
		}
	}
}

func TestSortYearDescendingAndStable(t *testing.T) {
	albums := []models.Album{
		{Title: "first 2019", Year: 2019},
		{Title: "2021", Year: 2021},
		{Title: "second 2019", Year: 2019},
		{Title: "2020", Year: 2020},
		{Title: "third 2019", Year: 2019},
	}
	Sort(albums, SortYear)

	want := []string{"2021", "2020", "first 2019", "second 2019", "third 2019"}
	if got := titles(albums); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortTitleAndArtistCollated(t *testing.T) {
	albums := []models.Album{
		{Title: "banana", Artist: "Zed"},
		{Title: "Cherry", Artist: "émile"},
		{Title: "apple", Artist: "Bob"},
		{Title: "Éclair", Artist: "alice"},
	}

	byTitle := append([]models.Album(nil), albums...)
	Sort(byTitle, SortTitle)
	if got, want := titles(byTitle), []string{"apple", "banana", "Cherry", "Éclair"}; !reflect.DeepEqual(got, want) {
		t.Errorf("title order %v, want %v", got, want)
	}

	byArtist := append([]models.Album(nil), albums...)
	Sort(byArtist, SortArtist)
	var artists []string
	for _, a := range byArtist {
		artists = append(artists, a.Artist)
	}
	if want := []string{"alice", "Bob", "émile", "Zed"}; !reflect.DeepEqual(artists, want) {
		t.Errorf("artist order %v, want %v", artists, want)
	}
}

func TestSortStableForEqualKeys(t *testing.T) {
	albums := []models.Album{
		{Title: "Same", Artist: "one"},
		{Title: "Same", Artist: "two"},
		{Title: "Same", Artist: "three"},
	}
	for _, key := range []SortKey{SortScore, SortTitle, SortYear} {
		sorted := append([]models.Album(nil), albums...)
		Sort(sorted, key)
		if !reflect.DeepEqual(sorted, albums) {
			t.Errorf("%s: equal elements were reordered: %v", key, sorted)
		}
	}
}

func TestSortUnknownKeyIsNoop(t *testing.T) {
	albums := []models.Album{
		{Title: "B", Score: 1},
		{Title: "A", Score: 9},
		{Title: "C", Score: 5},
	}
	before := append([]models.Album(nil), albums...)

	Sort(albums, SortKey("popularity"))

	if !reflect.DeepEqual(albums, before) {
		t.Errorf("unknown key changed order: %v", titles(albums))
	}
}

func TestSortIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	albums := randomCatalog(r, 40)

	for _, key := range SortKeys() {
		first := append([]models.Album(nil), albums...)
		second := append([]models.Album(nil), albums...)
		Sort(first, key)
		Sort(second, key)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: two sorts of the same input differ", key)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in    string
		want  SortKey
		valid bool
	}{
		{"", SortScore, true},
		{"score", SortScore, true},
		{" title ", SortTitle, true},
		{"artist", SortArtist, true},
		{"year", SortYear, true},
		{"Year", SortKey("Year"), false},
		{"popularity", SortKey("popularity"), false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got := ParseSortKey(tt.in)
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if got.Valid() != tt.valid {
				t.Errorf("Valid() = %v, want %v", got.Valid(), tt.valid)
			}
		})
	}
}

func TestSortKeyNextCycles(t *testing.T) {
	k := SortScore
	seen := []SortKey{k}
	for i := 0; i < 4; i++ {
		k = k.Next()
		seen = append(seen, k)
	}
	want := []SortKey{SortScore, SortTitle, SortArtist, SortYear, SortScore}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("Next() cycle = %v, want %v", seen, want)
	}
	if SortKey("bogus").Next() != DefaultSortKey {
		t.Error("unknown key should restart at the default")
	}
	if SortArtist.Label() != "Artist" {
		t.Errorf("Label() = %q", SortArtist.Label())
	}
}

func TestNewSorterForLocale(t *testing.T) {
	s, err := NewSorterForLocale("de")
	if err != nil {
		t.Fatalf("NewSorterForLocale(de) error: %v", err)
	}
	if s.Language().String() != "de" {
		t.Errorf("expected German, got %s", s.Language())
	}

	s, err = NewSorterForLocale("not a tag!")
	if err == nil {
		t.Error("expected error for invalid tag")
	}
	if s == nil || s.Language() != language.English {
		t.Error("invalid tag should fall back to English")
	}
}
