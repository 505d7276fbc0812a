// Package render turns an ordered visible set into display elements: album
// cards, the count message and the empty state. It is the only place that
// produces markup; album text is escaped by html/template.
package render

import (
	"fmt"
	"html/template"
	"math"

	"linernotes/internal/listing"
	"linernotes/pkg/models"
)

const (
	// LoadErrorMessage replaces the count text when the catalog failed to load
	LoadErrorMessage = "Error loading albums."
	// EmptyMessage is shown by the empty-state placeholder
	EmptyMessage = "No albums match your search."

	staggerStep = 0.05 // seconds between consecutive cards
	staggerMax  = 0.5
)

// Options are presentation preferences that never change what is rendered
type Options struct {
	ReducedMotion bool
}

// Card is the display model of one album
type Card struct {
	Index  int
	Title  string
	Artist string
	Year   int
	Genre  string
	Score  string
	Tier   models.ScoreTier
	Note   string
	Delay  float64 // reveal delay in seconds
}

// TierClass returns the CSS class of the score badge
func (c Card) TierClass() string {
	return c.Tier.Class()
}

// RevealStyle is the inline style driving the staggered fade-in
func (c Card) RevealStyle() template.CSS {
	return template.CSS(fmt.Sprintf("animation-delay: %.2fs", c.Delay))
}

// View is everything a surface needs to show the listing
type View struct {
	Cards         []Card
	Visible       int
	Total         int
	CountText     string
	EmptyText     string
	ReducedMotion bool
	Failed        bool // catalog could not be loaded
}

// Empty reports whether the empty-state placeholder should be shown
func (v View) Empty() bool {
	return !v.Failed && v.Visible == 0
}

// ShowList reports whether the list container should be shown
func (v View) ShowList() bool {
	return !v.Failed && v.Visible > 0
}

// NewView builds one card per visible album, in order
func NewView(visible []models.Album, total int, opts Options) View {
	cards := make([]Card, len(visible))
	for i, a := range visible {
		cards[i] = Card{
			Index:  i,
			Title:  a.Title,
			Artist: a.Artist,
			Year:   a.Year,
			Genre:  a.Genre,
			Score:  a.ScoreText(),
			Tier:   a.Tier(),
			Note:   a.Note,
		}
		if !opts.ReducedMotion {
			cards[i].Delay = StaggerDelay(i)
		}
	}

	return View{
		Cards:         cards,
		Visible:       len(visible),
		Total:         total,
		CountText:     CountMessage(len(visible), total),
		EmptyText:     EmptyMessage,
		ReducedMotion: opts.ReducedMotion,
	}
}

// ErrorView is the view shown when the catalog failed to load
func ErrorView(msg string) View {
	return View{
		Cards:     []Card{},
		CountText: msg,
		EmptyText: EmptyMessage,
		Failed:    true,
	}
}

// CountMessage describes how many of the catalog's albums are visible
func CountMessage(visible, total int) string {
	if visible == total {
		return fmt.Sprintf("Showing all %d albums", total)
	}
	return fmt.Sprintf("Showing %d of %d albums", visible, total)
}

// StaggerDelay returns the reveal delay of the card at index, capped at 0.5s
func StaggerDelay(index int) float64 {
	d := math.Min(float64(index)*staggerStep, staggerMax)
	return math.Round(d*100) / 100
}

// Option is one entry of a select control
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Page is the full albums page: controls pre-populated from the view state
// and the genre index, plus the rendered listing.
type Page struct {
	Title        string
	Query        string
	GenreActive  bool
	GenreOptions []Option
	SortOptions  []Option
	View         View
}

// NewPage assembles the page model
func NewPage(view View, state listing.ViewState, genres []string) Page {
	genreOptions := make([]Option, 0, len(genres)+1)
	genreOptions = append(genreOptions, Option{Value: "", Label: "All genres", Selected: state.SelectedGenre == ""})
	for _, g := range genres {
		genreOptions = append(genreOptions, Option{Value: g, Label: g, Selected: g == state.SelectedGenre})
	}

	sortOptions := make([]Option, 0, len(listing.SortKeys()))
	for _, k := range listing.SortKeys() {
		sortOptions = append(sortOptions, Option{Value: string(k), Label: k.Label(), Selected: k == state.SortKey})
	}

	return Page{
		Title:        "Albums",
		Query:        state.SearchQuery,
		GenreActive:  state.SelectedGenre != "",
		GenreOptions: genreOptions,
		SortOptions:  sortOptions,
		View:         view,
	}
}
