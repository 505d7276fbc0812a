// Package tui is the terminal host of the album listing: a bubbletea program
// whose key presses feed a controller and whose screen shows the views the
// controller renders.
package tui

import (
	"fmt"
	"strings"
	"time"

	"linernotes/internal/listing"
	"linernotes/internal/render"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	revealInterval = 50 * time.Millisecond
	linesPerCard   = 3
	chromeLines    = 10 // title, search, selectors, count, help
)

// Inputs receives the user's listing actions
type Inputs interface {
	TypeQuery(text string)
	SelectGenre(genre string)
	SelectSort(key listing.SortKey)
	Escape()
}

type (
	genresMsg     struct{ genres []string }
	listingMsg    struct{ view render.View }
	loadErrorMsg  struct{ msg string }
	revealTickMsg struct{ gen int }
)

// Model is the browse screen
type Model struct {
	inputs Inputs
	input  textinput.Model

	lastQuery  string
	genres     []string
	genreIndex int // 0 selects all genres
	sortKey    listing.SortKey

	view      render.View
	loaded    bool
	errMsg    string
	offset    int
	revealed  int
	revealGen int
	elapsed   float64

	width    int
	height   int
	quitting bool
}

// NewModel creates the browse screen. Inputs may be set later with SetInputs.
func NewModel(inputs Inputs) *Model {
	input := textinput.New()
	input.Placeholder = "Search by title or artist"
	input.Prompt = "Search: "
	input.CharLimit = 200
	input.Focus()

	return &Model{
		inputs:  inputs,
		input:   input,
		sortKey: listing.DefaultSortKey,
	}
}

// SetInputs connects the model to the component handling its actions
func (m *Model) SetInputs(inputs Inputs) {
	m.inputs = inputs
}

// Init starts the cursor blink
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and views arriving from the controller
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			m.input.SetValue("")
			m.lastQuery = ""
			m.inputs.Escape()
			return m, nil

		case "tab":
			m.cycleGenre(1)
			return m, nil

		case "shift+tab":
			m.cycleGenre(-1)
			return m, nil

		case "ctrl+o":
			m.sortKey = m.sortKey.Next()
			m.inputs.SelectSort(m.sortKey)
			return m, nil

		case "up":
			m.scroll(-1)
			return m, nil

		case "down":
			m.scroll(1)
			return m, nil

		case "pgup":
			m.scroll(-m.pageSize())
			return m, nil

		case "pgdown":
			m.scroll(m.pageSize())
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 2
		m.scroll(0)
		return m, nil

	case genresMsg:
		m.genres = msg.genres
		m.genreIndex = 0
		return m, nil

	case listingMsg:
		return m, m.showListing(msg.view)

	case loadErrorMsg:
		m.errMsg = msg.msg
		return m, nil

	case revealTickMsg:
		return m, m.advanceReveal(msg.gen)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if value := m.input.Value(); value != m.lastQuery {
		m.lastQuery = value
		m.inputs.TypeQuery(value)
	}

	return m, cmd
}

func (m *Model) cycleGenre(step int) {
	n := len(m.genres) + 1
	if n == 1 {
		return
	}
	m.genreIndex = ((m.genreIndex+step)%n + n) % n
	m.inputs.SelectGenre(m.selectedGenre())
}

func (m *Model) selectedGenre() string {
	if m.genreIndex == 0 {
		return ""
	}
	return m.genres[m.genreIndex-1]
}

func (m *Model) showListing(view render.View) tea.Cmd {
	m.view = view
	m.loaded = true
	m.errMsg = ""
	m.offset = 0
	m.revealGen++
	m.elapsed = 0

	if view.ReducedMotion || len(view.Cards) == 0 {
		m.revealed = len(view.Cards)
		return nil
	}

	m.revealed = m.countRevealed()
	return m.revealTick()
}

func (m *Model) revealTick() tea.Cmd {
	gen := m.revealGen
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func (m *Model) advanceReveal(gen int) tea.Cmd {
	if gen != m.revealGen {
		return nil
	}

	m.elapsed += revealInterval.Seconds()
	m.revealed = m.countRevealed()
	if m.revealed < len(m.view.Cards) {
		return m.revealTick()
	}
	return nil
}

// countRevealed returns how many cards have passed their reveal delay
func (m *Model) countRevealed() int {
	n := 0
	for _, card := range m.view.Cards {
		if card.Delay <= m.elapsed+1e-9 {
			n++
		}
	}
	return n
}

func (m *Model) pageSize() int {
	if m.height <= chromeLines {
		return len(m.view.Cards)
	}
	size := (m.height - chromeLines) / linesPerCard
	if size < 1 {
		size = 1
	}
	return size
}

func (m *Model) scroll(delta int) {
	m.offset += delta
	if last := len(m.view.Cards) - m.pageSize(); m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View draws the screen
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Albums"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	genre := "All genres"
	genreStyle := labelStyle
	if g := m.selectedGenre(); g != "" {
		genre = g
		genreStyle = activeStyle
	}
	b.WriteString(labelStyle.Render("Genre: "))
	b.WriteString(genreStyle.Render(genre))
	b.WriteString(labelStyle.Render("   Sort: "))
	b.WriteString(m.sortKey.Label())
	b.WriteString("\n")

	switch {
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	case !m.loaded:
		b.WriteString(countStyle.Render("Loading albums..."))
		b.WriteString("\n")
	default:
		b.WriteString(countStyle.Render(m.view.CountText))
		b.WriteString("\n\n")
		m.writeCards(&b)
	}

	b.WriteString(helpStyle.Render("Tab/Shift+Tab: genre • Ctrl+O: sort • Esc: clear search • ↑/↓: scroll • Ctrl+C: quit"))

	return b.String()
}

func (m *Model) writeCards(b *strings.Builder) {
	if m.view.Empty() {
		b.WriteString(emptyStyle.Render(m.view.EmptyText))
		b.WriteString("\n")
		return
	}

	end := m.offset + m.pageSize()
	if end > m.revealed {
		end = m.revealed
	}
	for i := m.offset; i < end; i++ {
		writeCard(b, m.view.Cards[i])
	}
}

func writeCard(b *strings.Builder, card render.Card) {
	b.WriteString(albumStyle.Render(card.Title))
	b.WriteString("  ")
	b.WriteString(scoreStyle(card.Tier).Render(card.Score))
	b.WriteString(scoreMaxStyle.Render("/10"))
	b.WriteString("\n")

	b.WriteString(artistStyle.Render(card.Artist))
	b.WriteString(metaStyle.Render(fmt.Sprintf(" · %d · %s", card.Year, card.Genre)))
	b.WriteString("\n")

	if card.Note != "" {
		b.WriteString(noteStyle.Render(`"` + card.Note + `"`))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
