// Package picker is a small bubbletea program for choosing one bookmark from
// fuzzy search results, refining the query as you type.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Picker lists search results for a query the user can keep editing.
type Picker struct {
	store     *model.Store
	input     textinput.Model
	results   []search.Result
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over a store snapshot, pre-filled with query.
func New(store *model.Store, query string) Picker {
	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "title or url"
	input.SetValue(query)
	input.Focus()

	p := Picker{
		store:  store,
		input:  input,
		width:  80,
		height: 24,
	}
	p.refresh()
	return p
}

func (p *Picker) refresh() {
	p.results = search.Bookmarks(p.store, p.input.Value())
	if p.cursor >= len(p.results) {
		p.cursor = max(len(p.results)-1, 0)
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) == 0 {
				return p, nil
			}
			p.selected = true
			return p, tea.Quit

		case tea.KeyDown, tea.KeyCtrlN, tea.KeyCtrlJ:
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case tea.KeyUp, tea.KeyCtrlP, tea.KeyCtrlK:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.cursor = 0
		p.refresh()
	}
	return p, cmd
}

// visibleRows is how many results fit; each takes two lines.
func (p Picker) visibleRows() int {
	return max((p.height-4)/2, 1)
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(p.input.View())
	b.WriteString(hintStyle.Render(fmt.Sprintf("  (%d results)", len(p.results))))
	b.WriteString("\n\n")

	rows := p.visibleRows()
	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	end := min(start+rows, len(p.results))

	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		line := cursor + style.Render(result.Item.Title)
		if len(result.Path) > 0 {
			line += " " + pathStyle.Render(strings.Join(result.Path, " / "))
		}
		b.WriteString(line + "\n")
		b.WriteString("   " + urlStyle.Render(result.Item.URL) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ ctrl+n/p: move  Enter: open  Esc: cancel"))

	return b.String()
}

// Results returns the current results.
func (p Picker) Results() []search.Result {
	return p.results
}

// Selected returns the chosen bookmark, or nil if cancelled.
func (p Picker) Selected() *model.Item {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Item
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
