// Package bubbletea implements the interactive catalog browser.
package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/query"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// header, tag bar, blank line, footer
	chromeHeight = 6
)

// Model is the bubbletea model of the catalog browser. All query state
// lives in the wrapped session.
type Model struct {
	session  *query.Session
	renderer movielog.EntryRenderer
	styles   Styles

	search    textinput.Model
	searching bool

	cursor    int
	offset    int
	tagCursor int

	detail     viewport.Model
	detailOpen bool

	width  int
	height int
	err    error
}

// NewModel creates a browser over session. Renderer formats the detail view.
func NewModel(session *query.Session, renderer movielog.EntryRenderer) Model {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		session:  session,
		renderer: renderer,
		styles:   DefaultStyles(),
		search:   ti,
		detail:   viewport.New(defaultWidth, defaultHeight-2),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Session returns the underlying query session.
func (m Model) Session() *query.Session { return m.session }

// Cursor returns the index of the highlighted entry in the projection.
func (m Model) Cursor() int { return m.cursor }

// TagCursor returns the index of the highlighted tag in the vocabulary.
func (m Model) TagCursor() int { return m.tagCursor }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searching }

// Err returns the last rendering error, if any.
func (m Model) Err() error { return m.err }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-2, 1)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.detailOpen:
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.session.Query().Search {
		m.session.SetSearch(m.search.Value())
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.session.CloseEntry()
		m.detailOpen = false
		return m, nil
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := m.session.Engine().Tags()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "esc":
		if m.session.Query().Search != "" {
			m.search.SetValue("")
			m.session.SetSearch("")
			m.cursor, m.offset = 0, 0
		}
	case "tab":
		m.session.SetSort(m.session.Query().Sort.Next())
		m.cursor, m.offset = 0, 0
	case "shift+tab":
		m.session.SetSort(m.session.Query().Sort.Reverse())
		m.cursor, m.offset = 0, 0
	case "left", "h":
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case "right", "l":
		if m.tagCursor < len(tags)-1 {
			m.tagCursor++
		}
	case " ", "space":
		if len(tags) > 0 {
			m.session.ToggleTag(tags[m.tagCursor])
			m.cursor, m.offset = 0, 0
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.session.Entries()) - 1
	case "enter":
		return m.openDetail()
	}

	m.clampCursor()
	return m, nil
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	entries := m.session.Entries()
	if len(entries) == 0 {
		return m, nil
	}
	entry := entries[m.cursor]
	if err := m.session.SelectEntry(entry.ID); err != nil {
		m.err = err
		return m, nil
	}

	rank, _ := m.session.Engine().Rank(entry.ID)
	content, err := m.renderer.RenderEntry(entry, rank)
	if err != nil {
		m.err = err
		m.session.CloseEntry()
		return m, nil
	}

	m.err = nil
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.detailOpen = true
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.session.Entries())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m Model) listHeight() int {
	return max(m.height-chromeHeight, 1)
}

// View renders the model.
func (m Model) View() string {
	if m.detailOpen {
		return m.detail.View() + "\n" + m.styles.Footer.Render("↑/↓ scroll • esc back • q quit")
	}

	var b strings.Builder

	q := m.session.Query()
	b.WriteString(m.styles.Header.Render("Movie log"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  sorted by %s", q.Sort.Label())))
	b.WriteString("\n")

	if m.searching || q.Search != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(m.styles.Muted.Render("press / to search"))
	}
	b.WriteString("\n")

	b.WriteString(m.tagBar(q))
	b.WriteString("\n\n")

	entries := m.session.Entries()
	if len(entries) == 0 {
		b.WriteString(m.styles.Muted.Render("  No movies match."))
		b.WriteString("\n")
	}
	end := min(m.offset+m.listHeight(), len(entries))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.row(entries[i], i == m.cursor))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d/%d • tab sort • ←/→ tag • space toggle • enter open • q quit",
		len(entries), m.session.Engine().Len())
	if m.err != nil {
		footer = "error: " + movielog.ErrorMessage(m.err)
	}
	b.WriteString(m.styles.Footer.Render(footer))

	return b.String()
}

func (m Model) tagBar(q movielog.Query) string {
	tags := m.session.Engine().Tags()
	if len(tags) == 0 {
		return m.styles.Muted.Render("no tags")
	}

	parts := make([]string, len(tags))
	for i, tag := range tags {
		style := m.styles.Tag
		if q.HasTag(tag) {
			style = m.styles.TagSelected
		}
		if i == m.tagCursor {
			style = style.Inherit(m.styles.TagCursor)
		}
		parts[i] = style.Render(tag)
	}
	return strings.Join(parts, " ")
}

func (m Model) row(e *movielog.Entry, selected bool) string {
	badge := "   "
	if rank, ok := m.session.Engine().Rank(e.ID); ok {
		badge = m.styles.Rank.Render(fmt.Sprintf("#%d", rank)) + " "
	}

	line := fmt.Sprintf("%s %5s  %-40s %s", badge, e.Score, e.Title, movielog.FormatDate(e.WatchDate))
	if selected {
		return m.styles.RowCursor.Render("> " + line)
	}
	return m.styles.Row.Render("  " + line)
}
