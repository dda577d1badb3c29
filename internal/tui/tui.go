package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/pick.go/internal/selection"
	"github.com/sokinpui/pick.go/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	previewStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).BorderForeground(lipgloss.Color("245"))
)

// --- Messages ---
type loadedMsg struct {
	commit *model.Commit
	err    error
}

// Loader produces the commit to select from.
type Loader func() (*model.Commit, error)

type state int

const (
	stateLoading state = iota
	stateSelecting
	stateDone
)

// --- Model ---
type Model struct {
	load    Loader
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	preview viewport.Model

	state     state
	commit    *model.Commit
	flat      bool
	rows      []row
	open      expansion
	cursor    int
	offset    int
	confirmed bool
	err       error

	width  int
	height int
}

// New returns a model that runs load and then lets the user select changes.
func New(load Loader, flat bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		load:    load,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		preview: viewport.New(80, 8),
		state:   stateLoading,
		flat:    flat,
		open:    expansion{},
		width:   80,
		height:  24,
	}
}

// Confirmed reports whether the user accepted the selection.
func (m Model) Confirmed() bool { return m.confirmed }

// Commit returns the loaded commit with the user's selection applied.
func (m Model) Commit() *model.Commit { return m.commit }

// Err returns the loading error, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runLoad)
}

func (m Model) runLoad() tea.Msg {
	commit, err := m.load()
	return loadedMsg{commit: commit, err: err}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateDone
			return m, tea.Quit
		}
		m.commit = msg.commit
		m.state = stateSelecting
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state != stateSelecting {
			if key.Matches(msg, m.keys.Quit) {
				m.state = stateDone
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)

	default:
		var cmd tea.Cmd
		if m.state == stateLoading {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = stateDone
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.confirmed = true
		m.state = stateDone
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.current(); ok {
			selection.Toggle(m.commit, r.scope)
		}
	case key.Matches(msg, m.keys.ToggleAll):
		selection.Toggle(m.commit, selection.Commit())
	case key.Matches(msg, m.keys.Expand):
		if r, ok := m.current(); ok && r.nested {
			m.open.set(r, true)
		}
	case key.Matches(msg, m.keys.Collapse):
		m.collapse()
	case key.Matches(msg, m.keys.Flat):
		m.flat = !m.flat
		m.cursor = 0
	}
	m.refresh()
	return m, nil
}

// collapse closes the current row, or moves to its parent when it is
// already closed.
func (m *Model) collapse() {
	r, ok := m.current()
	if !ok {
		return
	}
	if r.nested && m.open.isOpen(r) {
		m.open.set(r, false)
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < r.depth {
			m.cursor = i
			return
		}
	}
}

func (m *Model) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// refresh rebuilds the visible rows and the preview after any change.
func (m *Model) refresh() {
	if m.commit == nil {
		return
	}
	m.rows = buildRows(m.commit, m.flat, m.open)
	m.move(0)
	m.layout()
	if r, ok := m.current(); ok {
		m.preview.SetContent(renderPreview(m.commit, r))
	} else {
		m.preview.SetContent(faintStyle.Render("No changes."))
	}
	m.preview.GotoTop()
}

func (m *Model) layout() {
	m.preview.Width = max(1, m.width)
	m.preview.Height = max(3, m.height/3)

	listHeight := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
}

func (m Model) listHeight() int {
	footer := lipgloss.Height(m.help.View(m.keys))
	return max(1, m.height-m.preview.Height-footer-3)
}

func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("%s Analyzing changes...", m.spinner.View())
	case stateDone:
		if m.err != nil {
			return errorStyle.Render("Error: ", m.err.Error()) + "\n"
		}
		return ""
	}

	var b strings.Builder
	mode := "semantic"
	if m.flat {
		mode = "flat"
	}
	checked, total := selection.Counts(m.commit, selection.Commit())
	b.WriteString(headerStyle.Render(fmt.Sprintf("pick: %d/%d lines selected (%s)", checked, total, mode)))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(faintStyle.Render("Nothing to select."))
		b.WriteString("\n")
	}
	end := min(len(m.rows), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString(previewStyle.Width(max(1, m.width)).Render(m.preview.View()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]
	marker := " "
	if r.nested {
		marker = "▸"
		if m.open.isOpen(r) {
			marker = "▾"
		}
	}
	line := fmt.Sprintf("%s%s %s %s",
		strings.Repeat("  ", r.depth),
		marker,
		indicator(selection.State(m.commit, r.scope)),
		r.label,
	)
	if i == m.cursor {
		return cursorStyle.Render("> " + line)
	}
	switch {
	case r.kind == rowLine && strings.HasPrefix(r.label, "+"):
		return "  " + addedStyle.Render(line)
	case r.kind == rowLine:
		return "  " + removedStyle.Render(line)
	}
	return "  " + line
}
