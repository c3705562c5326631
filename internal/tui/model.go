// Package tui implements the interactive inventory browser.
package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/aneks/internal/model"
	"github.com/Veraticus/aneks/internal/tui/themes"
)

// State represents the current screen of the browser.
type State int

const (
	StateClients State = iota
	StateFiles
)

// chromeHeight is the space taken by the header, detail line and help.
const chromeHeight = 8

// Model holds the browser state.
type Model struct {
	inv         *model.Inventory
	theme       themes.Theme
	help        help.Model
	keymap      KeyMap
	visible     []model.ClientEntry
	clients     table.Model
	files       table.Model
	current     int // index into visible of the client whose files are shown
	width       int
	height      int
	state       State
	flaggedOnly bool
	quitting    bool
}

func newModel(inv *model.Inventory, cfg Config) Model {
	km := DefaultKeyMap()
	m := Model{
		inv:         inv,
		theme:       cfg.Theme,
		help:        help.New(),
		keymap:      km,
		width:       cfg.Width,
		height:      cfg.Height,
		flaggedOnly: cfg.FlaggedOnly,
		state:       StateClients,
	}

	m.clients = m.newTable(clientColumns(m.width))
	m.files = m.newTable(fileColumns(m.width))
	m.files.Blur()
	m.refilter()
	return m
}

func (m Model) newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
		table.WithStyles(m.theme.TableStyles()),
	)
	t.KeyMap = table.KeyMap{
		LineUp:       m.keymap.Up,
		LineDown:     m.keymap.Down,
		PageUp:       m.keymap.PageUp,
		PageDown:     m.keymap.PageDown,
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		GotoTop:      m.keymap.Home,
		GotoBottom:   m.keymap.End,
	}
	return t
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if m.state == StateFiles {
			if key.Matches(msg, m.keymap.Back) {
				m.state = StateClients
				m.files.Blur()
				m.clients.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.files, cmd = m.files.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keymap.Select):
			m.openSelected()
			return m, nil
		case key.Matches(msg, m.keymap.ToggleFlagged):
			m.flaggedOnly = !m.flaggedOnly
			m.refilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.clients, cmd = m.clients.Update(msg)
		return m, cmd
	}

	return m, nil
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// SelectedClient returns the client under the cursor, if any.
func (m Model) SelectedClient() (model.ClientEntry, bool) {
	i := m.clients.Cursor()
	if i < 0 || i >= len(m.visible) {
		return model.ClientEntry{}, false
	}
	return m.visible[i], true
}

func (m *Model) openSelected() {
	i := m.clients.Cursor()
	if i < 0 || i >= len(m.visible) {
		return
	}
	m.current = i
	m.files.SetRows(fileRows(m.visible[i]))
	m.files.GotoTop()
	m.clients.Blur()
	m.files.Focus()
	m.state = StateFiles
}

func (m *Model) refilter() {
	if m.flaggedOnly {
		m.visible = m.inv.FlaggedClients()
	} else {
		m.visible = m.inv.Clients
	}
	m.clients.SetRows(clientRows(m.visible))
	m.clients.GotoTop()
}

func (m Model) tableHeight() int {
	return max(m.height-chromeHeight, 3)
}

func (m *Model) resize() {
	m.clients.SetColumns(clientColumns(m.width))
	m.files.SetColumns(fileColumns(m.width))
	m.clients.SetHeight(m.tableHeight())
	m.files.SetHeight(m.tableHeight())
}

// flexible returns the width left for the stretchy column.
func flexible(total, fixed, minWidth int) int {
	return max(total-fixed, minWidth)
}

func clientColumns(width int) []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Client", Width: flexible(width, 66, 20)},
		{Title: "Status", Width: 12},
		{Title: "Files", Width: 6},
		{Title: "Selected", Width: 8},
		{Title: "Annexes", Width: 8},
		{Title: "Flags", Width: 28},
	}
}

func fileColumns(width int) []table.Column {
	return []table.Column{
		{Title: "File", Width: flexible(width, 82, 24)},
		{Title: "Type", Width: 20},
		{Title: "Status", Width: 18},
		{Title: "Contract", Width: 10},
		{Title: "Chain", Width: 26},
	}
}

func clientRows(clients []model.ClientEntry) []table.Row {
	rows := make([]table.Row, 0, len(clients))
	for i, c := range clients {
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			c.ClientName,
			string(c.Status),
			fmt.Sprint(len(c.Files)),
			fmt.Sprint(len(c.SelectedFiles())),
			fmt.Sprint(len(c.DocumentChain.Annexes)),
			strings.Join(c.Flags, ", "),
		})
	}
	return rows
}

func fileRows(c model.ClientEntry) []table.Row {
	rows := make([]table.Row, 0, len(c.Files))
	for _, f := range c.Files {
		status := string(f.Status)
		if f.DuplicateOf != "" {
			status += " → " + path.Base(f.DuplicateOf)
		}
		rows = append(rows, table.Row{
			f.RelativePath[strings.Index(f.RelativePath, "/")+1:],
			string(f.DocType),
			status,
			f.ContractNumber,
			strings.Join(c.DocumentChain.Roles(f.RelativePath), ", "),
		})
	}
	return rows
}
