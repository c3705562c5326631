package tui

import (
	"fmt"
	"path"

	"github.com/charmbracelet/lipgloss"
)

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body, detail string
	switch m.state {
	case StateFiles:
		c := m.visible[m.current]
		body = m.files.View()
		detail = m.renderChain(c.DocumentChain.MainContract, c.DocumentChain.LatestValidDocument)
	default:
		body = m.clients.View()
		if c, ok := m.SelectedClient(); ok {
			detail = m.renderChain(c.DocumentChain.MainContract, c.DocumentChain.LatestValidDocument)
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.theme.RoundedBox.Render(body),
		detail,
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	if m.state == StateFiles {
		c := m.visible[m.current]
		status := m.theme.ClientStatus(string(c.Status)).Render(string(c.Status))
		return m.theme.Title.Render(fmt.Sprintf("📄 %s · %s · %d files", c.ClientName, status, len(c.Files)))
	}

	title := fmt.Sprintf("📄 Aneks inventory · %d clients · %d flagged",
		m.inv.TotalClients(), len(m.inv.FlaggedClients()))
	if m.flaggedOnly {
		title += " · " + m.theme.StatusWarning.Render("flagged only")
	}
	return m.theme.Title.Render(title)
}

func (m Model) renderChain(mainContract, latest string) string {
	show := func(p string) string {
		if p == "" {
			return "—"
		}
		return path.Base(p)
	}
	return m.theme.Subtitle.Render(fmt.Sprintf("Main contract: %s   Latest valid: %s", show(mainContract), show(latest)))
}
