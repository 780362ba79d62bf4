package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = msg.Width - 6
		return m, nil

	case statusTickMsg:
		return m, tea.Batch(refreshCmd(m.ctx, m.manager), tickCmd())

	case sandboxesMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Error: %v", msg.err)
			m.isError = true
			return m, nil
		}
		m.sandboxes = msg.sandboxes
		if visible := m.visible(); m.cursor >= len(visible) && m.cursor > 0 {
			m.cursor = len(visible) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Error: %v", msg.err)
			m.isError = true
		} else {
			m.message = fmt.Sprintf("%s %s", msg.verb, msg.name)
			m.isError = false
		}
		return m, refreshCmd(m.ctx, m.manager)

	case confirmExpiredMsg:
		m.confirmDestroy = false
		m.confirmDestroyName = ""
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	return m, nil
}

func (m model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending destroy: second d confirms, anything else cancels.
	if m.confirmDestroy {
		name := m.confirmDestroyName
		m.confirmDestroy = false
		m.confirmDestroyName = ""
		if msg.String() == "d" {
			m.message = "Destroying " + name + "..."
			m.isError = false
			return m, destroyCmd(m.ctx, m.manager, name)
		}
		m.message = "Cancelled"
		m.isError = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case "enter", "a":
		if sb, ok := m.selected(); ok {
			m.attachTo = sb.Name
			return m, tea.Quit
		}

	case "s":
		if sb, ok := m.selected(); ok {
			m.message = "Stopping " + sb.Name + "..."
			m.isError = false
			return m, stopCmd(m.ctx, m.manager, sb.Name)
		}

	case "d":
		if sb, ok := m.selected(); ok {
			m.confirmDestroy = true
			m.confirmDestroyName = sb.Name
			return m, confirmExpireCmd()
		}

	case "r":
		return m, refreshCmd(m.ctx, m.manager)

	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, nil
	}

	return m, nil
}

func (m model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.cursor = 0
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.cursor = 0
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
	return m, cmd
}
