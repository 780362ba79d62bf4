package tui

import (
	"fmt"
	"strings"

	"github.com/zpdzap/sb/internal/sandbox"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Width(m.width).Render("sb — sandboxes"))
	b.WriteString("\n")

	visible := m.visible()
	if len(visible) == 0 {
		if len(m.sandboxes) == 0 {
			b.WriteString(emptyStyle.Render("No sandboxes. Run 'sb create' in a project directory."))
		} else {
			b.WriteString(emptyStyle.Render("No sandboxes match the filter."))
		}
		b.WriteString("\n")
	} else {
		for i, sb := range visible {
			b.WriteString(m.renderSandbox(i, sb))
			b.WriteString("\n")
		}
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")

	if m.filtering {
		b.WriteString("  /" + m.filter.View())
	} else {
		b.WriteString(hotkeysStyle.Render("[enter/a]ttach  [s]top  [d]estroy  [/] filter  [r]efresh  [q]uit"))
	}
	b.WriteString("\n")

	switch {
	case m.confirmDestroy:
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Press d again to destroy %s", m.confirmDestroyName)))
	case m.isError:
		b.WriteString(errorStyle.Render(m.message))
	case m.message != "":
		b.WriteString(messageStyle.Render(m.message))
	}

	return b.String()
}

func (m model) renderSandbox(i int, sb sandbox.Sandbox) string {
	cursor := "  "
	name := nameStyle.Render(sb.Name)
	if i == m.cursor {
		cursor = "> "
		name = selectedNameStyle.Render(sb.Name)
	}

	status := statusStopped.Render(string(sb.Status))
	if sb.Status == sandbox.StatusRunning {
		status = statusRunning.Render(string(sb.Status))
	}

	return fmt.Sprintf("%s%s  %s  %s", cursor, name, status, workspaceStyle.Render(sb.Workspace))
}
