package tui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/sb/internal/naming"
	"github.com/zpdzap/sb/internal/sandbox"
	"golang.org/x/term"
)

// model is the Bubble Tea model for the sb dashboard.
type model struct {
	ctx     context.Context
	manager *sandbox.Manager

	sandboxes []sandbox.Sandbox
	cursor    int
	message   string
	isError   bool

	filter    textinput.Model
	filtering bool // true while the filter input has focus

	quitting bool
	attachTo string // sandbox name to attach to after tea quits

	// Double-press destroy confirmation
	confirmDestroy     bool
	confirmDestroyName string

	width  int
	height int
}

func newModel(ctx context.Context, mgr *sandbox.Manager) model {
	ti := textinput.New()
	ti.Placeholder = "filter sandboxes"
	ti.CharLimit = 64
	ti.Blur()

	// Initial terminal size so the first render isn't at width=0
	w, h, _ := term.GetSize(int(os.Stdout.Fd()))
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	return model{
		ctx:     ctx,
		manager: mgr,
		filter:  ti,
		width:   w,
		height:  h,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctx, m.manager), tickCmd())
}

// visible returns the sandboxes matching the current filter.
func (m model) visible() []sandbox.Sandbox {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return m.sandboxes
	}
	var out []sandbox.Sandbox
	for _, sb := range m.sandboxes {
		name := strings.ToLower(sb.Name)
		if strings.Contains(name, query) ||
			strings.Contains(strings.ToLower(naming.Dirname(sb.Name)), query) ||
			strings.Contains(strings.ToLower(sb.Workspace), query) {
			out = append(out, sb)
		}
	}
	return out
}

// selected returns the sandbox under the cursor, if any.
func (m model) selected() (sandbox.Sandbox, bool) {
	visible := m.visible()
	if len(visible) == 0 || m.cursor >= len(visible) {
		return sandbox.Sandbox{}, false
	}
	return visible[m.cursor], true
}
