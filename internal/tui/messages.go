package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/sb/internal/sandbox"
)

// sandboxesMsg carries a fresh listing from the engine.
type sandboxesMsg struct {
	sandboxes []sandbox.Sandbox
	err       error
}

// actionDoneMsg is sent when a stop or destroy finishes.
type actionDoneMsg struct {
	verb string
	name string
	err  error
}

// statusTickMsg triggers a periodic listing refresh.
type statusTickMsg time.Time

// confirmExpiredMsg cancels a pending destroy confirmation.
type confirmExpiredMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

// refreshCmd queries the engine for the current sandbox set.
func refreshCmd(ctx context.Context, mgr *sandbox.Manager) tea.Cmd {
	return func() tea.Msg {
		sandboxes, err := mgr.List(ctx)
		return sandboxesMsg{sandboxes: sandboxes, err: err}
	}
}

func stopCmd(ctx context.Context, mgr *sandbox.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Stop(ctx, name)
		return actionDoneMsg{verb: "Stopped", name: name, err: err}
	}
}

func destroyCmd(ctx context.Context, mgr *sandbox.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Destroy(ctx, name)
		return actionDoneMsg{verb: "Destroyed", name: name, err: err}
	}
}

func confirmExpireCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return confirmExpiredMsg{}
	})
}
