// Package tui is the interactive sandbox dashboard.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/sb/internal/sandbox"
)

// Run starts the dashboard loop. It cycles between the Bubble Tea view and
// attached shell sessions until the user quits: attaching tears the TUI
// down, hands the terminal to docker exec, and rebuilds the TUI when the
// shell exits.
func Run(ctx context.Context, mgr *sandbox.Manager) error {
	for {
		m := newModel(ctx, mgr)
		p := tea.NewProgram(m, tea.WithAltScreen())
		result, err := p.Run()
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}

		final := result.(model)
		if final.quitting {
			return nil
		}

		if final.attachTo != "" {
			sb, err := mgr.Attach(ctx, final.attachTo)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Attached to %s (exit the shell to return)\n", sb.Name)
			mgr.AttachCmd(sb).Run()

			// Full terminal reset so Bubble Tea starts clean after the shell
			fmt.Print("\033c")
		}
	}
}
