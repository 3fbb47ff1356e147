// Package tui is an interactive terminal dashboard for a running chromeless
// window. It works offline as a settings editor when no window is running.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/chromeless/internal/ipc"
)

// Client is the part of the IPC client the dashboard talks to.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	Action(name string) (*ipc.ActionData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Run starts the dashboard on the controlling terminal and blocks until the
// user quits. An empty configPath means the default config location.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := newModel(configPath, ipc.NewClient())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
