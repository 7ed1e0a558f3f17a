// Package tui is a terminal control panel for a running shell: it lists
// and drives windows over the control socket and edits the config file.
package tui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/mingde/internal/ipc"
)

// Client is the part of the control socket client the panel uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	OpenWindow(app string, wait bool) (*ipc.OutcomeData, error)
	CloseWindow(target string, wait bool) (*ipc.OutcomeData, error)
	FocusWindow(target string, wait bool) (*ipc.OutcomeData, error)
	ChangeTheme(name string, wait bool) (*ipc.OutcomeData, error)
	SetBackground(color string, wait bool) (*ipc.OutcomeData, error)
}

// Run starts the panel. configPath may be empty for the default config.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	m := newModel(configPath, ipc.NewClient())
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
