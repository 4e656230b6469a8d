package tui

import (
	"todos-cli/internal/todos"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Remote todos.Remote
	UserID int
	// Theme is "auto", "light" or "dark".
	Theme string
}

func Run(opts Options) error {
	applyThemePreference(opts.Theme)
	applyColorProfilePreference()
	applyGlyphPreference()

	m := newAppModel(opts.Remote, opts.UserID)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
