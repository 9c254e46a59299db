package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"montage-cli/internal/config"
	"montage-cli/internal/store"
)

func Run(s store.Store, db *store.DB, cfg config.Config) error {
	m := newTimelineModel(s, db, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
