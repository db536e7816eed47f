package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/casegen/internal/view"
)

// Run starts the interactive view on the alt screen and blocks until the
// user quits. Nothing is saved on exit.
func Run(ctx context.Context, s *view.State, b view.Backend) error {
	p := tea.NewProgram(New(ctx, s, b), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
