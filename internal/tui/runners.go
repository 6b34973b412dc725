package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the notepane screen until the user quits. The caller owns the
// worker and closes it afterwards, which performs the final flush.
func Run(opts Options) error {
	m := New(opts)
	defer m.Stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
