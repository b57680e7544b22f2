package tui

import tea "github.com/charmbracelet/bubbletea"

// Run launches the TUI and blocks until the user quits.
func Run(opts RunOpts) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
