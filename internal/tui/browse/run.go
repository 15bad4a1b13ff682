package browse

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

// Run opens the report browser and blocks until the user quits.
func Run(st *store.Store, reportsDir string) error {
	p := tea.NewProgram(NewModel(st, reportsDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
