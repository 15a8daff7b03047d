package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the interactive menu and blocks until the user makes a choice
// or aborts.
func Run() (Choice, error) {
	program := tea.NewProgram(NewModel())

	finalModel, err := program.Run()
	if err != nil {
		return Choice{Aborted: true}, fmt.Errorf("menu failed: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return Choice{Aborted: true}, fmt.Errorf("unexpected model type %T", finalModel)
	}

	return m.Choice(), nil
}
