package menu

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateInput:
		return m.viewInput()
	default:
		return ""
	}
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Astronomy Picture of the Day"))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		label := fmt.Sprintf("%d. %s", i+1, item.label)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("up/down or 1-4 to select, enter to confirm, q to quit"))
	return panelStyle.Render(b.String())
}

func (m Model) viewInput() string {
	var b strings.Builder

	switch m.mode {
	case ModeSingleDay:
		b.WriteString(promptStyle.Render("Which day?"))
		b.WriteString("\n\n")
		b.WriteString(m.inputs[0].View())
	case ModeRangeDays:
		b.WriteString(promptStyle.Render("Which range of days?"))
		b.WriteString("\n\n")
		b.WriteString("from " + m.inputs[0].View())
		b.WriteString("\n  to " + m.inputs[1].View())
	case ModeRandomDays:
		b.WriteString(promptStyle.Render("How many random days?"))
		b.WriteString("\n\n")
		b.WriteString(m.inputs[0].View())
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter to confirm, esc to go back"))
	return panelStyle.Render(b.String())
}
