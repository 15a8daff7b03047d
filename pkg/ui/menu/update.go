package menu

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateMenu:
			return m.updateMenu(msg)
		case stateInput:
			return m.updateInput(msg)
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.choice = Choice{Aborted: true}
		m.state = stateDone
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case "1", "2", "3", "4":
		m.cursor = int(msg.String()[0] - '1')
		fallthrough

	case "enter":
		item := menuItems[m.cursor]
		if item.mode == ModeNone {
			m.choice = Choice{Aborted: true}
			m.state = stateDone
			return m, tea.Quit
		}
		m.mode = item.mode
		m.beginInput()
		if m.state == stateDone {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.choice = Choice{Aborted: true}
		m.state = stateDone
		return m, tea.Quit

	case "esc":
		// Back to the menu
		m.state = stateMenu
		m.errMsg = ""
		return m, nil

	case "tab", "shift+tab":
		if len(m.inputs) > 1 {
			m.inputs[m.focused].Blur()
			m.focused = (m.focused + 1) % len(m.inputs)
			m.inputs[m.focused].Focus()
		}
		return m, nil

	case "enter":
		// Advance through inputs before submitting
		if m.focused < len(m.inputs)-1 {
			m.inputs[m.focused].Blur()
			m.focused++
			m.inputs[m.focused].Focus()
			return m, nil
		}
		if m.validate() {
			m.state = stateDone
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}
