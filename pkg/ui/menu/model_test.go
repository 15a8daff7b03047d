package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestMenuNavigation(t *testing.T) {
	m := NewModel()
	assert.Equal(t, 0, m.cursor)

	m = send(m, "down", "down")
	assert.Equal(t, 2, m.cursor)

	m = send(m, "up")
	assert.Equal(t, 1, m.cursor)

	// Cursor stays in bounds
	m = send(m, "up", "up", "up")
	assert.Equal(t, 0, m.cursor)
}

func TestMenuQuit(t *testing.T) {
	m := send(NewModel(), "q")
	assert.True(t, m.Choice().Aborted)
}

func TestSelectFromLastDay(t *testing.T) {
	// Item 4 needs no further input
	m := send(NewModel(), "4")

	choice := m.Choice()
	assert.False(t, choice.Aborted)
	assert.Equal(t, ModeFromLastDay, choice.Mode)
}

func TestSelectSingleDay(t *testing.T) {
	m := send(NewModel(), "1")
	require.Equal(t, stateInput, m.state)

	m = typeText(m, "2023-10-01")
	m = send(m, "enter")

	choice := m.Choice()
	assert.Equal(t, ModeSingleDay, choice.Mode)
	assert.Equal(t, "2023-10-01", choice.Date)
}

func TestSingleDayRejectsBadDate(t *testing.T) {
	m := send(NewModel(), "1")
	m = typeText(m, "not-a-date")
	m = send(m, "enter")

	// Still collecting input, with an error shown
	assert.Equal(t, stateInput, m.state)
	assert.NotEmpty(t, m.errMsg)
	assert.Contains(t, m.View(), "YYYY-MM-DD")
}

func TestSelectRangeDays(t *testing.T) {
	m := send(NewModel(), "2")
	require.Equal(t, stateInput, m.state)
	require.Len(t, m.inputs, 2)

	m = typeText(m, "2023-10-01")
	m = send(m, "enter") // advance to the end date
	m = typeText(m, "2023-10-07")
	m = send(m, "enter")

	choice := m.Choice()
	assert.Equal(t, ModeRangeDays, choice.Mode)
	assert.Equal(t, "2023-10-01", choice.Start)
	assert.Equal(t, "2023-10-07", choice.End)
}

func TestRangeRejectsReversedDates(t *testing.T) {
	m := send(NewModel(), "2")
	m = typeText(m, "2023-10-07")
	m = send(m, "enter")
	m = typeText(m, "2023-10-01")
	m = send(m, "enter")

	assert.Equal(t, stateInput, m.state)
	assert.NotEmpty(t, m.errMsg)
}

func TestSelectRandomDays(t *testing.T) {
	m := send(NewModel(), "3")
	m = typeText(m, "5")
	m = send(m, "enter")

	choice := m.Choice()
	assert.Equal(t, ModeRandomDays, choice.Mode)
	assert.Equal(t, 5, choice.Count)
}

func TestRandomDaysRejectsBadCount(t *testing.T) {
	for _, input := range []string{"0", "abc", "9999"} {
		m := send(NewModel(), "3")
		m = typeText(m, input)
		m = send(m, "enter")

		assert.Equal(t, stateInput, m.state, "input %q should be rejected", input)
	}
}

func TestEscReturnsToMenu(t *testing.T) {
	m := send(NewModel(), "1")
	require.Equal(t, stateInput, m.state)

	m = send(m, "esc")
	assert.Equal(t, stateMenu, m.state)
}

func TestMenuView(t *testing.T) {
	view := NewModel().View()

	assert.Contains(t, view, "Astronomy Picture of the Day")
	assert.Contains(t, view, "single day")
	assert.Contains(t, view, "range of days")
	assert.Contains(t, view, "random days")
}
