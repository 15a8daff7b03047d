// Package menu implements the interactive fetch-mode picker shown when the
// CLI is started without a subcommand.
package menu

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"apodsaver/pkg/apod"
)

// Mode identifies which fetch operation the user picked.
type Mode int

const (
	ModeNone Mode = iota
	ModeSingleDay
	ModeRangeDays
	ModeRandomDays
	ModeFromLastDay
)

// Choice is the outcome of a finished menu session.
type Choice struct {
	Mode    Mode
	Date    string
	Start   string
	End     string
	Count   int
	Aborted bool
}

type state int

const (
	stateMenu state = iota
	stateInput
	stateDone
)

type menuItem struct {
	label string
	mode  Mode
}

var menuItems = []menuItem{
	{"Fetch a single day", ModeSingleDay},
	{"Fetch a range of days", ModeRangeDays},
	{"Fetch random days", ModeRandomDays},
	{"Fetch everything since the last saved day", ModeFromLastDay},
	{"Quit", ModeNone},
}

// Model is the bubbletea model behind the menu.
type Model struct {
	state   state
	cursor  int
	mode    Mode
	inputs  []textinput.Model
	focused int
	errMsg  string
	choice  Choice
}

// NewModel creates the menu in its initial state.
func NewModel() Model {
	return Model{state: stateMenu}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Choice returns the final selection after the program has finished.
func (m Model) Choice() Choice {
	return m.choice
}

// beginInput builds the text inputs needed for the selected mode.
func (m *Model) beginInput() {
	m.inputs = nil
	m.focused = 0
	m.errMsg = ""

	newInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 14
		return ti
	}

	switch m.mode {
	case ModeSingleDay:
		m.inputs = append(m.inputs, newInput("YYYY-MM-DD", 10))
	case ModeRangeDays:
		m.inputs = append(m.inputs, newInput("YYYY-MM-DD", 10))
		m.inputs = append(m.inputs, newInput("YYYY-MM-DD", 10))
	case ModeRandomDays:
		m.inputs = append(m.inputs, newInput("count", 4))
	}

	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
		m.state = stateInput
	} else {
		// from-last-day needs no input
		m.choice = Choice{Mode: m.mode}
		m.state = stateDone
	}
}

// validate checks the collected inputs and fills the choice on success.
func (m *Model) validate() bool {
	switch m.mode {
	case ModeSingleDay:
		date := m.inputs[0].Value()
		if !apod.IsValidDate(date) {
			m.errMsg = "dates are YYYY-MM-DD, no earlier than 1995-06-16"
			return false
		}
		m.choice = Choice{Mode: m.mode, Date: date}
	case ModeRangeDays:
		start, end := m.inputs[0].Value(), m.inputs[1].Value()
		if !apod.IsValidDate(start) || !apod.IsValidDate(end) {
			m.errMsg = "dates are YYYY-MM-DD, no earlier than 1995-06-16"
			return false
		}
		if start > end {
			m.errMsg = "start date must not be after end date"
			return false
		}
		m.choice = Choice{Mode: m.mode, Start: start, End: end}
	case ModeRandomDays:
		count, err := strconv.Atoi(m.inputs[0].Value())
		if err != nil || count < 1 || count > 100 {
			m.errMsg = "count must be a number between 1 and 100"
			return false
		}
		m.choice = Choice{Mode: m.mode, Count: count}
	}
	return true
}
