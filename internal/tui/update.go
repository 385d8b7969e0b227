package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"))):
		return m, tea.Quit

	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k", "shift+tab"))):
		m.moveFocusUp()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j", "tab"))):
		m.moveFocusDown()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("left", "h"))):
		m.sliders[m.focused].Decrement()
		m.recalculate()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("right", "l"))):
		m.sliders[m.focused].Increment()
		m.recalculate()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		for _, s := range m.sliders {
			s.Reset()
		}
		m.recalculate()
		return m, nil
	}

	return m, nil
}

// moveFocusUp moves focus to the previous slider.
func (m *Model) moveFocusUp() {
	if m.focused > 0 {
		m.sliders[m.focused].Focused = false
		m.focused--
		m.sliders[m.focused].Focused = true
		m.resample()
	}
}

// moveFocusDown moves focus to the next slider.
func (m *Model) moveFocusDown() {
	if m.focused < len(m.sliders)-1 {
		m.sliders[m.focused].Focused = false
		m.focused++
		m.sliders[m.focused].Focused = true
		m.resample()
	}
}
