package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/finbrook/dscrgo/internal/tui/tuistyles"
)

// Tone colors a metric card's value by how the underwriter should read it.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

func (t Tone) color() lipgloss.Color {
	switch t {
	case ToneGood:
		return tuistyles.ColorSuccess
	case ToneWarn:
		return tuistyles.ColorWarning
	case ToneBad:
		return tuistyles.ColorDanger
	}
	return tuistyles.ColorForeground
}

// MetricCard displays a single metric with a label, a prominent value and an
// optional detail line.
type MetricCard struct {
	Label  string
	Value  string
	Detail string
	Tone   Tone
	Width  int
}

// NewMetricCard creates a metric card with the default width.
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 20,
	}
}

// WithTone sets how the value is colored.
func (m *MetricCard) WithTone(tone Tone) *MetricCard {
	m.Tone = tone
	return m
}

// WithDetail adds a muted detail line beneath the value.
func (m *MetricCard) WithDetail(detail string) *MetricCard {
	m.Detail = detail
	return m
}

// WithWidth sets the card width.
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the card wrapped in a rounded border.
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Foreground(m.Tone.color()).Render(m.Value)

	content := label + "\n" + value
	if m.Detail != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Detail)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays out cards left to right, wrapping after the given number
// of columns.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}

	var rows []string
	var current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
