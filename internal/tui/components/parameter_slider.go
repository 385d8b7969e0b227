package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finbrook/dscrgo/internal/tui/tuistyles"
)

// ParameterSlider is an adjustable numeric input rendered as a horizontal
// track. Value stays clamped to [Min, Max] and moves in Step increments.
type ParameterSlider struct {
	Label   string
	Value   float64
	Min     float64
	Max     float64
	Step    float64
	Format  string // Sprintf verb for the value, e.g. "%.3f" or "$%.0f"
	Unit    string // suffix appended after the formatted value
	Width   int
	Focused bool

	initial float64
}

// NewParameterSlider creates a slider positioned at value.
func NewParameterSlider(label string, value, min, max, step float64, format, unit string) *ParameterSlider {
	s := &ParameterSlider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: format,
		Unit:   unit,
		Width:  40,
	}
	s.SetValue(value)
	s.initial = s.Value
	return s
}

// Increment moves the value one step up, stopping at Max.
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement moves the value one step down, stopping at Min.
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue sets the value directly, clamping to the slider's range.
func (p *ParameterSlider) SetValue(value float64) {
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Reset restores the value the slider was constructed with.
func (p *ParameterSlider) Reset() {
	p.Value = p.initial
}

// Modified reports whether the value differs from its initial position.
func (p *ParameterSlider) Modified() bool {
	return p.Value != p.initial
}

// Percentage returns the value's position within the range as 0..1.
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// FormattedValue renders the current value with its format verb and unit.
func (p *ParameterSlider) FormattedValue() string {
	return fmt.Sprintf(p.Format, p.Value) + p.Unit
}

// Render returns the styled slider: label and value on one line, the track
// below, and the range bounds under that.
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.Focused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary).Bold(true)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	header := labelStyle.Render(p.Label)
	gap := p.Width - lipgloss.Width(header) - lipgloss.Width(p.FormattedValue())
	if gap < 1 {
		gap = 1
	}
	header += strings.Repeat(" ", gap) + valueStyle.Render(p.FormattedValue())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	bounds := rangeStyle.Render(fmt.Sprintf(p.Format, p.Min) + p.Unit + " .. " + fmt.Sprintf(p.Format, p.Max) + p.Unit)

	return header + "\n" + p.renderTrack() + "\n" + bounds
}

// renderTrack draws the [━━●───] bar.
func (p *ParameterSlider) renderTrack() string {
	width := p.Width - 2 // brackets
	filled := int(math.Round(float64(width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > width-1 {
		filled = width - 1
	}

	thumbStyle := tuistyles.SliderThumbStyle
	if p.Focused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 0 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if rest := width - filled - 1; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
