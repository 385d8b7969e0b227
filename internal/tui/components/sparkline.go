package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finbrook/dscrgo/internal/tui/tuistyles"
)

// Sparkline renders a sampled series as one row of block glyphs. Samples at
// or above Threshold draw in the success color, the rest in the danger
// color, and the Highlight index draws in the accent color.
type Sparkline struct {
	Title     string
	Points    []float64
	Threshold float64
	Highlight int
}

// NewSparkline creates a sparkline with no highlighted sample.
func NewSparkline(title string, points []float64, threshold float64) *Sparkline {
	return &Sparkline{
		Title:     title,
		Points:    points,
		Threshold: threshold,
		Highlight: -1,
	}
}

// WithHighlight marks one sample index as the current position.
func (s *Sparkline) WithHighlight(index int) *Sparkline {
	s.Highlight = index
	return s
}

var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// Render returns the styled sparkline with its range bounds appended.
func (s *Sparkline) Render() string {
	if len(s.Points) == 0 {
		return ""
	}

	points := make([]float64, len(s.Points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range s.Points {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			p = s.Threshold
		}
		points[i] = p
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var line strings.Builder
	if s.Title != "" {
		line.WriteString(tuistyles.SubtitleStyle.Render(s.Title + " "))
	}
	for i, p := range points {
		level := int(math.Round((p - lo) / span * float64(len(sparkGlyphs)-1)))
		glyph := string(sparkGlyphs[level])

		style := lipgloss.NewStyle().Foreground(tuistyles.ColorDanger)
		if p >= s.Threshold {
			style = lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
		}
		if i == s.Highlight {
			style = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)
		}
		line.WriteString(style.Render(glyph))
	}

	bounds := fmt.Sprintf(" %.2f..%.2f", lo, hi)
	line.WriteString(tuistyles.SubtitleStyle.Render(bounds))
	return line.String()
}
