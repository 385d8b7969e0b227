package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/tui/components"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.err != nil {
		return AppStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderTitleBar(),
			"",
			ErrorStyle.Render("Error: "+m.err.Error()),
			"",
			m.renderStatusBar(),
		))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		"",
		m.renderMetrics(),
		m.renderDecision(),
		"",
		m.renderParameters(),
		"",
		m.renderScenarioStrip(),
		"",
		m.renderStatusBar(),
	)
	return AppStyle.Render(content)
}

// renderTitleBar renders the application title and the subject property line.
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("DSCRGO - Rental Coverage What-If")
	subtitle := SubtitleStyle.Render(fmt.Sprintf("%s / %s %s / %d unit(s)",
		m.base.ApplicationID, m.base.Property.State, m.base.Property.Type, m.base.Property.Units))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

// renderMetrics renders the headline coverage cards.
func (m Model) renderMetrics() string {
	dscrTone := components.ToneBad
	if m.result.MeetsMinimum {
		dscrTone = components.ToneGood
	}

	noiTone := components.ToneNeutral
	if !m.result.NOI.Monthly.IsPositive() {
		noiTone = components.ToneBad
	}

	app := m.whatIfApplication()
	ltv := app.LTV()
	ltvTone := components.ToneNeutral
	if ltv > 80 {
		ltvTone = components.ToneWarn
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("DSCR", m.result.DSCRRatio.String()).
			WithTone(dscrTone).
			WithDetail(fmt.Sprintf("min %.2f", m.result.MinimumRequired)),
		components.NewMetricCard("NOI / MO", m.result.NOI.Monthly.String()).WithTone(noiTone),
		components.NewMetricCard("PITIA / MO", m.result.DebtService.TotalMonthlyPITIA.String()),
		components.NewMetricCard("LTV", fmt.Sprintf("%.1f%%", ltv)).WithTone(ltvTone),
	}
	return components.MetricGrid(cards, 4)
}

// renderDecision renders the outcome line: decision, reason, tier and rate,
// and the rules tally.
func (m Model) renderDecision() string {
	parts := []string{
		decisionStyle(m.outcome.Type).Render(string(m.outcome.Type)),
		SubtitleStyle.Render(string(m.outcome.Reason)),
	}

	if p := m.outcome.Pricing; p != nil {
		chip := fmt.Sprintf("%s @ %s%%", p.Tier, p.FinalRate.StringFixed(3))
		if !p.Eligible {
			chip += " (indicative)"
		}
		parts = append(parts, chip)
	}

	if r := m.outcome.Rules; r != nil {
		parts = append(parts,
			ruleStatusStyle(r.OverallStatus).Render(string(r.OverallStatus)),
			SubtitleStyle.Render(fmt.Sprintf("%d hard stops / %d exceptions / %d warnings",
				len(r.HardStops), len(r.ExceptionsRequired), len(r.Warnings))),
		)
	}

	return strings.Join(parts, "  ")
}

// renderParameters renders the slider stack with the sensitivity ribbon for
// the focused parameter underneath.
func (m Model) renderParameters() string {
	sections := make([]string, 0, len(m.sliders)+1)
	for _, s := range m.sliders {
		sections = append(sections, s.Render())
	}

	ribbon := components.NewSparkline(
		fmt.Sprintf("DSCR vs %s", m.sliders[m.focused].Label),
		m.sensitivity,
		m.result.MinimumRequired,
	).WithHighlight(m.sensitivityPos)
	sections = append(sections, ribbon.Render())

	return BorderStyle.Render(strings.Join(sections, "\n\n"))
}

// renderScenarioStrip renders one card per stress scenario.
func (m Model) renderScenarioStrip() string {
	if len(m.scenarios) == 0 {
		return ""
	}

	cards := make([]*components.MetricCard, 0, len(m.scenarios))
	for _, sc := range m.scenarios {
		// NaN fails the comparison and reads as a miss, which is right.
		tone := components.ToneBad
		if float64(sc.DSCR) >= m.result.MinimumRequired {
			tone = components.ToneGood
		}
		cards = append(cards, components.NewMetricCard(sc.Name, sc.DSCR.String()).
			WithTone(tone).
			WithWidth(16))
	}
	return components.MetricGrid(cards, 4)
}

// renderStatusBar renders the bottom bar with keyboard shortcuts.
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("↑/↓", "select"),
		formatShortcut("←/→", "adjust"),
		formatShortcut("r", "reset"),
		formatShortcut("q", "quit"),
	}

	status := strings.Join(shortcuts, " · ")
	if m.anyModified() {
		status += "   " + SubtitleStyle.Render("modified")
	}
	return StatusBarStyle.Render(status)
}

// formatShortcut formats a keyboard shortcut with key and description.
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func decisionStyle(t domain.DecisionType) lipgloss.Style {
	switch t {
	case domain.DecisionApproved, domain.DecisionConditionallyApproved:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	case domain.DecisionDeclined:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
}

func ruleStatusStyle(s domain.RuleStatus) lipgloss.Style {
	switch s {
	case domain.StatusPass:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	case domain.StatusFail:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
}
