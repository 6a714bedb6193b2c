package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mtanaka/lifeplan/internal/output"
)

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Life Plan Dashboard"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Portfolio value %s over %d years",
		output.Yen(m.plan.Portfolio.CurrentValue), m.plan.Simulation.HorizonYears)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Running simulation...")
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderSummary())
	b.WriteString("\n")
	b.WriteString(m.renderGoals())
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ select goal • r re-run • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSummary() string {
	overall, _ := m.summary.OverallProbability.Float64()
	cards := []string{
		metricCard("Overall", probabilityStyle(overall).Render(m.summary.OverallProbability.StringFixed(1)+"%")),
		metricCard("Goals", fmt.Sprintf("%d", m.summary.TotalGoals)),
		metricCard("Total target", output.Yen(m.summary.TotalTarget)),
		metricCard("Total projected", output.Yen(m.summary.TotalProjected)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := MetricLabelStyle.Render(label) + "\n" + MetricValueStyle.Render(value)
	return BorderStyle.Render(content)
}

func (m Model) renderGoals() string {
	if m.result == nil || len(m.result.GoalResults) == 0 {
		return "No goals configured."
	}

	var rows []string
	for i, r := range m.result.GoalResults {
		probability, _ := r.SuccessProbability.Float64()
		cursor := "  "
		name := r.GoalName
		if i == m.selected {
			cursor = "> "
			name = SelectedItemStyle.Render(name)
		}
		row := fmt.Sprintf("%s%-24s %s %s",
			cursor,
			name,
			m.bar.ViewAs(probability/100),
			probabilityStyle(probability).Render(r.SuccessProbability.StringFixed(1)+"%"))
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderDetail() string {
	if m.result == nil || len(m.result.GoalResults) == 0 {
		return ""
	}
	r := m.result.GoalResults[m.selected]
	detail := strings.Join([]string{
		fmt.Sprintf("Target   %s by %s", output.Yen(r.TargetAmount), r.TargetDate.Format("2006-01")),
		fmt.Sprintf("Median   %s   p10 %s   p90 %s", output.Yen(r.ProjectedAmount), output.Yen(r.Percentile10), output.Yen(r.Percentile90)),
		fmt.Sprintf("Needs    %s/month", output.Yen(r.ContributionNeeded)),
		r.GapAnalysis,
	}, "\n")
	return BorderStyle.Render(detail)
}
