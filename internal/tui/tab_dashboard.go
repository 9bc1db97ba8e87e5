package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/tui/components"
	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(cw int) string {
	v, ok := a.selectedVehicle()
	if !ok {
		return a.renderEmpty(cw)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(dashboardMetrics(v), cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Tank", renderTankBody(v, cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Log", renderLogBody(v), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Tank", renderTankBody(v, halves[0]), halves[0]),
			components.ContentCard("Log", renderLogBody(v), halves[1]),
		}))
	}
	b.WriteString("\n")

	if len(a.vehicles) > 1 {
		b.WriteString(components.ContentCard("Vehicles", a.renderFleetBody(cw), cw))
		b.WriteString("\n")
	}

	if len(a.profiles) > 0 {
		b.WriteString(components.ContentCard("Economy by conditions", renderProfilesBody(a.profiles, cw), cw))
	}
	return b.String()
}

func dashboardMetrics(v model.SummaryStats) []components.Metric {
	econDelta := fmt.Sprintf("avg of %d intervals", v.SampleCount)
	if v.Fallback {
		econDelta = "default until 2 full tanks"
	}

	tankPct := 0.0
	if v.TankCapacity > 0 {
		tankPct = v.FuelLevel / v.TankCapacity * 100
	}

	costValue, costDelta := "n/a", "no distance yet"
	if v.HasCostPerKm {
		costValue = cli.FormatRate(v.CostPerKm)
		costDelta = cli.FormatMoney(v.TotalCost) + " total"
	}

	return []components.Metric{
		{Label: "Economy", Value: cli.FormatEfficiency(v.Efficiency), Delta: econDelta},
		{Label: "Fuel left", Value: cli.FormatLiters(v.FuelLevel), Delta: fmt.Sprintf("%.0f%% of tank", tankPct)},
		{Label: "Range", Value: cli.FormatKm(v.DistanceToEmpty), Delta: "at average economy"},
		{Label: "Cost per km", Value: costValue, Delta: costDelta},
	}
}

func renderTankBody(v model.SummaryStats, outerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	barW := max(components.CardInnerWidth(outerW)-16, 10)

	var b strings.Builder
	b.WriteString(components.FuelGauge(v.FuelLevel, v.TankCapacity, barW))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Range        ") + valueStyle.Render(cli.FormatKm(v.DistanceToEmpty)) + "\n")
	b.WriteString(labelStyle.Render("Economy      ") + valueStyle.Render(cli.FormatEfficiency(v.Efficiency)) + "\n")
	b.WriteString(labelStyle.Render("Full tanks   ") + valueStyle.Render(fmt.Sprintf("%d", v.FullTankCount)))
	if v.Fallback {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(warn.Render("Economy is the configured default until two full tanks are logged."))
	}
	return b.String()
}

func renderLogBody(v model.SummaryStats) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := [][2]string{
		{"Entries", cli.FormatNumber(int64(v.Entries))},
		{"Distance", cli.FormatKm(v.TotalDistance)},
		{"Fuel bought", cli.FormatLiters(v.TotalLiters)},
		{"Spent", cli.FormatMoney(v.TotalCost)},
		{"Since", cli.FormatDate(v.FirstDate)},
		{"Last fill", cli.FormatDate(v.LastDate)},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = labelStyle.Render(fmt.Sprintf("%-13s", r[0])) + valueStyle.Render(r[1])
	}
	return strings.Join(lines, "\n")
}

func (a App) renderFleetBody(cw int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.BlueBright).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	nameW := 14
	barW := max(innerW-nameW-2-12-12-2-12, 8)

	lines := make([]string, 0, len(a.vehicles))
	for i, v := range a.vehicles {
		marker := spaceStyle.Render("  ")
		style := nameStyle
		if i == a.selected {
			marker = markerStyle.Render("▸ ")
			style = selStyle
		}
		lines = append(lines, marker+
			style.Render(fmt.Sprintf("%-*s", nameW, truncStr(v.Vehicle, nameW)))+
			valueStyle.Render(fmt.Sprintf("%12s", cli.FormatEfficiency(v.Efficiency)))+
			valueStyle.Render(fmt.Sprintf("%12s", cli.FormatKm(v.DistanceToEmpty)))+
			spaceStyle.Render("  ")+
			components.FuelGauge(v.FuelLevel, v.TankCapacity, barW))
	}
	return strings.Join(lines, "\n")
}

func renderProfilesBody(profiles []model.ProfileStats, cw int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barColor := t.Blue

	innerW := components.CardInnerWidth(cw)
	labelW := 24
	barW := max(innerW-labelW-10-12-10-2, 8)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%10s%12s%10s", labelW, "Conditions", "Intervals", "Economy", "Share")))
	for _, p := range profiles {
		label := p.DriveProfile + " / " + p.ACMode
		b.WriteString("\n")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s%10d%12s%10s  ",
			labelW, truncStr(label, labelW), p.Samples, cli.FormatEfficiency(p.Efficiency), cli.FormatPercent(p.SharePercent))))
		b.WriteString(components.ShareBar(p.SharePercent, barW, barColor))
	}
	return b.String()
}
