package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/pipeline"
	"github.com/theirongolddev/fburn/internal/tui/components"
	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCostsTab(cw int) string {
	t := theme.Active
	c := a.costs

	period := "all time"
	if a.days > 0 {
		period = fmt.Sprintf("last %dd", a.days)
	}

	perKm := "n/a"
	if c.HasCostPerKm {
		perKm = cli.FormatRate(c.CostPerKm)
	}
	var fuel, tolls float64
	for _, cat := range c.Categories {
		switch cat.Name {
		case pipeline.CategoryFuel:
			fuel = cat.Amount
		case pipeline.CategoryStateToll, pipeline.CategoryPrivateToll, pipeline.CategoryFastag:
			tolls += cat.Amount
		}
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total spend", Value: cli.FormatMoney(c.Total), Delta: period},
		{Label: "Cost per km", Value: perKm, Delta: cli.FormatKm(c.TotalDistance) + " driven"},
		{Label: "Fuel", Value: cli.FormatMoney(fuel), Delta: shareOf(fuel, c.Total)},
		{Label: "Tolls", Value: cli.FormatMoney(tolls), Delta: shareOf(tolls, c.Total)},
	}, cw))
	b.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.BlueBright).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	const nameW, amountW, shareW = 16, 12, 9
	barW := max(innerW-nameW-amountW-shareW-2, 8)

	colors := []lipgloss.Color{t.Orange, t.Blue, t.Magenta, t.Yellow, t.Cyan}
	var breakdown strings.Builder
	breakdown.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%*s%*s", nameW, "Category", amountW, "Amount", shareW, "Share")))
	for i, cat := range c.Categories {
		breakdown.WriteString("\n")
		breakdown.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, cat.Name)))
		breakdown.WriteString(costStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatMoney(cat.Amount))))
		breakdown.WriteString(valueStyle.Render(fmt.Sprintf("%*s  ", shareW, cli.FormatPercent(cat.SharePercent))))
		breakdown.WriteString(components.ShareBar(cat.SharePercent, barW, colors[i%len(colors)]))
	}
	breakdown.WriteString("\n")
	breakdown.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	breakdown.WriteString("\n")
	breakdown.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", nameW, "Total")))
	breakdown.WriteString(costStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatMoney(c.Total))))

	b.WriteString(components.ContentCard("Breakdown ("+period+")", breakdown.String(), cw))
	b.WriteString("\n")

	if len(a.months) > 0 {
		b.WriteString(components.ContentCard("Monthly", a.renderMonthlyBody(cw), cw))
	}
	return b.String()
}

func (a App) renderMonthlyBody(cw int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	format := "%-10s %6s %10s %11s %11s %11s %11s %12s"
	compact := a.isCompactLayout()
	if compact {
		format = "%-10s %6s %10s %11s %12s"
	}
	cols := func(vals ...string) []any {
		if compact {
			vals = []string{vals[0], vals[1], vals[2], vals[3], vals[7]}
		}
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(format,
		cols("Month", "Fills", "Liters", "Distance", "Fuel", "Tolls", "Service", "Total")...)))
	for _, m := range a.months {
		style := rowStyle
		if m.Fills == 0 {
			style = dimStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf(format, cols(
			cli.FormatMonth(m.Month),
			fmt.Sprintf("%d", m.Fills),
			cli.FormatLiters(m.Liters),
			cli.FormatKm(m.Distance),
			cli.FormatMoney(m.FuelCost),
			cli.FormatMoney(m.TollCost),
			cli.FormatMoney(m.ServiceCost),
			cli.FormatMoney(m.TotalCost),
		)...)))
	}
	return b.String()
}

func shareOf(part, total float64) string {
	if total <= 0 {
		return ""
	}
	return cli.FormatPercent(part/total*100) + " of spend"
}
