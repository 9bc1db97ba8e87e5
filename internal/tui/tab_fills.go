package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/estimator"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/tui/components"
	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// fillsState tracks the fills tab list position. cursor 0 is the newest entry.
type fillsState struct {
	cursor int
	offset int
}

func (s *fillsState) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *fillsState) down(n int) {
	if s.cursor < n-1 {
		s.cursor++
	}
}

func (s *fillsState) clamp(n int) {
	s.cursor = min(s.cursor, max(n-1, 0))
	s.offset = min(s.offset, s.cursor)
}

// scroll keeps the cursor inside a window of visible rows.
func (s *fillsState) scroll(visible int) {
	if visible < 1 {
		visible = 1
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
}

func (a App) renderFillsTab(cw, h int) string {
	t := theme.Active
	log := a.selectedLog()
	entries := log.Entries
	if len(entries) == 0 {
		return a.renderEmpty(cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	fullStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	// economy of the interval each full-tank entry closes
	economy := make(map[int]estimator.Sample)
	for _, s := range estimator.Samples(model.FuelEvents(entries)) {
		economy[s.To.Seq] = s
	}

	innerW := components.CardInnerWidth(cw)
	compact := a.isCompactLayout()
	format := "%-6s %-11s %11s %9s %-5s %11s %11s"
	cols := []any{"ID", "Date", "Odometer", "Liters", "Tank", "Cost", "Economy"}
	if !compact {
		format += "  %-20s"
		cols = append(cols, "Conditions")
	}

	// detail card takes 6 lines; header, rule and card borders take 4
	visible := max(h-6-4-1, 3)
	fs := a.fills
	fs.scroll(visible)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf(format, cols...)))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))

	end := min(fs.offset+visible, len(entries))
	for row := fs.offset; row < end; row++ {
		e := entries[len(entries)-1-row]

		tank := ""
		if e.FullTank {
			tank = "full"
		}
		kmpl := ""
		if s, ok := economy[e.ID]; ok {
			kmpl = "n/a"
			if s.Valid {
				kmpl = cli.FormatEfficiency(s.Efficiency)
			}
		}
		vals := []any{
			fmt.Sprintf("#%d", e.ID),
			cli.FormatDate(e.Date),
			cli.FormatOdometer(e.Odometer),
			cli.FormatLiters(e.LitersAdded),
			tank,
			cli.FormatMoney(e.FuelCost()),
			kmpl,
		}
		if !compact {
			vals = append(vals, truncStr(e.DriveProfile+" / "+e.ACMode, 20))
		}
		line := fmt.Sprintf(format, vals...)

		body.WriteString("\n")
		switch {
		case row == fs.cursor:
			pad := max(innerW-lipgloss.Width(line), 0)
			body.WriteString(selStyle.Render(line + strings.Repeat(" ", pad)))
		case e.FullTank:
			body.WriteString(fullStyle.Render(line))
		default:
			body.WriteString(rowStyle.Render(line))
		}
	}

	title := fmt.Sprintf("Fills · %s (%d entries)", log.Vehicle, len(entries))
	var b strings.Builder
	b.WriteString(components.ContentCard(title, body.String(), cw))
	b.WriteString("\n")

	sel := entries[len(entries)-1-fs.cursor]
	b.WriteString(components.ContentCard(fmt.Sprintf("Entry #%d", sel.ID), renderEntryDetail(sel, economy), cw))
	return b.String()
}

func renderEntryDetail(e model.Entry, economy map[int]estimator.Sample) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	pair := func(label, value string) string {
		return labelStyle.Render(label+" ") + valueStyle.Render(value)
	}
	gap := spaceStyle.Render("   ")

	interval := "-"
	if s, ok := economy[e.ID]; ok {
		interval = fmt.Sprintf("%s on %s", cli.FormatKm(s.Distance), cli.FormatLiters(s.Liters))
	}
	service := cli.FormatMoney(e.ServiceCost)
	if e.ServiceDesc != "" {
		service += " (" + e.ServiceDesc + ")"
	}
	edited := "never"
	if e.Edited() {
		edited = e.EditedAt.Local().Format("2006-01-02 15:04")
	}

	lines := []string{
		pair("Price", cli.FormatMoney(e.CostPerLiter)+"/L") + gap + pair("Fuel", cli.FormatMoney(e.FuelCost())) + gap + pair("Interval", interval),
		pair("State toll", cli.FormatMoney(e.StateToll)) + gap + pair("Private toll", cli.FormatMoney(e.PrivateToll)),
		pair("Service", service),
		pair("Edited", edited),
	}
	return strings.Join(lines, "\n")
}
