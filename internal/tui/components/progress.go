package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders the loading bar with a percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := int(pct * float64(width))

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// FuelGauge renders the tank level as a bar followed by "level / capacity L".
// The bar turns orange under a quarter tank and red under a tenth.
func FuelGauge(level, capacity float64, barWidth int) string {
	t := theme.Active

	frac := 0.0
	if capacity > 0 {
		frac = clamp01(level / capacity)
	}
	color := t.FuelColor(frac)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	valueStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	capStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		valueStyle.Render(fmt.Sprintf("%.1f", level)) +
		capStyle.Render(fmt.Sprintf(" / %.0f L", capacity))
}

// ShareBar renders a thin bar for a 0-100 share, used by the cost tab.
func ShareBar(sharePct float64, width int, color lipgloss.Color) string {
	t := theme.Active
	frac := clamp01(sharePct / 100)
	filled := int(frac*float64(width) + 0.5)

	filledStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	return filledStyle.Render(strings.Repeat("▇", filled)) +
		emptyStyle.Render(strings.Repeat("·", width-filled))
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
