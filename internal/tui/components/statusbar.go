package components

import (
	"strings"

	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, dataAge string, refreshing, autoRefresh bool) string {
	t := theme.Active

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := textStyle.Render(" ") +
		keyStyle.Render("[?]") + textStyle.Render("help  ") +
		keyStyle.Render("[r]") + textStyle.Render("efresh  ") +
		keyStyle.Render("[q]") + textStyle.Render("uit")

	var right string
	switch {
	case refreshing:
		right = textStyle.Render("refreshing… ")
	case autoRefresh:
		right = dimStyle.Render("auto ") + textStyle.Render("Data: "+dataAge+" ")
	case dataAge != "":
		right = textStyle.Render("Data: " + dataAge + " ")
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + textStyle.Render(strings.Repeat(" ", padding)) + right
}
