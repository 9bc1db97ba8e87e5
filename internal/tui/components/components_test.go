package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/fburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// TrueColor so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, LayoutRow(10, 3))
	assert.Nil(t, LayoutRow(10, 0))
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	require.Less(t, shortLines, tallLines)

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	assert.Len(t, lines, tallLines)

	for i := shortLines; i < len(lines); i++ {
		assert.Contains(t, lines[i], "\x1b[", "padding line %d has no styling", i)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Economy", Value: "18.2 km/L"},
		{Label: "Fuel", Value: "21.0 L", Delta: "60% of tank"},
		{Label: "Range", Value: "382 km"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		assert.Equal(t, 90, lipgloss.Width(line), "line %d", i)
	}
}

func TestFuelGaugeLabel(t *testing.T) {
	g := FuelGauge(7.5, 35, 20)
	assert.Contains(t, g, "7.5")
	assert.Contains(t, g, "/ 35 L")

	// overfull renders like a full tank
	assert.Equal(t, lipgloss.Width(FuelGauge(35, 35, 20)), lipgloss.Width(FuelGauge(100, 35, 20)))
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 1, TabIdxByKey('f'))
	assert.Equal(t, len(Tabs)-1, TabIdxByKey('x'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestTabVisualWidth(t *testing.T) {
	// one column of padding each side
	assert.Equal(t, len("Fills")+2, TabVisualWidth(Tabs[1], false))
	assert.Equal(t, len("Settings")+3+2, TabVisualWidth(Tabs[3], false), "inactive Settings adds [x]")
	assert.Equal(t, len("Dashboard")+2, TabVisualWidth(Tabs[0], true))
}
