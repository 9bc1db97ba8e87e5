package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%d)", tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{12.5, "₹12.50"},
		{999.99, "₹999.99"},
		{12345.6, "₹12,346"},
		{-50, "-₹50.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1,235 km", FormatKm(1234.6))
	assert.Contains(t, []string{"21.2 L", "21.3 L"}, FormatLiters(21.25))
	assert.Equal(t, "18.4 km/L", FormatEfficiency(18.44))
	assert.Equal(t, "₹7.42/km", FormatRate(7.4249))
	assert.Equal(t, "15,230.5", FormatOdometer(15230.5))
	assert.Equal(t, "15,230", FormatOdometer(15230))
	assert.Equal(t, "12.3%", FormatPercent(12.345))
	assert.Equal(t, "-", FormatDate(time.Time{}))
}

func TestRenderFuelGauge(t *testing.T) {
	got := RenderFuelGauge(17.5, 35)
	assert.Equal(t, 5, strings.Count(got, "█"))
	assert.Equal(t, 5, strings.Count(got, "░"))
	assert.True(t, strings.HasSuffix(got, "17.5 L"), "gauge label = %q", got)

	assert.Equal(t, GaugeCells, strings.Count(RenderFuelGauge(0, 35), "░"))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Fills",
		Headers: []string{"Date", "Liters"},
		Rows: [][]string{
			{"2025-01-01", "30.0 L"},
			Separator,
			{"Total", "30.0 L"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, top, header, header rule, row, separator, row, bottom
	require.Len(t, lines, 8, out)
	assert.Contains(t, out, "2025-01-01")
	assert.Contains(t, out, "Total")

	assert.Empty(t, RenderTable(Table{}))
}
