package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/fburn/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestReportRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"same day", "2025-01-01", "2025-01-01", false},
		{"one year", "2025-01-01", "2026-01-01", false},
		{"over a year", "2024-01-01", "2025-01-01", true},
		{"end before start", "2025-02-01", "2025-01-31", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReportRange(date(tt.start), date(tt.end))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilterReport(t *testing.T) {
	got, err := FilterReport(swiftLog(), date("2025-01-20"), date("2025-02-08"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID, "end date is inclusive")

	_, err = FilterReport(swiftLog(), date("2025-02-08"), date("2025-01-20"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	since, until := Window(swiftLog(), 30, now)
	assert.Equal(t, date("2025-03-11"), until)
	assert.Equal(t, date("2025-02-09"), since)

	t.Run("zero days spans the whole history", func(t *testing.T) {
		entries := []model.Entry{
			mkEntry("swift", 2, "2025-01-15", 1400, 20, 100, true),
			mkEntry("swift", 1, "2024-11-03", 1000, 30, 100, true),
		}
		since, until := Window(entries, 0, now)
		assert.Equal(t, date("2024-11-03"), since)
		assert.Equal(t, date("2025-03-11"), until)

		months := AggregateMonths(entries, since, until)
		require.Len(t, months, 5) // Nov 2024 through Mar 2025
		assert.Equal(t, date("2024-11-01"), months[len(months)-1].Month)
		assert.Equal(t, 1, months[len(months)-1].Fills)
		assert.InDelta(t, 3000, months[len(months)-1].FuelCost, 1e-9)
	})

	t.Run("zero days without entries is empty", func(t *testing.T) {
		since, until := Window(nil, 0, now)
		assert.Equal(t, since, until)
	})
}
