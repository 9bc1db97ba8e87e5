package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/theirongolddev/fburn/internal/model"
)

// MaxReportDays bounds the span of a report.
const MaxReportDays = 365

// ErrInvalidRange is returned for a report window that ends before it
// starts or spans more than MaxReportDays.
var ErrInvalidRange = errors.New("invalid report range")

// ReportRange validates an inclusive [start, end] date window.
func ReportRange(start, end time.Time) error {
	start, end = day(start), day(end)
	if end.Before(start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange,
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if days := int(end.Sub(start).Hours() / 24); days > MaxReportDays {
		return fmt.Errorf("%w: %d days exceeds the %d day limit", ErrInvalidRange, days, MaxReportDays)
	}
	return nil
}

// FilterReport returns entries dated within the inclusive [start, end]
// window, sorted by date then entry ID.
func FilterReport(entries []model.Entry, start, end time.Time) ([]model.Entry, error) {
	if err := ReportRange(start, end); err != nil {
		return nil, err
	}
	out := FilterByTime(entries, day(start), day(end).AddDate(0, 0, 1))
	out = OrderEntries(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Window returns the [since, until) range covering the last days calendar
// days up to and including now. days <= 0 means all time: since is the day
// of the earliest entry, or until when there are none.
func Window(entries []model.Entry, days int, now time.Time) (time.Time, time.Time) {
	until := day(now).AddDate(0, 0, 1)
	if days > 0 {
		return until.AddDate(0, 0, -days), until
	}
	since := until
	for _, e := range entries {
		if d := day(e.Date); d.Before(since) {
			since = d
		}
	}
	return since, until
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

