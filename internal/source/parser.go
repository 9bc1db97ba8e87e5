package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fburn/internal/model"
)

// ErrBadHeader is returned when a log does not start with Columns.
var ErrBadHeader = errors.New("unexpected log header")

// ParseResult holds the output of parsing a single log file.
type ParseResult struct {
	File        DiscoveredFile
	Entries     []model.Entry
	ParseErrors int
	Err         error
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseFile reads a vehicle log. Malformed rows are counted in ParseErrors
// and skipped; only unreadable files or a wrong header set Err.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	res := Parse(f, df.Vehicle)
	res.File = df
	for i := range res.Entries {
		res.Entries[i].FilePath = df.Path
	}
	return res
}

// Parse reads log rows from r and tags them with vehicle.
func Parse(r io.Reader, vehicle string) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return ParseResult{}
	}
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}
	if !headerMatches(header) {
		return ParseResult{Err: fmt.Errorf("%w: %s", ErrBadHeader, strings.Join(header, ","))}
	}

	var res ParseResult
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.ParseErrors++
				continue
			}
			res.Err = err
			break
		}

		e, err := ParseRecord(rec)
		if err != nil {
			res.ParseErrors++
			continue
		}
		e.Vehicle = vehicle
		res.Entries = append(res.Entries, e)
	}
	return res
}

func headerMatches(header []string) bool {
	if len(header) != len(Columns) {
		return false
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) != Columns[i] {
			return false
		}
	}
	return true
}

// ParseRecord converts one CSV record into an entry.
func ParseRecord(rec []string) (model.Entry, error) {
	var e model.Entry
	if len(rec) != len(Columns) {
		return e, fmt.Errorf("expected %d fields, got %d", len(Columns), len(rec))
	}

	id, err := strconv.Atoi(strings.TrimSpace(rec[colID]))
	if err != nil {
		return e, fmt.Errorf("column Entry_ID: %w", err)
	}
	e.ID = id

	if e.Date, err = time.Parse(DateLayout, strings.TrimSpace(rec[colDate])); err != nil {
		return e, fmt.Errorf("column Date: %w", err)
	}
	e.DriveProfile = strings.TrimSpace(rec[colDriveProfile])
	e.ACMode = strings.TrimSpace(rec[colACMode])

	floats := []struct {
		col int
		dst *float64
	}{
		{colLiters, &e.LitersAdded},
		{colCostPerLiter, &e.CostPerLiter},
		{colOdometer, &e.Odometer},
		{colStateToll, &e.StateToll},
		{colPrivateToll, &e.PrivateToll},
		{colServiceCost, &e.ServiceCost},
	}
	for _, fl := range floats {
		v, err := parseAmount(rec[fl.col])
		if err != nil {
			return e, fmt.Errorf("column %s: %w", Columns[fl.col], err)
		}
		*fl.dst = v
	}

	if e.FullTank, err = parseBool(rec[colFullTank]); err != nil {
		return e, fmt.Errorf("column Full_Tank: %w", err)
	}

	e.ServiceDesc = rec[colServiceDesc]
	if e.CreatedAt, err = parseTimestamp(rec[colCreated]); err != nil {
		return e, fmt.Errorf("column Timestamp_Created: %w", err)
	}
	if e.EditedAt, err = parseTimestamp(rec[colEdited]); err != nil {
		return e, fmt.Errorf("column Timestamp_Edited: %w", err)
	}
	return e, nil
}

// parseAmount treats blank and NaN cells as 0.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %v", v)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || s == "NaT" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
