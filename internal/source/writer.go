package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/fburn/internal/model"
)

// WriteFile replaces the log at path with entries. The rows are written to a
// temporary file in the same directory and renamed over the target, so a
// reader never sees a partial log.
func WriteFile(path string, entries []model.Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fburn-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp log: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := Write(tmp, entries); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing log: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing log: %w", err)
	}
	return nil
}

// Write encodes a header and one record per entry.
func Write(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(Record(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record converts an entry to its CSV fields.
func Record(e model.Entry) []string {
	rec := make([]string, len(Columns))
	rec[colID] = strconv.Itoa(e.ID)
	rec[colDate] = e.Date.Format(DateLayout)
	rec[colDriveProfile] = e.DriveProfile
	rec[colACMode] = e.ACMode
	rec[colLiters] = formatFloat(e.LitersAdded)
	rec[colCostPerLiter] = formatFloat(e.CostPerLiter)
	rec[colFullTank] = "False"
	if e.FullTank {
		rec[colFullTank] = "True"
	}
	rec[colOdometer] = formatFloat(e.Odometer)
	rec[colStateToll] = formatFloat(e.StateToll)
	rec[colPrivateToll] = formatFloat(e.PrivateToll)
	rec[colServiceCost] = formatFloat(e.ServiceCost)
	rec[colServiceDesc] = e.ServiceDesc
	rec[colCreated] = formatTimestamp(e.CreatedAt)
	rec[colEdited] = formatTimestamp(e.EditedAt)
	return rec
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
