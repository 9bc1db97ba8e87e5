// Package store provides a SQLite-backed cache of parsed fuel log entries.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateLayout = "2006-01-02"

// Cache provides SQLite-backed entry caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	Vehicle   string
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, vehicle, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.Vehicle, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveLog replaces every cached entry of a log file and records its
// mtime and size, in one transaction.
func (c *Cache) SaveLog(vehicle, filePath string, entries []model.Entry, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM entries WHERE file_path = ? OR vehicle = ?", filePath, vehicle); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO entries
		(vehicle, entry_id, file_path, date, drive_profile, ac_mode,
		 liters_added, cost_per_liter, full_tank, odometer,
		 state_toll, private_toll, service_cost, service_desc, created_at, edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		fullTank := 0
		if e.FullTank {
			fullTank = 1
		}
		_, err = stmt.Exec(
			vehicle, e.ID, filePath, e.Date.Format(dateLayout), e.DriveProfile, e.ACMode,
			e.LitersAdded, e.CostPerLiter, fullTank, e.Odometer,
			e.StateToll, e.PrivateToll, e.ServiceCost, e.ServiceDesc,
			formatTime(e.CreatedAt), formatTime(e.EditedAt),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, vehicle, mtime_ns, size_bytes, parsed_at)
		VALUES (?, ?, ?, ?, ?)`, filePath, vehicle, mtimeNs, sizeBytes, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAllEntries reads all cached entries ordered by vehicle and entry ID.
func (c *Cache) LoadAllEntries() ([]model.Entry, error) {
	rows, err := c.db.Query(`SELECT
		vehicle, entry_id, file_path, date, drive_profile, ac_mode,
		liters_added, cost_per_liter, full_tank, odometer,
		state_toll, private_toll, service_cost, service_desc, created_at, edited_at
		FROM entries ORDER BY vehicle, entry_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		var date string
		var profile, acMode, desc, created, edited sql.NullString
		var fullTank int

		err := rows.Scan(
			&e.Vehicle, &e.ID, &e.FilePath, &date, &profile, &acMode,
			&e.LitersAdded, &e.CostPerLiter, &fullTank, &e.Odometer,
			&e.StateToll, &e.PrivateToll, &e.ServiceCost, &desc, &created, &edited,
		)
		if err != nil {
			return nil, err
		}

		e.Date, _ = time.Parse(dateLayout, date)
		e.DriveProfile = profile.String
		e.ACMode = acMode.String
		e.FullTank = fullTank != 0
		e.ServiceDesc = desc.String
		e.CreatedAt = parseTime(created)
		e.EditedAt = parseTime(edited)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteFile removes a log's cached entries and its tracking row.
func (c *Cache) DeleteFile(filePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM entries WHERE file_path = ?", filePath); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

// EntryCount returns the number of cached entries.
func (c *Cache) EntryCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s.String)
	return t
}
