// Package logbook is the write path for a single vehicle log: recording
// fill-ups and attaching transit and maintenance costs to them.
package logbook

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/source"
)

var (
	// ErrOdometerNotIncreasing rejects a reading at or below the highest one logged.
	ErrOdometerNotIncreasing = errors.New("odometer must be greater than the last recorded reading")
	// ErrEntryNotFound is returned when an entry ID is not in the log.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidInput wraps field validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// FuelInput is a new fill-up as entered by the user.
type FuelInput struct {
	Date         time.Time
	DriveProfile string
	ACMode       string
	LitersAdded  float64
	CostPerLiter float64
	FullTank     bool
	Odometer     float64
}

// TransitInput replaces the toll and service fields of an entry.
type TransitInput struct {
	StateToll   float64
	PrivateToll float64
	ServiceCost float64
	ServiceDesc string
}

// Book is an open vehicle log. Every mutation rewrites the file.
type Book struct {
	mu      sync.Mutex
	path    string
	vehicle string
	entries []model.Entry

	// Now is the clock used for created/edited timestamps.
	Now func() time.Time
}

// Open loads the log at path, creating it with just a header if missing.
// Malformed rows are dropped with the rest of the log intact; the count is
// returned alongside the book.
func Open(path, vehicle string) (*Book, int, error) {
	b := &Book{path: path, vehicle: vehicle, Now: time.Now}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := source.WriteFile(path, nil); err != nil {
			return nil, 0, err
		}
		return b, 0, nil
	}

	res := source.ParseFile(source.DiscoveredFile{Path: path, Vehicle: vehicle})
	if res.Err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, res.Err)
	}
	b.entries = res.Entries
	return b, res.ParseErrors, nil
}

// Path returns the log file path.
func (b *Book) Path() string { return b.path }

// Vehicle returns the vehicle name.
func (b *Book) Vehicle() string { return b.vehicle }

// Entries returns a copy of the log rows in file order.
func (b *Book) Entries() []model.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.entries)
}

// MaxOdometer returns the highest reading logged, or 0 for an empty log.
func (b *Book) MaxOdometer() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxOdometer()
}

func (b *Book) maxOdometer() float64 {
	var m float64
	for _, e := range b.entries {
		m = max(m, e.Odometer)
	}
	return m
}

func (b *Book) nextID() int {
	id := 0
	for _, e := range b.entries {
		id = max(id, e.ID)
	}
	return id + 1
}

// AddFuel validates and appends a fill-up.
func (b *Book) AddFuel(in FuelInput) (model.Entry, error) {
	if err := in.validate(); err != nil {
		return model.Entry{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) > 0 && in.Odometer <= b.maxOdometer() {
		return model.Entry{}, fmt.Errorf("%w (%.0f <= %.0f)", ErrOdometerNotIncreasing, in.Odometer, b.maxOdometer())
	}

	e := model.Entry{
		ID:           b.nextID(),
		Vehicle:      b.vehicle,
		FilePath:     b.path,
		Date:         in.Date,
		DriveProfile: in.DriveProfile,
		ACMode:       in.ACMode,
		LitersAdded:  in.LitersAdded,
		CostPerLiter: in.CostPerLiter,
		FullTank:     in.FullTank,
		Odometer:     in.Odometer,
		CreatedAt:    b.Now(),
	}

	next := append(slices.Clone(b.entries), e)
	if err := source.WriteFile(b.path, next); err != nil {
		return model.Entry{}, err
	}
	b.entries = next
	return e, nil
}

// UpdateTransit replaces the toll and service fields of entry id.
func (b *Book) UpdateTransit(id int, in TransitInput) (model.Entry, error) {
	if in.StateToll < 0 || in.PrivateToll < 0 || in.ServiceCost < 0 {
		return model.Entry{}, fmt.Errorf("%w: amounts must be non-negative", ErrInvalidInput)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := slices.IndexFunc(b.entries, func(e model.Entry) bool { return e.ID == id })
	if idx < 0 {
		return model.Entry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}

	next := slices.Clone(b.entries)
	e := &next[idx]
	e.StateToll = in.StateToll
	e.PrivateToll = in.PrivateToll
	e.ServiceCost = in.ServiceCost
	e.ServiceDesc = in.ServiceDesc
	e.EditedAt = b.Now()

	if err := source.WriteFile(b.path, next); err != nil {
		return model.Entry{}, err
	}
	b.entries = next
	return *e, nil
}

func (in FuelInput) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !slices.Contains(model.DriveProfiles, in.DriveProfile) {
		return fmt.Errorf("%w: drive profile %q (want one of %v)", ErrInvalidInput, in.DriveProfile, model.DriveProfiles)
	}
	if !slices.Contains(model.ACModes, in.ACMode) {
		return fmt.Errorf("%w: AC mode %q (want one of %v)", ErrInvalidInput, in.ACMode, model.ACModes)
	}
	if in.LitersAdded < 0 || in.CostPerLiter < 0 || in.Odometer < 0 {
		return fmt.Errorf("%w: liters, price and odometer must be non-negative", ErrInvalidInput)
	}
	return nil
}
