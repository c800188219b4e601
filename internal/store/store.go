package store

import (
	"context"
	"errors"

	"github.com/groblegark/fleetboard/internal/model"
)

// ErrNotFound is returned when an increment targets a plate with no row.
// Callers are expected to EnsureVehicle first, so hitting this indicates a
// sequencing bug rather than bad input.
var ErrNotFound = errors.New("vehicle not found")

// Store defines the persistence interface for punctuality counters.
type Store interface {
	// EnsureVehicle inserts a zeroed row for plate if absent. It never
	// touches existing counters and is safe under concurrent calls for the
	// same plate.
	EnsureVehicle(ctx context.Context, plate string) error

	// IncrementCounter atomically adds one to the counter selected by
	// status. Returns ErrNotFound when no row exists for plate.
	IncrementCounter(ctx context.Context, plate string, status model.Status) error

	// GetCounts returns the current counters for plate, zero-valued when
	// the plate has never been seen.
	GetCounts(ctx context.Context, plate string) (model.Counts, error)

	// ListVehicles returns every counter row ordered by plate.
	ListVehicles(ctx context.Context) ([]*model.Vehicle, error)

	// ResetAll sets every row's counters to zero. Rows are never deleted.
	ResetAll(ctx context.Context) error

	// Lifecycle
	Close() error
}
