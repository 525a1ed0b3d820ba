// Package store persists generated unit databases in SQLite.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/blk-extract/internal/model"
)

// ErrNotFound is returned when a run or unit does not exist.
var ErrNotFound = errors.New("not found")

// ListParams holds parameters for listing units.
type ListParams struct {
	RunID   string // empty means latest run
	Ammo    string // only units carrying this ammunition identifier
	Country string
	Limit   int // 0 means no limit
}

// Store defines the unit database storage interface.
type Store interface {
	// SaveRun records one generate_db run and its units.
	SaveRun(ctx context.Context, inputDir string, units []model.UnitRecord) (*model.Run, error)

	// LatestRun returns the most recently saved run.
	LatestRun(ctx context.Context) (*model.Run, error)

	// ListUnits lists units of a run matching the given filters, ordered by ID.
	ListUnits(ctx context.Context, p ListParams) ([]model.UnitRecord, error)

	// GetUnit retrieves one unit of a run. An empty runID means latest run.
	GetUnit(ctx context.Context, runID, id string) (*model.UnitRecord, error)

	// Close closes the store.
	Close() error
}
