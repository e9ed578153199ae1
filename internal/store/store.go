// Package store keeps the history of matching runs.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// ErrRunNotFound is returned (wrapped) when a run id does not exist.
var ErrRunNotFound = eris.New("run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, source string, threshold float64) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, stats *model.RunStats) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// IsNotFound reports whether err is, or wraps, ErrRunNotFound.
func IsNotFound(err error) bool {
	return eris.Is(err, ErrRunNotFound)
}

const defaultListLimit = 100

func listLimit(filter RunFilter) int {
	if filter.Limit <= 0 {
		return defaultListLimit
	}
	return filter.Limit
}
