// Package ledger records simulation runs and the artifacts they export.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Export statuses.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Run describes one simulation run.
type Run struct {
	ID         string
	Seed       int64
	ConfigYAML string
	StartedAt  time.Time
}

// ExportRecord describes one export attempt.
type ExportRecord struct {
	RunID      string
	OrganismID uint32
	Name       string
	Generation int
	Tick       int64
	Artifact   string // path written by the renderer; empty on failure
	Status     string
	Error      string
	CreatedAt  time.Time
}

// Store persists runs and export records.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	RecordExport(ctx context.Context, rec ExportRecord) error
	ListExports(ctx context.Context, runID string) ([]ExportRecord, error)
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Tally counts export records by status.
func Tally(recs []ExportRecord) (done, failed int) {
	for _, r := range recs {
		switch r.Status {
		case StatusDone:
			done++
		case StatusFailed:
			failed++
		}
	}
	return done, failed
}
