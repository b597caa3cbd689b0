package store

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

// ErrNotFound is returned by GetRun for an unknown run ID.
var ErrNotFound = errors.New("run not found")

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Run is the audit record of one pipeline run.
type Run struct {
	ID        string
	Source    string
	Objective string
	Status    Status
	Error     string
	OutputDir string
	StartedAt time.Time
	Duration  time.Duration

	SegmentCount  int
	KeptCount     int
	GroupCount    int
	FallbackCount int

	// Segments and Groups are only loaded by GetRun.
	Segments []segment.Segment
	Groups   []segment.Group
}

// Store persists runs for later inspection.
type Store interface {
	// RecordRun saves run with its segments and groups. An empty ID is
	// replaced with a new UUID, written back into run.
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns the most recent runs first, without segments or groups.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
