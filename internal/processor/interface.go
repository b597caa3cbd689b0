package processor

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/pipeline"
)

// Processor turns one transcript file into grouped, summarized artifacts.
type Processor interface {
	// Run processes path and reports what was written. The input is left
	// where it is.
	Run(ctx context.Context, path, objective string) (*Report, error)
	// Process is the watch-mode handler: it runs path with the objective read
	// from its sidecar file, then moves the input to the archive folder.
	Process(ctx context.Context, path string) error
}

// Report describes a finished run.
type Report struct {
	RunID     string
	Source    string
	Result    *pipeline.Result
	Artifacts pipeline.Artifacts
}
