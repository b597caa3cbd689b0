package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/classifier"
	"github.com/nguyentantai21042004/segment-flow/internal/filter"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/summarizer"
)

// Pipeline runs Classifier, Filter, Grouper and Summarizer in order, each
// stage consuming the previous stage's complete output.
type Pipeline interface {
	// Run processes records end to end. It fails with a FatalError when no
	// segment is left to group, and with the context error when canceled;
	// in the latter case the returned Result holds whatever was completed.
	Run(ctx context.Context, records []segment.Record, objective string) (*Result, error)
}

// Result carries every stage's output so callers can persist the audit trail.
type Result struct {
	// Segments is the full annotated sequence, dropped segments included.
	Segments []segment.Segment
	Groups   []segment.Group
	Issues   []*segment.IntegrityError

	Classifier classifier.Stats
	Filter     filter.Stats
	Summarizer summarizer.Stats
	Timings    Timings
}

type Timings struct {
	Classify  time.Duration
	Filter    time.Duration
	Group     time.Duration
	Summarize time.Duration
}

// Total is the sum of all stage durations.
func (t Timings) Total() time.Duration {
	return t.Classify + t.Filter + t.Group + t.Summarize
}
