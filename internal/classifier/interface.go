package classifier

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

// Classifier assigns exactly one taxonomy label to every segment.
type Classifier interface {
	// Classify returns a labeled copy of segs in the same order. On
	// cancellation the copy holds every label resolved so far (the rest stay
	// LabelUnset) together with the context error.
	Classify(ctx context.Context, segs []segment.Segment) ([]segment.Segment, Stats, error)
}

// Stats summarizes one classification pass.
type Stats struct {
	Total int
	// Shortcut counts segments labeled by the short-text rule without a call.
	Shortcut int
	Batches  int
	// BatchFallbacks counts batches re-classified one segment at a time.
	BatchFallbacks int
	// Invalid counts out-of-taxonomy answers replaced with unclassified.
	Invalid int
	// Failed counts segments whose calls were exhausted.
	Failed int
	Counts map[segment.Label]int
}
