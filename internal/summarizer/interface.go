package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

// Summarizer fills in one short summary per group.
type Summarizer interface {
	// Summarize returns a copy of groups with Summary and Source set. A
	// failed group gets a fallback summary and never fails the call. On
	// cancellation, groups not yet dispatched stay SummaryPending and the
	// context error is returned.
	Summarize(ctx context.Context, groups []segment.Group, objective string) ([]segment.Group, Stats, error)
}

type Stats struct {
	Total    int
	Model    int
	Fallback int
	Verbatim int
}
