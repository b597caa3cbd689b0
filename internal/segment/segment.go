package segment

import (
	"strings"
	"time"
)

// DropReason records why the filter excluded a segment.
type DropReason string

const (
	DropNone      DropReason = ""
	DropLabel     DropReason = "label"
	DropQuality   DropReason = "quality"
	DropDuplicate DropReason = "duplicate"
	DropEmpty     DropReason = "empty"
)

// Record is one raw entry from the speech-to-text collaborator.
type Record struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Segment is a timestamped span of transcribed text plus the annotations
// attached by the classifier and the filter.
type Segment struct {
	ID       int
	Start    time.Duration
	End      time.Duration
	Text     string
	Label    Label
	Included bool
	// DropReason is set together with Included=false.
	DropReason DropReason
	// DuplicateOf is the ID of the retained segment a duplicate matched.
	DuplicateOf int
}

// Clone returns a copy of segs so a stage can annotate without touching
// the previous stage's output.
func Clone(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	copy(out, segs)
	return out
}

// Included returns the sub-sequence of segs with Included set, in order.
func Included(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Included {
			out = append(out, s)
		}
	}
	return out
}

// JoinText concatenates segment texts in order, separated by single spaces.
func JoinText(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
