package filter

import "github.com/nguyentantai21042004/segment-flow/internal/segment"

// Filter decides which labeled segments are kept.
type Filter interface {
	// Apply returns an annotated copy of segs: dropped segments keep their
	// place with Included=false and a DropReason. Applying it again to its
	// own output yields the same result.
	Apply(segs []segment.Segment) ([]segment.Segment, Stats)
}

// Stats counts drops per rule. A segment is counted once, under the first
// rule that dropped it.
type Stats struct {
	Total     int
	Label     int
	Empty     int
	Quality   int
	Duplicate int
	Kept      int
}

// Reduction is the percentage of segments removed.
func (s Stats) Reduction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Total-s.Kept) / float64(s.Total) * 100
}
