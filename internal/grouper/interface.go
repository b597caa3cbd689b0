package grouper

import "github.com/nguyentantai21042004/segment-flow/internal/segment"

// Grouper clusters retained segments into contiguous groups.
type Grouper interface {
	// Group makes a single greedy left-to-right pass over segs and returns
	// groups numbered from 0. Segments with Included=false are skipped but
	// still seal the open group unless groups may span dropped segments.
	Group(segs []segment.Segment) []segment.Group
}
