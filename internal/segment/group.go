package segment

import "time"

// SummarySource tells where a group's summary came from.
type SummarySource string

const (
	SummaryPending  SummarySource = ""
	SummaryModel    SummarySource = "model"
	SummaryFallback SummarySource = "fallback"
	SummaryVerbatim SummarySource = "verbatim"
)

// Group is a contiguous, time-bounded run of retained segments.
type Group struct {
	ID       int
	Start    time.Duration
	End      time.Duration
	Summary  string
	Source   SummarySource
	Segments []Segment
}

// NewGroup builds a group over members, deriving its bounds.
// members must be non-empty.
func NewGroup(id int, members []Segment) Group {
	g := Group{
		ID:       id,
		Start:    members[0].Start,
		End:      members[0].End,
		Segments: Clone(members),
	}
	for _, m := range members[1:] {
		if m.Start < g.Start {
			g.Start = m.Start
		}
		if m.End > g.End {
			g.End = m.End
		}
	}
	return g
}

// Text is the original-order concatenation of member texts.
func (g Group) Text() string {
	return JoinText(g.Segments)
}

// CloneGroups deep-copies groups including their member slices.
func CloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		g.Segments = Clone(g.Segments)
		out[i] = g
	}
	return out
}
