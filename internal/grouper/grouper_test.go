package grouper

import (
	"reflect"
	"testing"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

func sec(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func seg(id int, start, end float64, label segment.Label) segment.Segment {
	return segment.Segment{ID: id, Start: sec(start), End: sec(end), Text: "text", Label: label, Included: true}
}

func newGrouper(mutate func(*config.GrouperConfig)) Grouper {
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg.Grouper)
	}
	return New(cfg.Grouper, logger.Nop())
}

// memberIDs flattens groups into their member IDs.
func memberIDs(groups []segment.Group) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		for _, s := range g.Segments {
			out[i] = append(out[i], s.ID)
		}
	}
	return out
}

func TestGroup(t *testing.T) {
	ex := segment.LabelExplanation
	tests := []struct {
		name   string
		mutate func(*config.GrouperConfig)
		segs   []segment.Segment
		want   [][]int
	}{
		{
			name: "idle gap seals",
			segs: []segment.Segment{seg(0, 0, 10, ex), seg(1, 20, 25, ex)},
			want: [][]int{{0}, {1}},
		},
		{
			name: "gap at limit joins",
			segs: []segment.Segment{seg(0, 0, 10, ex), seg(1, 15, 18, ex)},
			want: [][]int{{0, 1}},
		},
		{
			name: "transition starts new group",
			segs: []segment.Segment{seg(0, 0, 2, ex), seg(1, 2, 4, segment.LabelTransition), seg(2, 4, 6, ex)},
			want: [][]int{{0}, {1, 2}},
		},
		{
			name: "introduction first in input stays first",
			segs: []segment.Segment{seg(0, 0, 2, segment.LabelIntroduction), seg(1, 2, 4, ex)},
			want: [][]int{{0, 1}},
		},
		{
			name:   "size gate",
			mutate: func(c *config.GrouperConfig) { c.MaxGroupSize = 2 },
			segs:   []segment.Segment{seg(0, 0, 1, ex), seg(1, 1, 2, ex), seg(2, 2, 3, ex), seg(3, 3, 4, ex), seg(4, 4, 5, ex)},
			want:   [][]int{{0, 1}, {2, 3}, {4}},
		},
		{
			name:   "oversized segment is its own group",
			mutate: func(c *config.GrouperConfig) { c.MaxGroupDuration = 10 * time.Second },
			segs:   []segment.Segment{seg(0, 0, 2, ex), seg(1, 2, 30, ex), seg(2, 30, 32, ex)},
			want:   [][]int{{0}, {1}, {2}},
		},
		{
			name: "dropped segment seals",
			segs: func() []segment.Segment {
				s := []segment.Segment{seg(0, 0, 1, ex), seg(1, 1, 2, segment.LabelFiller), seg(2, 2, 3, ex)}
				s[1].Included = false
				return s
			}(),
			want: [][]int{{0}, {2}},
		},
		{
			name:   "dropped segment allowed within",
			mutate: func(c *config.GrouperConfig) { c.AllowDroppedWithin = true },
			segs: func() []segment.Segment {
				s := []segment.Segment{seg(0, 0, 1, ex), seg(1, 1, 2, segment.LabelFiller), seg(2, 2, 3, ex)}
				s[1].Included = false
				return s
			}(),
			want: [][]int{{0, 2}},
		},
		{
			name: "leading dropped segments ignored",
			segs: func() []segment.Segment {
				s := []segment.Segment{seg(0, 0, 1, segment.LabelGreeting), seg(1, 1, 2, ex), seg(2, 2, 3, ex)}
				s[0].Included = false
				return s
			}(),
			want: [][]int{{1, 2}},
		},
		{
			name: "no included segments",
			segs: func() []segment.Segment {
				s := []segment.Segment{seg(0, 0, 1, ex)}
				s[0].Included = false
				return s
			}(),
			want: [][]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := newGrouper(tt.mutate).Group(tt.segs)
			got := memberIDs(groups)
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Fatalf("groups = %v, want %v", got, tt.want)
			}
			for i, g := range groups {
				if g.ID != i {
					t.Errorf("group %d has ID %d", i, g.ID)
				}
			}
		})
	}
}

func TestGroupInvariants(t *testing.T) {
	ex := segment.LabelExplanation
	segs := []segment.Segment{
		seg(0, 0, 3, ex),
		seg(1, 3, 5, ex),
		seg(2, 12, 14, ex),
		seg(3, 14, 16, segment.LabelTransition),
		seg(4, 16, 19, ex),
		seg(5, 19, 21, segment.LabelFiller),
		seg(6, 21, 25, ex),
	}
	segs[5].Included = false

	groups := newGrouper(nil).Group(segs)

	seen := 0
	for i, g := range groups {
		if len(g.Segments) == 0 {
			t.Fatalf("group %d empty", i)
		}
		if g.Start != g.Segments[0].Start || g.End != g.Segments[len(g.Segments)-1].End {
			t.Errorf("group %d bounds [%v, %v) do not match members", i, g.Start, g.End)
		}
		if i > 0 && groups[i-1].End > g.Start {
			t.Errorf("groups %d and %d overlap", i-1, i)
		}
		for _, s := range g.Segments {
			if !s.Included {
				t.Errorf("dropped segment %d inside group %d", s.ID, i)
			}
			if s.Start < g.Start || s.End > g.End {
				t.Errorf("segment %d outside group %d", s.ID, i)
			}
			seen++
		}
		// no dropped segment may fall inside a group's range
		if g.Start < segs[5].End && segs[5].Start < g.End {
			t.Errorf("group %d overlaps dropped segment 5", i)
		}
	}
	if seen != 6 {
		t.Errorf("groups cover %d segments, want 6", seen)
	}
}

func TestGroupIdempotent(t *testing.T) {
	g := newGrouper(nil)
	segs := []segment.Segment{
		seg(0, 0, 2, segment.LabelExplanation),
		seg(1, 2, 4, segment.LabelTransition),
		seg(2, 10, 12, segment.LabelTip),
	}
	first := g.Group(segs)
	second := g.Group(segs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Group not deterministic:\n%+v\n%+v", first, second)
	}
}
