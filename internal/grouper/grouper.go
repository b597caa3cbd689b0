package grouper

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

// sealReason names the gate that closed a group.
type sealReason string

const (
	sealNone     sealReason = ""
	sealDropped  sealReason = "dropped segment"
	sealBoundary sealReason = "boundary label"
	sealIdle     sealReason = "idle gap"
	sealSize     sealReason = "size"
	sealDuration sealReason = "duration"
)

// openGroup is the group being built.
type openGroup struct {
	members []segment.Segment
	start   time.Duration
	end     time.Duration
}

func (o *openGroup) add(s segment.Segment) {
	if len(o.members) == 0 {
		o.start, o.end = s.Start, s.End
	}
	o.start = min(o.start, s.Start)
	o.end = max(o.end, s.End)
	o.members = append(o.members, s)
}

func (g *implGrouper) Group(segs []segment.Segment) []segment.Group {
	ctx := context.Background()

	var (
		groups     []segment.Group
		cur        openGroup
		droppedGap bool
	)
	seal := func() {
		if len(cur.members) == 0 {
			return
		}
		groups = append(groups, segment.NewGroup(len(groups), cur.members))
		cur = openGroup{}
	}

	for _, s := range segs {
		if !s.Included {
			if len(cur.members) > 0 {
				droppedGap = true
			}
			continue
		}

		if len(cur.members) > 0 {
			if reason := g.sealBefore(&cur, s, droppedGap); reason != sealNone {
				g.logger.Debug(ctx, "grouper.Group: seal group %d before segment %d (%s)", len(groups), s.ID, reason)
				seal()
			}
		}
		cur.add(s)
		droppedGap = false
	}
	seal()

	g.logger.Info(ctx, "grouper.Group: %d groups", len(groups))
	return groups
}

// sealBefore reports why s cannot join cur, or sealNone. Boundary labels
// are checked before the proximity gates so they always win.
func (g *implGrouper) sealBefore(cur *openGroup, s segment.Segment, droppedGap bool) sealReason {
	last := cur.members[len(cur.members)-1]

	switch {
	case droppedGap && !g.cfg.AllowDroppedWithin:
		return sealDropped
	case g.cfg.Boundary.Has(s.Label):
		return sealBoundary
	case s.Start-last.End > g.cfg.MaxIdleGap:
		return sealIdle
	case g.cfg.MaxGroupSize > 0 && len(cur.members) >= g.cfg.MaxGroupSize:
		return sealSize
	case g.cfg.MaxGroupDuration > 0 && max(cur.end, s.End)-cur.start > g.cfg.MaxGroupDuration:
		return sealDuration
	}
	return sealNone
}
