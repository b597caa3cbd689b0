package filter

import (
	"context"
	"unicode/utf8"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

type retained struct {
	id    int
	norm  string
	runes int
}

func (f *implFilter) Apply(segs []segment.Segment) ([]segment.Segment, Stats) {
	ctx := context.Background()
	out := segment.Clone(segs)
	stats := Stats{Total: len(out)}

	var kept []retained
	for i := range out {
		s := &out[i]
		s.Included, s.DropReason, s.DuplicateOf = true, segment.DropNone, 0

		if f.exclude.Has(s.Label) {
			f.drop(ctx, s, segment.DropLabel)
			stats.Label++
			continue
		}

		norm := segment.Normalize(s.Text)
		if norm == "" {
			f.drop(ctx, s, segment.DropEmpty)
			stats.Empty++
			continue
		}
		if segment.WordCount(norm) < f.minWords {
			f.drop(ctx, s, segment.DropQuality)
			stats.Quality++
			continue
		}

		// only segments that survived the rules above can anchor a duplicate
		cand := retained{id: s.ID, norm: norm, runes: utf8.RuneCountInString(norm)}
		if orig, ok := f.duplicateOf(cand, kept); ok {
			f.drop(ctx, s, segment.DropDuplicate)
			s.DuplicateOf = orig
			stats.Duplicate++
			continue
		}
		kept = append(kept, cand)
	}

	stats.Kept = len(kept)
	f.logger.Info(ctx, "filter.Apply: kept %d/%d (label=%d empty=%d quality=%d duplicate=%d, %.1f%% reduction)",
		stats.Kept, stats.Total, stats.Label, stats.Empty, stats.Quality, stats.Duplicate, stats.Reduction())
	return out, stats
}

func (f *implFilter) drop(ctx context.Context, s *segment.Segment, reason segment.DropReason) {
	s.Included = false
	s.DropReason = reason
	f.logger.Debug(ctx, "filter.Apply: drop segment %d (%s): %q", s.ID, reason, s.Text)
}

// duplicateOf returns the ID of the earliest retained segment that matches
// cand exactly or with similarity at or above the threshold.
func (f *implFilter) duplicateOf(cand retained, kept []retained) (int, bool) {
	for _, k := range kept {
		if k.norm == cand.norm {
			return k.id, true
		}
	}
	if f.threshold >= 1 {
		return 0, false
	}
	for _, k := range kept {
		if lengthBound(k.runes, cand.runes) < f.threshold {
			continue
		}
		if Similarity(k.norm, cand.norm) >= f.threshold {
			return k.id, true
		}
	}
	return 0, false
}
