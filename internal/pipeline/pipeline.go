package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/transcript"
)

func (p *implPipeline) Run(ctx context.Context, records []segment.Record, objective string) (*Result, error) {
	if len(records) == 0 {
		return nil, &FatalError{Err: ErrNoSegments}
	}

	segs, issues := segment.Ingest(records)
	for _, issue := range issues {
		p.logger.Warn(ctx, "pipeline.Run: dropped input record: %v", issue)
	}
	res := &Result{Segments: segs, Issues: issues}
	if len(segs) == 0 {
		return res, &FatalError{Err: ErrNoSegments}
	}
	p.logger.Info(ctx, "pipeline.Run: %d segments ingested, %d dropped", len(segs), len(issues))

	start := time.Now()
	labeled, cstats, err := p.classifier.Classify(ctx, segs)
	res.Timings.Classify = time.Since(start)
	res.Segments, res.Classifier = labeled, cstats
	if err != nil {
		return res, err
	}

	start = time.Now()
	filtered, fstats := p.filter.Apply(labeled)
	res.Timings.Filter = time.Since(start)
	res.Segments, res.Filter = filtered, fstats
	if fstats.Kept == 0 {
		return res, &FatalError{Err: ErrAllFiltered}
	}

	start = time.Now()
	groups := p.grouper.Group(filtered)
	res.Timings.Group = time.Since(start)
	res.Groups = groups

	start = time.Now()
	summarized, sstats, err := p.summarizer.Summarize(ctx, groups, objective)
	res.Timings.Summarize = time.Since(start)
	res.Groups, res.Summarizer = summarized, sstats
	if err != nil {
		return res, err
	}

	p.logger.Info(ctx, "pipeline.Run: %d groups in %s (classify %s, summarize %s)",
		len(res.Groups),
		transcript.FormatDuration(res.Timings.Total()),
		transcript.FormatDuration(res.Timings.Classify),
		transcript.FormatDuration(res.Timings.Summarize))
	return res, nil
}
