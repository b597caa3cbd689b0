package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/workpool"
)

// batchResult is owned by exactly one batch task.
type batchResult struct {
	done     bool
	labels   []segment.Label
	fellBack bool
	invalid  int
	failed   int
}

func (c *implClassifier) Classify(ctx context.Context, segs []segment.Segment) ([]segment.Segment, Stats, error) {
	out := segment.Clone(segs)
	stats := Stats{Total: len(out), Counts: map[segment.Label]int{}}

	var pending []int
	for i := range out {
		if l, ok := c.shortcut(out[i].Text); ok {
			out[i].Label = l
			stats.Shortcut++
			continue
		}
		pending = append(pending, i)
	}

	batches := c.makeBatches(out, pending)
	stats.Batches = len(batches)
	results := make([]batchResult, len(batches))

	c.logger.Info(ctx, "classifier.Classify: %d segments, %d via shortcut, %d batches", len(out), stats.Shortcut, len(batches))

	runErr := workpool.Run(ctx, len(batches), c.cfg.MaxConcurrent, func(taskCtx context.Context, b int) {
		texts := make([]string, len(batches[b]))
		for j, idx := range batches[b] {
			texts[j] = out[idx].Text
		}
		results[b] = c.classifyBatch(taskCtx, b, texts)
	})

	for b, idxs := range batches {
		r := results[b]
		if !r.done {
			continue
		}
		for j, idx := range idxs {
			out[idx].Label = r.labels[j]
		}
		if r.fellBack {
			stats.BatchFallbacks++
		}
		stats.Invalid += r.invalid
		stats.Failed += r.failed
	}

	for _, s := range out {
		if s.Label != segment.LabelUnset {
			stats.Counts[s.Label]++
		}
	}
	c.logger.Info(ctx, "classifier.Classify: %s", summarizeCounts(stats.Counts))

	if runErr != nil {
		c.logger.Warn(ctx, "classifier.Classify: stopped early: %v", runErr)
		return out, stats, runErr
	}
	return out, stats, nil
}

// shortcut labels text that is too short to be worth a call.
func (c *implClassifier) shortcut(text string) (segment.Label, bool) {
	words := segment.WordCount(segment.Normalize(text))
	switch {
	case words == 0:
		return segment.LabelNoise, true
	case words < c.cfg.ShortTextWords:
		return segment.LabelFiller, true
	}
	return segment.LabelUnset, false
}

// makeBatches splits pending indices into consecutive batches bounded by
// both the batch size and the prompt character budget, which covers the
// fixed template and taxonomy list too. A segment that alone exceeds the
// budget forms its own batch.
func (c *implClassifier) makeBatches(segs []segment.Segment, pending []int) [][]int {
	var (
		batches [][]int
		cur     []int
		chars   int
	)
	budget := c.cfg.MaxPromptChars - batchFixedChars
	for _, idx := range pending {
		n := len(segs[idx].Text) + promptOverhead
		if len(cur) > 0 && (len(cur) >= c.cfg.BatchSize || chars+n > budget) {
			batches = append(batches, cur)
			cur, chars = nil, 0
		}
		cur = append(cur, idx)
		chars += n
	}
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

func (c *implClassifier) classifyBatch(ctx context.Context, b int, texts []string) batchResult {
	res := batchResult{done: true, labels: make([]segment.Label, len(texts))}

	if len(texts) > 1 {
		raw, outcome := inference.Do(ctx, c.policy, func(ctx context.Context) ([]string, error) {
			resp, err := c.client.Generate(ctx, inference.Request{
				Model:       c.model,
				Prompt:      buildBatchPrompt(texts),
				Temperature: c.cfg.Temperature,
				JSON:        true,
			})
			if err != nil {
				return nil, err
			}
			labels, err := parseBatch(resp, len(texts))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", inference.ErrTransient, err)
			}
			return labels, nil
		}, func(error) []string { return nil })

		if !outcome.Fallback {
			for j, s := range raw {
				l, ok := matchLabel(s)
				if !ok {
					c.logger.Warn(ctx, "classifier.classifyBatch: batch %d item %d: label %q outside taxonomy", b, j, s)
					l = segment.LabelUnclassified
					res.invalid++
				}
				res.labels[j] = l
			}
			return res
		}

		c.logger.Warn(ctx, "classifier.classifyBatch: batch %d failed after %d attempts, classifying individually: %v",
			b, outcome.Attempts, outcome.Err)
		res.fellBack = true
	}

	for j, text := range texts {
		l, outcome := c.classifyOne(ctx, text)
		res.labels[j] = l
		if outcome.Fallback {
			if errors.Is(outcome.Err, inference.ErrInvalidOutput) {
				c.logger.Warn(ctx, "classifier.classifyBatch: batch %d item %d: %v", b, j, outcome.Err)
				res.invalid++
			} else {
				c.logger.Error(ctx, "classifier.classifyBatch: batch %d item %d failed after %d attempts: %v",
					b, j, outcome.Attempts, outcome.Err)
				res.failed++
			}
		}
	}
	return res
}

func (c *implClassifier) classifyOne(ctx context.Context, text string) (segment.Label, inference.Outcome) {
	return inference.Do(ctx, c.policy, func(ctx context.Context) (segment.Label, error) {
		resp, err := c.client.Generate(ctx, inference.Request{
			Model:       c.model,
			Prompt:      buildSinglePrompt(text),
			Temperature: c.cfg.Temperature,
			MaxTokens:   20,
		})
		if err != nil {
			return segment.LabelUnset, err
		}
		l, ok := matchLabel(resp)
		if !ok {
			return segment.LabelUnset, inference.Invalid("label %q outside taxonomy", strings.TrimSpace(resp))
		}
		return l, nil
	}, func(error) segment.Label { return segment.LabelUnclassified })
}

func summarizeCounts(counts map[segment.Label]int) string {
	labels := make([]segment.Label, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%d", l, counts[l])
	}
	return strings.Join(parts, " ")
}
