package summarizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/transcript"
	"github.com/nguyentantai21042004/segment-flow/internal/workpool"
)

const summaryPrompt = `You are summarizing a section of an instructional video.

Video objective: %s

Section transcript:
%s

Summarize what this group of segments is about. Focus on the main topic, key concepts, and learning points.
Keep your summary under %d words.

Summary:`

const defaultObjective = "not specified"

var reSummaryPrefix = regexp.MustCompile(`(?i)^\s*(\*\*)?summary(\*\*)?\s*:\s*`)

func (s *implSummarizer) Summarize(ctx context.Context, groups []segment.Group, objective string) ([]segment.Group, Stats, error) {
	out := segment.CloneGroups(groups)
	stats := Stats{Total: len(out)}

	objective = strings.TrimSpace(objective)
	if objective == "" {
		objective = defaultObjective
	}

	var pending []int
	for i := range out {
		if len(out[i].Segments) == 1 && s.cfg.SkipSingle() {
			out[i].Summary = strings.TrimSpace(out[i].Segments[0].Text)
			out[i].Source = segment.SummaryVerbatim
			stats.Verbatim++
			continue
		}
		pending = append(pending, i)
	}

	s.logger.Info(ctx, "summarizer.Summarize: %d groups, %d need a model summary", len(out), len(pending))

	runErr := workpool.Run(ctx, len(pending), s.cfg.MaxConcurrent, func(taskCtx context.Context, k int) {
		g := &out[pending[k]]
		g.Summary, g.Source = s.summarizeGroup(taskCtx, *g, objective)
	})

	for _, g := range out {
		switch g.Source {
		case segment.SummaryModel:
			stats.Model++
		case segment.SummaryFallback:
			stats.Fallback++
		}
	}
	s.logger.Info(ctx, "summarizer.Summarize: model=%d fallback=%d verbatim=%d", stats.Model, stats.Fallback, stats.Verbatim)

	if runErr != nil {
		s.logger.Warn(ctx, "summarizer.Summarize: stopped early: %v", runErr)
		return out, stats, runErr
	}
	return out, stats, nil
}

// summarizeGroup never fails: any error ends in the deterministic fallback.
func (s *implSummarizer) summarizeGroup(ctx context.Context, g segment.Group, objective string) (string, segment.SummarySource) {
	prompt := fmt.Sprintf(summaryPrompt, objective, sectionText(g), s.cfg.MaxWords)

	summary, outcome := inference.Do(ctx, s.policy, func(ctx context.Context) (string, error) {
		resp, err := s.client.Generate(ctx, inference.Request{
			Model:       s.model,
			Prompt:      prompt,
			Temperature: s.cfg.Temperature,
			MaxTokens:   s.cfg.MaxWords * 2,
		})
		if err != nil {
			return "", err
		}
		text := cleanSummary(resp)
		if text == "" {
			return "", inference.Invalid("empty summary")
		}
		return text, nil
	}, func(error) string {
		return Fallback(g.Text(), s.cfg.FallbackWords)
	})

	if outcome.Fallback {
		s.logger.Warn(ctx, "summarizer.summarizeGroup: group %d uses fallback after %d attempts: %v",
			g.ID, outcome.Attempts, outcome.Err)
		return summary, segment.SummaryFallback
	}
	s.logger.Debug(ctx, "summarizer.summarizeGroup: group %d summarized in %d attempts", g.ID, outcome.Attempts)
	return summary, segment.SummaryModel
}

// sectionText renders member segments one per line with their time range.
func sectionText(g segment.Group) string {
	var b strings.Builder
	for _, seg := range g.Segments {
		fmt.Fprintf(&b, "[%s - %s] %s\n",
			transcript.FormatTimestamp(seg.Start), transcript.FormatTimestamp(seg.End), strings.TrimSpace(seg.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func cleanSummary(resp string) string {
	return strings.TrimSpace(reSummaryPrefix.ReplaceAllString(strings.TrimSpace(resp), ""))
}

// Fallback is the deterministic summary used when the service fails: the
// first n words of text, with an ellipsis when cut.
func Fallback(text string, n int) string {
	head, cut := segment.FirstWords(text, n)
	if cut {
		return head + "..."
	}
	return head
}
