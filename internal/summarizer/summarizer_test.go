package summarizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

type fakeClient struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	fn      func(prompt string) (string, error)
}

func (f *fakeClient) Generate(ctx context.Context, req inference.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	return f.fn(req.Prompt)
}

func (f *fakeClient) Name() string { return "fake" }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Retry.InitialBackoff = time.Millisecond
	cfg.Retry.MaxBackoff = 2 * time.Millisecond
	cfg.Retry.Jitter = 0
	cfg.Summarizer.FallbackWords = 3
	return cfg
}

func group(id int, texts ...string) segment.Group {
	members := make([]segment.Segment, len(texts))
	for i, text := range texts {
		start := time.Duration(id*100+i*5) * time.Second
		members[i] = segment.Segment{ID: id*10 + i, Start: start, End: start + 5*time.Second, Text: text, Label: segment.LabelExplanation, Included: true}
	}
	return segment.NewGroup(id, members)
}

func TestSummarizeIsolatesFailures(t *testing.T) {
	fc := &fakeClient{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "broken") {
			return "", &inference.StatusError{Provider: "fake", Code: 500, Body: "boom"}
		}
		return "Summary: a fine summary", nil
	}}
	cfg := testConfig()
	s := New(cfg, fc, logger.Nop())

	in := []segment.Group{
		group(0, "first part of the lesson", "more words here"),
		group(1, "broken section with many words in it", "and more"),
		group(2, "last part of the lesson", "wrap up"),
	}
	out, stats, err := s.Summarize(context.Background(), in, "learn go")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	for _, i := range []int{0, 2} {
		if out[i].Source != segment.SummaryModel || out[i].Summary != "a fine summary" {
			t.Errorf("group %d = %q (%s)", i, out[i].Summary, out[i].Source)
		}
	}
	if out[1].Source != segment.SummaryFallback || out[1].Summary != "broken section with..." {
		t.Errorf("group 1 = %q (%s)", out[1].Summary, out[1].Source)
	}
	if stats.Model != 2 || stats.Fallback != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if fc.calls != 2+cfg.Retry.MaxAttempts {
		t.Errorf("calls = %d, want %d", fc.calls, 2+cfg.Retry.MaxAttempts)
	}
	if in[0].Summary != "" {
		t.Error("input mutated")
	}
	for i, g := range out {
		if g.ID != i {
			t.Errorf("out[%d].ID = %d", i, g.ID)
		}
	}
}

func TestSummarizeEmptyResponseFallsBack(t *testing.T) {
	fc := &fakeClient{fn: func(string) (string, error) { return "  Summary:  ", nil }}
	s := New(testConfig(), fc, logger.Nop())

	out, _, err := s.Summarize(context.Background(), []segment.Group{group(0, "one two", "three four")}, "")
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Source != segment.SummaryFallback || out[0].Summary != "one two three..." {
		t.Errorf("got %q (%s)", out[0].Summary, out[0].Source)
	}
	if fc.calls != 1 {
		t.Errorf("calls = %d, want 1 (invalid output is not retried)", fc.calls)
	}
}

func TestSummarizeSingleSegmentVerbatim(t *testing.T) {
	fc := &fakeClient{fn: func(string) (string, error) { return "model", nil }}

	s := New(testConfig(), fc, logger.Nop())
	out, stats, err := s.Summarize(context.Background(), []segment.Group{group(0, "  only segment  ")}, "")
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Summary != "only segment" || out[0].Source != segment.SummaryVerbatim || stats.Verbatim != 1 {
		t.Errorf("got %q (%s)", out[0].Summary, out[0].Source)
	}
	if fc.calls != 0 {
		t.Error("single-segment group should not call the service")
	}

	cfg := testConfig()
	off := false
	cfg.Summarizer.SkipSingleSegment = &off
	out, _, _ = New(cfg, fc, logger.Nop()).Summarize(context.Background(), []segment.Group{group(0, "only segment")}, "")
	if out[0].Source != segment.SummaryModel {
		t.Errorf("Source = %s, want model", out[0].Source)
	}
}

func TestSummarizePromptCarriesObjective(t *testing.T) {
	fc := &fakeClient{fn: func(string) (string, error) { return "ok", nil }}
	s := New(testConfig(), fc, logger.Nop())

	if _, _, err := s.Summarize(context.Background(), []segment.Group{group(0, "alpha beta", "gamma delta")}, "master channels"); err != nil {
		t.Fatal(err)
	}
	p := fc.prompts[0]
	for _, want := range []string{"Video objective: master channels", "[0:00:00 - 0:00:05] alpha beta", "[0:00:05 - 0:00:10] gamma delta"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestSummarizeCanceled(t *testing.T) {
	fc := &fakeClient{fn: func(string) (string, error) { return "ok", nil }}
	s := New(testConfig(), fc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, _, err := s.Summarize(ctx, []segment.Group{group(0, "a b c", "d e f")}, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if out[0].Source != segment.SummaryPending {
		t.Errorf("Source = %q, want pending", out[0].Source)
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback("a b c d", 2); got != "a b..." {
		t.Errorf("Fallback() = %q", got)
	}
	if got := Fallback(" a  b ", 5); got != "a b" {
		t.Errorf("Fallback() = %q", got)
	}
}

func TestWriteDocx(t *testing.T) {
	g := group(0, "first", "second")
	g.Summary = "A **bold** summary\nsecond line"
	g.Source = segment.SummaryModel
	fb := group(1, "third", "fourth")
	fb.Summary = "third fourth"
	fb.Source = segment.SummaryFallback

	path := filepath.Join(t.TempDir(), "summary.docx")
	if err := WriteDocx("Lesson", []segment.Group{g, fb}, path); err != nil {
		t.Fatalf("WriteDocx() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty docx")
	}
}
