package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/pipeline"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/store"
	"github.com/nguyentantai21042004/segment-flow/internal/transcript"
)

// objectiveSuffix names the optional sidecar holding a file's objective,
// e.g. lesson.json -> lesson.objective.txt.
const objectiveSuffix = ".objective.txt"

func (p *implProcessor) Run(ctx context.Context, path, objective string) (*Report, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithFields(ctx, map[string]interface{}{"run_id": runID, "source": filepath.Base(path)})

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcript processing: %s", path)
	p.logger.Info(ctx, "========================================")

	records, err := transcript.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	res, runErr := p.pipeline.Run(ctx, records, objective)
	report := &Report{RunID: runID, Source: path, Result: res}

	if runErr == nil {
		artifacts, err := pipeline.Persist(p.cfg.Paths.Output, titleOf(path), res)
		if err != nil {
			runErr = fmt.Errorf("persist artifacts: %w", err)
		}
		report.Artifacts = artifacts
	}

	p.record(ctx, report, objective, startTime, runErr)

	if runErr != nil {
		return report, runErr
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Groups: %d (fallback summaries: %d)", len(res.Groups), res.Summarizer.Fallback)
	p.logger.Info(ctx, "Output: %s", report.Artifacts.Dir)
	p.logger.Info(ctx, "Processing time: %s", transcript.FormatDuration(time.Since(startTime)))
	p.logger.Info(ctx, "========================================")
	return report, nil
}

func (p *implProcessor) Process(ctx context.Context, path string) error {
	objective, err := readObjective(path)
	if err != nil {
		p.logger.Warn(ctx, "Failed to read objective for %s: %v", path, err)
	}

	if _, err := p.Run(ctx, path, objective); err != nil {
		return err
	}

	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}
	return nil
}

// record stores the run in the audit store. It outlives ctx so a canceled
// run is still recorded.
func (p *implProcessor) record(ctx context.Context, report *Report, objective string, startTime time.Time, runErr error) {
	if p.store == nil {
		return
	}

	run := &store.Run{
		ID:        report.RunID,
		Source:    report.Source,
		Objective: objective,
		Status:    statusOf(runErr),
		OutputDir: report.Artifacts.Dir,
		StartedAt: startTime,
		Duration:  time.Since(startTime),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if res := report.Result; res != nil {
		run.Segments = res.Segments
		run.Groups = res.Groups
		run.SegmentCount = len(res.Segments)
		run.KeptCount = len(segment.Included(res.Segments))
		run.GroupCount = len(res.Groups)
		run.FallbackCount = res.Summarizer.Fallback
	}

	if err := p.store.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		p.logger.Error(ctx, "Failed to record run %s: %v", run.ID, err)
	}
}

func statusOf(err error) store.Status {
	switch {
	case err == nil:
		return store.StatusCompleted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return store.StatusCanceled
	default:
		return store.StatusFailed
	}
}

// moveToArchived moves a processed input and its sidecar out of the input folder.
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path))
	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", path, destPath)
	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	sidecar := sidecarPath(path)
	if _, err := os.Stat(sidecar); err == nil {
		if err := os.Rename(sidecar, filepath.Join(p.cfg.Paths.Archived, filepath.Base(sidecar))); err != nil {
			p.logger.Warn(ctx, "Failed to move objective file %s: %v", sidecar, err)
		}
	}
	return nil
}

func sidecarPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + objectiveSuffix
}

// readObjective returns the sidecar objective, or "" when there is none.
func readObjective(path string) (string, error) {
	data, err := os.ReadFile(sidecarPath(path))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func titleOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
