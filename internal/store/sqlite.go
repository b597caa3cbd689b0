package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

func (s *implStore) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, source, objective, status, error, output_dir, started_at, duration_ms,
		segment_count, kept_count, group_count, fallback_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Objective, string(run.Status), run.Error, run.OutputDir,
		run.StartedAt.UTC(), run.Duration.Milliseconds(),
		run.SegmentCount, run.KeptCount, run.GroupCount, run.FallbackCount)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	groupOf := make(map[int]int)
	for _, g := range run.Groups {
		for _, m := range g.Segments {
			groupOf[m.ID] = g.ID
		}
	}

	segStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_segments (run_id, seg_id, start_ns, end_ns, text, label, included, drop_reason, duplicate_of, group_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare segments: %w", err)
	}
	defer segStmt.Close()

	for _, seg := range run.Segments {
		var dup, grp sql.NullInt64
		if seg.DropReason == segment.DropDuplicate {
			dup = sql.NullInt64{Int64: int64(seg.DuplicateOf), Valid: true}
		}
		if id, ok := groupOf[seg.ID]; ok {
			grp = sql.NullInt64{Int64: int64(id), Valid: true}
		}
		if _, err := segStmt.ExecContext(ctx, run.ID, seg.ID, int64(seg.Start), int64(seg.End), seg.Text,
			seg.Label.String(), seg.Included, string(seg.DropReason), dup, grp); err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.ID, err)
		}
	}

	for _, g := range run.Groups {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO run_groups (run_id, group_id, start_ns, end_ns, summary, source)
		VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, g.ID, int64(g.Start), int64(g.End), g.Summary, string(g.Source)); err != nil {
			return fmt.Errorf("insert group %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const runColumns = `id, source, objective, status, error, output_dir, started_at, duration_ms,
	segment_count, kept_count, group_count, fallback_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r          Run
		status     string
		durationMs int64
	)
	err := row.Scan(&r.ID, &r.Source, &r.Objective, &status, &r.Error, &r.OutputDir, &r.StartedAt, &durationMs,
		&r.SegmentCount, &r.KeptCount, &r.GroupCount, &r.FallbackCount)
	if err != nil {
		return Run{}, err
	}
	r.Status = Status(status)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	return r, nil
}

func (s *implStore) GetRun(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	segs, members, err := s.loadSegments(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Segments = segs

	groups, err := s.loadGroups(ctx, id, members)
	if err != nil {
		return nil, err
	}
	r.Groups = groups
	return &r, nil
}

// loadSegments returns the run's segments in ID order and their grouping.
func (s *implStore) loadSegments(ctx context.Context, runID string) ([]segment.Segment, map[int][]segment.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT seg_id, start_ns, end_ns, text, label, included, drop_reason, duplicate_of, group_id
	FROM run_segments WHERE run_id = ? ORDER BY seg_id`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load segments: %w", err)
	}
	defer rows.Close()

	var segs []segment.Segment
	members := make(map[int][]segment.Segment)
	for rows.Next() {
		var (
			seg          segment.Segment
			start, end   int64
			label, drop  string
			dup, groupID sql.NullInt64
		)
		if err := rows.Scan(&seg.ID, &start, &end, &seg.Text, &label, &seg.Included, &drop, &dup, &groupID); err != nil {
			return nil, nil, fmt.Errorf("scan segment: %w", err)
		}
		seg.Start, seg.End = time.Duration(start), time.Duration(end)
		if err := seg.Label.UnmarshalText([]byte(label)); err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", seg.ID, err)
		}
		seg.DropReason = segment.DropReason(drop)
		if dup.Valid {
			seg.DuplicateOf = int(dup.Int64)
		}
		segs = append(segs, seg)
		if groupID.Valid {
			members[int(groupID.Int64)] = append(members[int(groupID.Int64)], seg)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load segments: %w", err)
	}
	return segs, members, nil
}

func (s *implStore) loadGroups(ctx context.Context, runID string, members map[int][]segment.Segment) ([]segment.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT group_id, start_ns, end_ns, summary, source
	FROM run_groups WHERE run_id = ? ORDER BY group_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	defer rows.Close()

	var groups []segment.Group
	for rows.Next() {
		var (
			g          segment.Group
			start, end int64
			source     string
		)
		if err := rows.Scan(&g.ID, &start, &end, &g.Summary, &source); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.Start, g.End = time.Duration(start), time.Duration(end)
		g.Source = segment.SummarySource(source)
		g.Segments = members[g.ID]
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	return groups, nil
}

func (s *implStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
