package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/summarizer"
	"github.com/nguyentantai21042004/segment-flow/internal/transcript"
)

// Artifacts lists the files written for one run.
type Artifacts struct {
	Dir          string
	SegmentsPath string
	GroupsPath   string
	DocxPath     string
}

type segmentRecord struct {
	ID          int                `json:"id"`
	Start       string             `json:"start"`
	End         string             `json:"end"`
	Text        string             `json:"text"`
	Label       segment.Label      `json:"label"`
	Included    bool               `json:"included"`
	DropReason  segment.DropReason `json:"drop_reason,omitempty"`
	DuplicateOf *int               `json:"duplicate_of,omitempty"`
}

type groupRecord struct {
	GroupID        int                   `json:"group_id"`
	GroupStartTime string                `json:"group_start_time"`
	GroupEndTime   string                `json:"group_end_time"`
	GroupSummary   string                `json:"group_summary"`
	SummarySource  segment.SummarySource `json:"summary_source"`
	GroupSegments  []segmentRecord       `json:"group_segments"`
}

func toSegmentRecord(s segment.Segment) segmentRecord {
	r := segmentRecord{
		ID:         s.ID,
		Start:      transcript.FormatPrecise(s.Start),
		End:        transcript.FormatPrecise(s.End),
		Text:       s.Text,
		Label:      s.Label,
		Included:   s.Included,
		DropReason: s.DropReason,
	}
	if s.DropReason == segment.DropDuplicate {
		orig := s.DuplicateOf
		r.DuplicateOf = &orig
	}
	return r
}

func toGroupRecord(g segment.Group) groupRecord {
	members := make([]segmentRecord, len(g.Segments))
	for i, s := range g.Segments {
		members[i] = toSegmentRecord(s)
	}
	return groupRecord{
		GroupID:        g.ID,
		GroupStartTime: transcript.FormatPrecise(g.Start),
		GroupEndTime:   transcript.FormatPrecise(g.End),
		GroupSummary:   g.Summary,
		SummarySource:  g.Source,
		GroupSegments:  members,
	}
}

// Persist writes segments.json, grouped.json and summary.docx into a fresh
// work_YYYYMMDD_HHMMSS directory under outputRoot.
func Persist(outputRoot, title string, res *Result) (Artifacts, error) {
	dir, err := mkWorkDir(outputRoot, time.Now())
	if err != nil {
		return Artifacts{}, fmt.Errorf("create work dir: %w", err)
	}
	a := Artifacts{
		Dir:          dir,
		SegmentsPath: filepath.Join(dir, "segments.json"),
		GroupsPath:   filepath.Join(dir, "grouped.json"),
		DocxPath:     filepath.Join(dir, "summary.docx"),
	}

	segs := make([]segmentRecord, len(res.Segments))
	for i, s := range res.Segments {
		segs[i] = toSegmentRecord(s)
	}
	if err := writeJSON(a.SegmentsPath, segs); err != nil {
		return a, fmt.Errorf("write segments: %w", err)
	}

	groups := make([]groupRecord, len(res.Groups))
	for i, g := range res.Groups {
		groups[i] = toGroupRecord(g)
	}
	if err := writeJSON(a.GroupsPath, groups); err != nil {
		return a, fmt.Errorf("write groups: %w", err)
	}

	if err := summarizer.WriteDocx(title, res.Groups, a.DocxPath); err != nil {
		return a, fmt.Errorf("write docx: %w", err)
	}
	return a, nil
}

// mkWorkDir creates the timestamped directory, suffixing _2, _3... when
// another run already took the same second.
func mkWorkDir(root string, now time.Time) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	base := filepath.Join(root, "work_"+now.Format("20060102_150405"))
	dir := base
	for n := 2; ; n++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		dir = fmt.Sprintf("%s_%d", base, n)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return encodeAndClose(f, v)
}

// encodeAndClose writes v as indented JSON and closes w. A close failure is
// reported since it can mean the data never reached disk.
func encodeAndClose(w io.WriteCloser, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
