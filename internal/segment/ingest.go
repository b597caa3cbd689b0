package segment

import "fmt"

// IntegrityError describes an input record dropped at ingestion.
type IntegrityError struct {
	Index  int
	Record Record
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("segment %d [%s-%s]: %s", e.Index, e.Record.Start, e.Record.End, e.Reason)
}

// Ingest turns raw records into segments. IDs are the record's position in
// the input so dropped records leave a visible gap in the audit trail.
// Records with start >= end, a start earlier than the previous accepted
// segment, or an overlap with it are dropped and reported.
func Ingest(records []Record) ([]Segment, []*IntegrityError) {
	segs := make([]Segment, 0, len(records))
	var issues []*IntegrityError

	for i, r := range records {
		reason := ""
		switch {
		case r.Start < 0:
			reason = "negative start"
		case r.Start >= r.End:
			reason = "start is not before end"
		case len(segs) > 0 && r.Start < segs[len(segs)-1].Start:
			reason = "start earlier than previous segment"
		case len(segs) > 0 && r.Start < segs[len(segs)-1].End:
			reason = "overlaps previous segment"
		}
		if reason != "" {
			issues = append(issues, &IntegrityError{Index: i, Record: r, Reason: reason})
			continue
		}
		segs = append(segs, Segment{
			ID:       i,
			Start:    r.Start,
			End:      r.End,
			Text:     r.Text,
			Included: true,
		})
	}

	return segs, issues
}
