package segment

import (
	"testing"
	"time"
)

func sec(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"tip", LabelTip, false},
		{"  Code_Example ", LabelCodeExample, false},
		{"code-example", LabelCodeExample, false},
		{"summary", LabelSummaryPoint, false},
		{"off topic", LabelOffTopic, false},
		{"unclassified", LabelUnclassified, false},
		{"banana", LabelUnset, true},
		{"", LabelUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLabel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLabel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLabel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTaxonomyExcludesUnclassified(t *testing.T) {
	for _, l := range Taxonomy() {
		if l == LabelUnclassified || l == LabelUnset {
			t.Errorf("Taxonomy() contains %v", l)
		}
		if !l.Valid() {
			t.Errorf("Taxonomy() label %d is not valid", l)
		}
	}
	if len(TaxonomyNames()) != len(Taxonomy()) {
		t.Errorf("TaxonomyNames() length mismatch")
	}
}

func TestLabelTextRoundTrip(t *testing.T) {
	var l Label
	if err := l.UnmarshalText([]byte("transition")); err != nil {
		t.Fatal(err)
	}
	b, _ := l.MarshalText()
	if string(b) != "transition" {
		t.Errorf("MarshalText() = %s, want transition", b)
	}
	if err := l.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText() should reject unknown label")
	}
}

func TestIngest(t *testing.T) {
	records := []Record{
		{Start: sec(0), End: sec(2), Text: "a"},
		{Start: sec(3), End: sec(3), Text: "zero length"},
		{Start: sec(1), End: sec(4), Text: "overlaps"},
		{Start: sec(4), End: sec(6), Text: "b"},
		{Start: sec(2), End: sec(3), Text: "goes back"},
		{Start: sec(6), End: sec(7), Text: "c"},
	}

	segs, issues := Ingest(records)

	if len(segs) != 3 {
		t.Fatalf("len(segs) = %d, want 3", len(segs))
	}
	wantIDs := []int{0, 3, 5}
	for i, s := range segs {
		if s.ID != wantIDs[i] {
			t.Errorf("segs[%d].ID = %d, want %d", i, s.ID, wantIDs[i])
		}
		if !s.Included {
			t.Errorf("segs[%d] not included after ingestion", i)
		}
	}
	if len(issues) != 3 {
		t.Fatalf("len(issues) = %d, want 3", len(issues))
	}
	if issues[0].Index != 1 || issues[1].Index != 2 || issues[2].Index != 4 {
		t.Errorf("unexpected issue indices: %d %d %d", issues[0].Index, issues[1].Index, issues[2].Index)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Welcome!", "welcome"},
		{"  Let's   BEGIN,\tnow. ", "lets begin now"},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstWords(t *testing.T) {
	got, cut := FirstWords("one two three four", 2)
	if got != "one two" || !cut {
		t.Errorf("FirstWords() = %q, %v", got, cut)
	}
	got, cut = FirstWords("one two", 5)
	if got != "one two" || cut {
		t.Errorf("FirstWords() = %q, %v", got, cut)
	}
}

func TestNewGroupBounds(t *testing.T) {
	members := []Segment{
		{ID: 1, Start: sec(10), End: sec(12), Text: "x"},
		{ID: 2, Start: sec(12), End: sec(15), Text: "y"},
	}
	g := NewGroup(0, members)
	if g.Start != sec(10) || g.End != sec(15) {
		t.Errorf("bounds = %v-%v, want 10s-15s", g.Start, g.End)
	}
	if g.Text() != "x y" {
		t.Errorf("Text() = %q", g.Text())
	}
	members[0].Text = "mutated"
	if g.Segments[0].Text != "x" {
		t.Error("NewGroup should copy members")
	}
}
