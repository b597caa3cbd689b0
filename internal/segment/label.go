package segment

import (
	"fmt"
	"sort"
	"strings"
)

// Label is the semantic tag assigned to a segment by the classifier.
// The taxonomy is closed: new labels are added here, not at call sites.
type Label int

const (
	LabelUnset Label = iota
	LabelIntroduction
	LabelExplanation
	LabelDemonstration
	LabelCodeExample
	LabelTip
	LabelWarning
	LabelSummaryPoint
	LabelTransition
	LabelQuestion
	LabelAside
	LabelGreeting
	LabelFarewell
	LabelFiller
	LabelNoise
	LabelOffTopic
	// LabelUnclassified is only ever assigned by the pipeline when
	// classification fails or the service answers outside the taxonomy.
	LabelUnclassified
)

var labelNames = map[Label]string{
	LabelIntroduction:  "introduction",
	LabelExplanation:   "explanation",
	LabelDemonstration: "demonstration",
	LabelCodeExample:   "code_example",
	LabelTip:           "tip",
	LabelWarning:       "warning",
	LabelSummaryPoint:  "summary_point",
	LabelTransition:    "transition",
	LabelQuestion:      "question",
	LabelAside:         "aside",
	LabelGreeting:      "greeting",
	LabelFarewell:      "farewell",
	LabelFiller:        "filler",
	LabelNoise:         "noise",
	LabelOffTopic:      "off_topic",
	LabelUnclassified:  "unclassified",
}

// aliases accepted when parsing model output or config.
var labelAliases = map[string]Label{
	"summary":      LabelSummaryPoint,
	"code example": LabelCodeExample,
	"code":         LabelCodeExample,
	"off topic":    LabelOffTopic,
	"demo":         LabelDemonstration,
	"intro":        LabelIntroduction,
}

var labelsByName = func() map[string]Label {
	m := make(map[string]Label, len(labelNames))
	for l, n := range labelNames {
		m[n] = l
	}
	return m
}()

// Taxonomy returns the labels a classifier may choose from, in declaration
// order. LabelUnclassified is not part of it.
func Taxonomy() []Label {
	out := make([]Label, 0, len(labelNames)-1)
	for l := LabelIntroduction; l < LabelUnclassified; l++ {
		out = append(out, l)
	}
	return out
}

// TaxonomyNames returns the names of Taxonomy().
func TaxonomyNames() []string {
	tax := Taxonomy()
	names := make([]string, len(tax))
	for i, l := range tax {
		names[i] = l.String()
	}
	return names
}

func (l Label) String() string {
	if n, ok := labelNames[l]; ok {
		return n
	}
	return ""
}

// Valid reports whether l is a taxonomy member or LabelUnclassified.
func (l Label) Valid() bool {
	return l > LabelUnset && l <= LabelUnclassified
}

// ParseLabel resolves a label name or alias. Matching is case-insensitive
// and treats spaces, dashes and underscores alike.
func ParseLabel(s string) (Label, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if l, ok := labelsByName[key]; ok {
		return l, nil
	}
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(key)
	if l, ok := labelAliases[spaced]; ok {
		return l, nil
	}
	if l, ok := labelsByName[strings.ReplaceAll(spaced, " ", "_")]; ok {
		return l, nil
	}
	return LabelUnset, fmt.Errorf("unknown label %q", s)
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*l = LabelUnset
		return nil
	}
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LabelSet is an immutable-by-convention set of labels.
type LabelSet map[Label]struct{}

// NewLabelSet builds a set from labels.
func NewLabelSet(labels ...Label) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// ParseLabelSet builds a set from label names, failing on the first unknown name.
func ParseLabelSet(names []string) (LabelSet, error) {
	s := make(LabelSet, len(names))
	for _, n := range names {
		l, err := ParseLabel(n)
		if err != nil {
			return nil, err
		}
		s[l] = struct{}{}
	}
	return s, nil
}

func (s LabelSet) Has(l Label) bool {
	_, ok := s[l]
	return ok
}

// Names returns the sorted label names in the set.
func (s LabelSet) Names() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l.String())
	}
	sort.Strings(out)
	return out
}
