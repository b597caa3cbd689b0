package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

const singlePrompt = `Classify the following transcript segment into ONE of these categories:
%s

Segment: "%s"

Respond with ONLY the category name, nothing else.`

const batchPrompt = `Classify each of these transcript segments into ONE of these categories:
%s

Segments:
%s

Respond with a JSON object whose "labels" array holds one category per segment, in the same order, like: {"labels": ["label1", "label2", ...]}`

// promptOverhead approximates the fixed part of a batch prompt per segment
// (numbering, quotes, separators).
const promptOverhead = 8

// batchFixedChars is the length of a batch prompt before any segment is added.
var batchFixedChars = len(batchPrompt) + len(taxonomyList())

var reToken = regexp.MustCompile(`[a-z_]+`)

func taxonomyList() string {
	return strings.Join(segment.TaxonomyNames(), ", ")
}

func buildSinglePrompt(text string) string {
	return fmt.Sprintf(singlePrompt, taxonomyList(), strings.ReplaceAll(text, `"`, `'`))
}

func buildBatchPrompt(texts []string) string {
	numbered, _ := json.MarshalIndent(texts, "", "  ")
	return fmt.Sprintf(batchPrompt, taxonomyList(), numbered)
}

// matchLabel maps a free-form answer onto the taxonomy. An exact name or
// alias wins; otherwise the answer must mention exactly one label.
func matchLabel(raw string) (segment.Label, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "\"'`.,:;!*[]{}() \n\t")
	if s == "" {
		return segment.LabelUnset, false
	}

	if l, err := segment.ParseLabel(s); err == nil {
		if l == segment.LabelUnclassified {
			return segment.LabelUnset, false
		}
		return l, true
	}

	found := map[segment.Label]struct{}{}
	tokens := reToken.FindAllString(s, -1)
	for i, tok := range tokens {
		if l, err := segment.ParseLabel(tok); err == nil {
			found[l] = struct{}{}
		}
		if i+1 < len(tokens) {
			if l, err := segment.ParseLabel(tok + " " + tokens[i+1]); err == nil {
				found[l] = struct{}{}
			}
		}
	}
	delete(found, segment.LabelUnclassified)
	if len(found) != 1 {
		return segment.LabelUnset, false
	}
	for l := range found {
		return l, true
	}
	return segment.LabelUnset, false
}

type batchAnswer struct {
	Labels []string `json:"labels"`
}

// parseBatch extracts the label array from a batch answer. It accepts the
// requested object, a bare array, or either wrapped in prose or code fences.
func parseBatch(raw string, want int) ([]string, error) {
	raw = strings.TrimSpace(raw)

	if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
		var obj batchAnswer
		if err := json.Unmarshal([]byte(raw[i:j+1]), &obj); err == nil && obj.Labels != nil {
			return checkLen(obj.Labels, want)
		}
	}
	if i, j := strings.Index(raw, "["), strings.LastIndex(raw, "]"); i >= 0 && j > i {
		var arr []string
		if err := json.Unmarshal([]byte(raw[i:j+1]), &arr); err == nil {
			return checkLen(arr, want)
		}
	}
	return nil, fmt.Errorf("no label array in response")
}

func checkLen(labels []string, want int) ([]string, error) {
	if len(labels) != want {
		return nil, fmt.Errorf("got %d labels for %d segments", len(labels), want)
	}
	return labels, nil
}
