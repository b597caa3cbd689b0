package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

// SupportedExtensions lists the transcript formats Load understands.
var SupportedExtensions = []string{".json", ".srt"}

type jsonSegment struct {
	Start Timestamp `json:"start"`
	End   Timestamp `json:"end"`
	Text  string    `json:"text"`
}

type jsonTranscript struct {
	Segments []jsonSegment `json:"segments"`
}

// maxCueLine bounds a single SRT line.
const maxCueLine = 16 << 20

var reSrtTiming = regexp.MustCompile(`^(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})`)

// IsSupported reports whether path has a transcript extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads a transcript file and returns its records in file order.
func Load(path string) ([]segment.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".srt":
		return ParseSRT(data)
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", filepath.Ext(path))
	}
}

// ParseJSON accepts either {"segments": [...]} or a bare array of segments.
func ParseJSON(data []byte) ([]segment.Record, error) {
	trimmed := bytes.TrimSpace(data)

	var raw []jsonSegment
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("transcript decode: %w", err)
		}
	} else {
		var doc jsonTranscript
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("transcript decode: %w", err)
		}
		raw = doc.Segments
	}

	out := make([]segment.Record, 0, len(raw))
	for _, s := range raw {
		out = append(out, segment.Record{
			Start: s.Start.Duration(),
			End:   s.End.Duration(),
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return out, nil
}

// ParseSRT reads SubRip cues. Multi-line cue text is joined with spaces.
func ParseSRT(data []byte) ([]segment.Record, error) {
	var (
		out     []segment.Record
		current *segment.Record
		lines   []string
	)

	flush := func() {
		if current != nil {
			current.Text = strings.Join(lines, " ")
			out = append(out, *current)
		}
		current = nil
		lines = nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxCueLine)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			flush()
			continue
		}
		if m := reSrtTiming.FindStringSubmatch(line); m != nil {
			flush()
			start, err := ParseTimestamp(m[1])
			if err != nil {
				return nil, err
			}
			end, err := ParseTimestamp(m[2])
			if err != nil {
				return nil, err
			}
			current = &segment.Record{Start: start, End: end}
			continue
		}
		if current == nil {
			// cue index
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan srt: %w", err)
	}
	flush()

	return out, nil
}
