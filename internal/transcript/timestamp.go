package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp accepts either a number of seconds or a clock string
// ("H:MM:SS", "MM:SS", optionally with ".mmm" or ",mmm") when decoding JSON.
type Timestamp time.Duration

func (t Timestamp) Duration() time.Duration { return time.Duration(t) }

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("timestamp is null")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = Timestamp(d)
		return nil
	}
	secs, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse timestamp %s: %w", b, err)
	}
	d, err := fromSeconds(secs)
	if err != nil {
		return err
	}
	*t = Timestamp(d)
	return nil
}

// maxSeconds is the largest number of seconds a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// fromSeconds converts secs to a Duration rounded to the millisecond.
func fromSeconds(secs float64) (time.Duration, error) {
	if math.IsNaN(secs) || math.Abs(secs) > maxSeconds {
		return 0, fmt.Errorf("timestamp %g s out of range", secs)
	}
	return time.Duration(secs * float64(time.Second)).Round(time.Millisecond), nil
}

// ParseTimestamp parses "H:MM:SS", "MM:SS" or plain seconds, with an optional
// fractional part separated by '.' or ','.
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	var total float64
	for i, p := range parts {
		last := i == len(parts)-1
		var (
			v   float64
			err error
		)
		if last {
			v, err = strconv.ParseFloat(p, 64)
		} else {
			var n int
			n, err = strconv.Atoi(p)
			v = float64(n)
		}
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		total = total*60 + v
	}

	d, err := fromSeconds(total)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %s: %w", s, err)
	}
	return d, nil
}

// FormatTimestamp renders d as H:MM:SS.
func FormatTimestamp(d time.Duration) string {
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatPrecise renders d as H:MM:SS, adding ".mmm" when d has a
// sub-second part. ParseTimestamp reads it back unchanged.
func FormatPrecise(d time.Duration) string {
	d = d.Round(time.Millisecond)
	ms := int(d % time.Second / time.Millisecond)
	if ms == 0 {
		return FormatTimestamp(d)
	}
	return fmt.Sprintf("%s.%03d", FormatTimestamp(d), ms)
}

// FormatDuration renders d in a short human form ("45s", "3m 5s", "1h 2m").
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}
