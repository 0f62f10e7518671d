package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the persisted calendar-date form (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses an absolute date or timestamp: "2006-01-02" (UTC
// midnight), "2006-01-02T15:04" (UTC), or RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// parseTimeExpr parses relative ("3d", "2w", "1mo", "36h") and absolute
// expressions. Relative values count back from now.
func parseTimeExpr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	// Custom shorthands: mo (months), w (weeks), d (days)
	suffixes := []struct {
		suffix string
		apply  func(int) time.Time
	}{
		{"mo", func(n int) time.Time { return now.AddDate(0, -n, 0) }},
		{"w", func(n int) time.Time { return now.AddDate(0, 0, -7*n) }},
		{"d", func(n int) time.Time { return now.AddDate(0, 0, -n) }},
	}
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			numStr := strings.TrimSuffix(s, sfx.suffix)
			if n, err := strconv.Atoi(numStr); err == nil && n >= 0 {
				return sfx.apply(n), nil
			}
			return time.Time{}, fmt.Errorf("invalid %s duration: %q", sfx.suffix, s)
		}
	}

	// Standard Go durations (keeps 'm' = minutes)
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	return ParseDate(s)
}

// NormalizeDateRange resolves from/to expressions (empty allowed) into
// YYYY-MM-DD strings, swapping them if reversed.
func NormalizeDateRange(from, to string, now time.Time) (string, string, error) {
	var f, t time.Time
	var err error

	if strings.TrimSpace(from) != "" {
		if f, err = parseTimeExpr(from, now); err != nil {
			return "", "", fmt.Errorf("invalid --date-from: %w", err)
		}
	}
	if strings.TrimSpace(to) != "" {
		if t, err = parseTimeExpr(to, now); err != nil {
			return "", "", fmt.Errorf("invalid --date-to: %w", err)
		}
	}

	if !f.IsZero() && !t.IsZero() && f.After(t) {
		f, t = t, f
	}

	var fStr, tStr string
	if !f.IsZero() {
		fStr = f.UTC().Format(DateLayout)
	}
	if !t.IsZero() {
		tStr = t.UTC().Format(DateLayout)
	}
	return fStr, tStr, nil
}
