package telemetry

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSessionDuration converts a raw SessionTime cell to seconds. The
// acquisition step serialises pandas timedeltas, so three shapes occur in
// the wild:
//
//	0 days 00:42:17.123456
//	00:42:17.123456
//	2537.123456
//
// A leading sign is honoured in all three shapes.
func ParseSessionDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = strings.TrimSpace(s[1:])
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}

	days := 0.0
	if i := strings.Index(s, "days"); i >= 0 {
		d, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		if err != nil {
			return 0, fmt.Errorf("parse days in %q: %w", s, err)
		}
		days = d
		s = strings.TrimSpace(s[i+len("days"):])
	} else if i := strings.Index(s, "day"); i >= 0 {
		d, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		if err != nil {
			return 0, fmt.Errorf("parse days in %q: %w", s, err)
		}
		days = d
		s = strings.TrimSpace(s[i+len("day"):])
	}

	if !strings.Contains(s, ":") {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", s, err)
		}
		return sign * (days*86400 + secs), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("duration %q: want HH:MM:SS, got %d segments", s, len(parts))
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours in %q: %w", s, err)
	}
	mins, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes in %q: %w", s, err)
	}
	secs, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("parse seconds in %q: %w", s, err)
	}
	return sign * (days*86400 + hours*3600 + mins*60 + secs), nil
}

// FormatSeconds renders a seconds value for the canonical CSV. The shortest
// round-trippable representation keeps reruns byte-identical.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
