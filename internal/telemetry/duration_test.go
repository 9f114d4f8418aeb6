package telemetry

import (
	"math"
	"testing"
)

func TestParseSessionDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0 days 00:42:17.123456", 2537.123456},
		{"0 days 00:00:01", 1},
		{"1 days 01:00:00", 90000},
		{"00:42:17.5", 2537.5},
		{"2537.123", 2537.123},
		{"0", 0},
		{"-0 days 00:00:02.5", -2.5},
		{"1 day 00:00:00", 86400},
	}
	for _, tt := range tests {
		got, err := ParseSessionDuration(tt.in)
		if err != nil {
			t.Errorf("ParseSessionDuration(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseSessionDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSessionDurationErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "1:2", "x days 00:00:00", "00:xx:00"} {
		if _, err := ParseSessionDuration(in); err == nil {
			t.Errorf("ParseSessionDuration(%q) should fail", in)
		}
	}
}

func TestFormatSecondsRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 2537.123456, 86400.5} {
		got, err := ParseSessionDuration(FormatSeconds(v))
		if err != nil {
			t.Fatalf("round trip %v: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %v -> %v", v, got)
		}
	}
}
