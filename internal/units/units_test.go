package units

import (
	"math"
	"testing"
)

func TestKmhMpsRoundTrip(t *testing.T) {
	for _, kmh := range []float64{0, 100, 327.6} {
		got := MpsToKmh(KmhToMps(kmh))
		if math.Abs(got-kmh) > 1e-9 {
			t.Errorf("round trip %v -> %v", kmh, got)
		}
	}
	if got := KmhToMps(36); got != 10 {
		t.Errorf("KmhToMps(36) = %v, want 10", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.01, 0.1, 100, 0.1},
		{50, 0.1, 100, 50},
		{250, 0.1, 100, 100},
		{0.1, 0.1, 100, 0.1},
		{100, 0.1, 100, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}
