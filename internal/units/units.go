// Package units provides speed conversions and the velocity clamp shared by
// the delta engine and the dashboard. Raw telemetry carries speed in km/h;
// all pace arithmetic happens in m/s.
package units

// KmhToMps converts a speed from km/h to m/s.
func KmhToMps(kmh float64) float64 { return kmh / 3.6 }

// MpsToKmh converts a speed from m/s to km/h.
func MpsToKmh(mps float64) float64 { return mps * 3.6 }

// Clamp bounds v to the inclusive range [min, max]. The delta engine clamps
// velocity before inversion: the lower bound keeps near-zero speeds from
// blowing up 1/v, the upper bound discards sensor spikes.
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Default velocity clamp bounds in m/s. These silently bias pace at extreme
// speeds, so they are configuration rather than constants; see
// config.Pipeline.
const (
	DefaultClampMinMPS = 0.1
	DefaultClampMaxMPS = 100
)
