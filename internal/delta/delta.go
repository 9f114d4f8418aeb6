// Package delta compares two laps over a common distance grid. Each lap's
// speed channel is resampled onto the grid, inverted into pace, and the pace
// difference integrated into a cumulative time delta.
//
// Sign convention: the curve is A minus B. Positive means lap A is trailing
// (slower up to that point); negative means lap A leads.
package delta

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/laptrace.report/internal/units"
)

// ErrInsufficientSamples means a lap carried fewer than two distinct
// distance samples: there is nothing to interpolate between.
var ErrInsufficientSamples = errors.New("delta: lap has insufficient distance samples")

// ErrNoOverlap means the two laps share no distance range. The engine
// refuses to fabricate a curve outside the valid domain.
var ErrNoOverlap = errors.New("delta: laps share no distance range")

// Sample is one (distance, speed) telemetry point. Distance is meters from
// the lap start, speed is km/h as recorded.
type Sample struct {
	Distance float64
	Speed    float64
}

// Options tunes the comparison. The velocity clamp is applied before
// inversion: it biases pace at extreme speeds, which is why the bounds are
// options rather than constants.
type Options struct {
	// GridPoints is the resolution of the common distance grid.
	GridPoints int
	// ClampMinMPS and ClampMaxMPS bound velocity (m/s) before inversion.
	ClampMinMPS float64
	ClampMaxMPS float64
}

// DefaultOptions mirror the pipeline defaults: a 2000-point grid and a
// [0.1, 100] m/s clamp.
func DefaultOptions() Options {
	return Options{
		GridPoints:  2000,
		ClampMinMPS: units.DefaultClampMinMPS,
		ClampMaxMPS: units.DefaultClampMaxMPS,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.GridPoints < 2 {
		o.GridPoints = def.GridPoints
	}
	if o.ClampMinMPS <= 0 {
		o.ClampMinMPS = def.ClampMinMPS
	}
	if o.ClampMaxMPS <= o.ClampMinMPS {
		o.ClampMaxMPS = def.ClampMaxMPS
	}
	return o
}

// Curve is the comparison result: the common distance grid, the cumulative
// time delta (seconds, A minus B), and each lap's speed resampled onto the
// grid for overlay plotting.
type Curve struct {
	Distance []float64
	Delta    []float64
	SpeedA   []float64
	SpeedB   []float64
}

// Compare builds the delta curve for laps A and B. The comparison domain is
// [0, min(maxDistance(A), maxDistance(B))]: beyond the shorter lap's extent
// a comparison is meaningless.
func Compare(a, b []Sample, opts Options) (*Curve, error) {
	opts = opts.withDefaults()

	xa, ya, err := prepare(a)
	if err != nil {
		return nil, err
	}
	xb, yb, err := prepare(b)
	if err != nil {
		return nil, err
	}

	shared := math.Min(xa[len(xa)-1], xb[len(xb)-1])
	if shared <= math.Max(xa[0], xb[0]) {
		return nil, ErrNoOverlap
	}

	grid := make([]float64, opts.GridPoints)
	floats.Span(grid, 0, shared)

	speedA, err := interpolate(xa, ya, grid)
	if err != nil {
		return nil, err
	}
	speedB, err := interpolate(xb, yb, grid)
	if err != nil {
		return nil, err
	}

	delta := make([]float64, len(grid))
	for i := 1; i < len(grid); i++ {
		dx := grid[i] - grid[i-1]
		paceA := 1 / units.Clamp(units.KmhToMps(speedA[i]), opts.ClampMinMPS, opts.ClampMaxMPS)
		paceB := 1 / units.Clamp(units.KmhToMps(speedB[i]), opts.ClampMinMPS, opts.ClampMaxMPS)
		delta[i] = delta[i-1] + (paceA-paceB)*dx
	}

	return &Curve{Distance: grid, Delta: delta, SpeedA: speedA, SpeedB: speedB}, nil
}

// LapTime estimates the time to cover a lap from its own native samples:
// the sum of per-segment distance over clamped velocity. It ranks laps for
// best/worst comparison-target selection.
func LapTime(samples []Sample, opts Options) (float64, error) {
	opts = opts.withDefaults()

	xs, ys, err := prepare(samples)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for i := 1; i < len(xs); i++ {
		dx := xs[i] - xs[i-1]
		v := units.Clamp(units.KmhToMps(ys[i]), opts.ClampMinMPS, opts.ClampMaxMPS)
		total += dx / v
	}
	return total, nil
}

// Resample interpolates an arbitrary channel onto a grid built by Compare,
// letting the dashboard overlay throttle or RPM on the same axis. xs must
// be the channel's native distances.
func Resample(xs, ys, grid []float64) ([]float64, error) {
	cx, cy, err := prepareXY(xs, ys)
	if err != nil {
		return nil, err
	}
	return interpolate(cx, cy, grid)
}

// prepare sorts samples by distance, drops NaNs and collapses duplicate
// distances (first value wins) so the interpolant sees strictly increasing
// abscissae. Distance is expected monotonic per lap but is defensively
// re-sorted.
func prepare(samples []Sample) (xs, ys []float64, err error) {
	xs = make([]float64, 0, len(samples))
	ys = make([]float64, 0, len(samples))
	for _, s := range samples {
		xs = append(xs, s.Distance)
		ys = append(ys, s.Speed)
	}
	return prepareXY(xs, ys)
}

func prepareXY(xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, errors.New("delta: mismatched channel lengths")
	}

	type pt struct{ x, y float64 }
	pts := make([]pt, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, pt{xs[i], ys[i]})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].x < pts[j].x })

	cx := make([]float64, 0, len(pts))
	cy := make([]float64, 0, len(pts))
	for _, p := range pts {
		if len(cx) > 0 && p.x == cx[len(cx)-1] {
			continue
		}
		cx = append(cx, p.x)
		cy = append(cy, p.y)
	}

	if len(cx) < 2 {
		return nil, nil, ErrInsufficientSamples
	}
	return cx, cy, nil
}

// interpolate evaluates a piecewise-linear fit at every grid point. Queries
// outside the native range are clamped to the nearest endpoint, i.e. flat
// extrapolation.
func interpolate(xs, ys, grid []float64) ([]float64, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}

	lo, hi := xs[0], xs[len(xs)-1]
	out := make([]float64, len(grid))
	for i, x := range grid {
		if x < lo {
			x = lo
		} else if x > hi {
			x = hi
		}
		out[i] = pl.Predict(x)
	}
	return out, nil
}
