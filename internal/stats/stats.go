// Package stats computes the distribution summary the dashboard shows for
// any numeric telemetry channel.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptyChannel means the channel held no finite values to summarise.
var ErrEmptyChannel = errors.New("stats: channel has no finite values")

// Summary describes one channel's distribution. StdDev and Variance are the
// sample (n-1) statistics gonum computes.
type Summary struct {
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// Summarise computes the distribution summary over a channel. NaNs (null
// cells in the source CSV) are ignored; a channel with no finite values is
// an error rather than a zeroed summary.
func Summarise(values []float64) (*Summary, error) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return nil, ErrEmptyChannel
	}
	sort.Float64s(clean)

	s := &Summary{
		Q1:     Percentile(clean, 25),
		Median: Percentile(clean, 50),
		Q3:     Percentile(clean, 75),
		Min:    clean[0],
		Max:    clean[len(clean)-1],
		Mean:   stat.Mean(clean, nil),
		Count:  len(clean),
	}
	if len(clean) > 1 {
		s.Variance = stat.Variance(clean, nil)
		s.StdDev = math.Sqrt(s.Variance)
	}
	return s, nil
}

// Percentile returns the p-th percentile (0..100) of sorted values, with
// linear interpolation between neighbouring samples.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
