// Package telemetry defines the per-lap telemetry schema shared by the
// normalizer and the dashboard: the column vocabulary produced by the
// acquisition step, case-insensitive column matching, and the tabular
// Frame container that raw lap files are parsed into.
package telemetry

import "strings"

// Canonical column names. Upstream producers are not guaranteed consistent
// casing, so lookups go through CanonicalName rather than string equality.
const (
	ColDate                  = "Date"
	ColSessionTime           = "SessionTime"
	ColTime                  = "Time"
	ColSpeed                 = "Speed"
	ColRPM                   = "RPM"
	ColGear                  = "nGear"
	ColThrottle              = "Throttle"
	ColBrake                 = "Brake"
	ColDRS                   = "DRS"
	ColX                     = "X"
	ColY                     = "Y"
	ColZ                     = "Z"
	ColDistance              = "Distance"
	ColRelativeDistance      = "RelativeDistance"
	ColDriverAhead           = "DriverAhead"
	ColDistanceToDriverAhead = "DistanceToDriverAhead"
)

// Columns added by the normalizer when laps are merged into a canonical trace.
const (
	ColDriver    = "Driver"
	ColLapNumber = "LapNumber"
)

// NoDriverAhead is the sentinel written in place of a missing DriverAhead
// value. A null in the raw data means the car was running in clear air, not
// that the measurement failed, so the sentinel is a real value rather than
// a gap.
const NoDriverAhead = "None"

// Vocabulary lists every column the acquisition step may emit, in canonical
// order. Not every file carries every column.
var Vocabulary = []string{
	ColDate, ColSessionTime, ColTime,
	ColSpeed, ColRPM, ColGear, ColThrottle, ColBrake, ColDRS,
	ColX, ColY, ColZ,
	ColDistance, ColRelativeDistance,
	ColDriverAhead, ColDistanceToDriverAhead,
}

var canonical = func() map[string]string {
	m := make(map[string]string, len(Vocabulary)+2)
	for _, c := range Vocabulary {
		m[strings.ToLower(c)] = c
	}
	m[strings.ToLower(ColDriver)] = ColDriver
	m[strings.ToLower(ColLapNumber)] = ColLapNumber
	return m
}()

// CanonicalName maps a header cell onto the canonical vocabulary,
// case-insensitively. Unknown columns are passed through unchanged so
// producer extensions survive the round trip.
func CanonicalName(name string) (string, bool) {
	if c, ok := canonical[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, true
	}
	return name, false
}
