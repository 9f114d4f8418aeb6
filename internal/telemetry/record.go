package telemetry

import (
	"strconv"
	"strings"
)

// Record is a typed view of one canonical-trace row. Numeric fields default
// to zero when their column is absent; the car-ahead pair keeps its
// nullability so consumers can tell clear air from a populated gap.
type Record struct {
	Driver          string  `json:"driver"`
	LapNumber       int     `json:"lap_number"`
	SessionTime     float64 `json:"session_time"`
	Speed           float64 `json:"speed"`
	RPM             float64 `json:"rpm"`
	Gear            int     `json:"gear"`
	Throttle        float64 `json:"throttle"`
	Brake           bool    `json:"brake"`
	DRS             int     `json:"drs"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Z               float64 `json:"z"`
	Distance        float64 `json:"distance"`
	RelativeDist    float64 `json:"relative_distance"`
	DriverAhead     *string `json:"driver_ahead"`
	DistDriverAhead *float64 `json:"distance_to_driver_ahead"`
}

// Records converts a frame into typed rows. Conversion is best effort: a
// cell that does not parse leaves the zero value in place, matching how the
// dashboard treats gaps in optional channels.
func Records(f *Frame) []Record {
	out := make([]Record, f.Len())
	for i := range out {
		r := &out[i]
		r.Driver = f.Value(i, ColDriver)
		r.LapNumber = atoiOrZero(f.Value(i, ColLapNumber))
		r.SessionTime = atofOrZero(f.Value(i, ColSessionTime))
		r.Speed = atofOrZero(f.Value(i, ColSpeed))
		r.RPM = atofOrZero(f.Value(i, ColRPM))
		r.Gear = atoiOrZero(f.Value(i, ColGear))
		r.Throttle = atofOrZero(f.Value(i, ColThrottle))
		r.Brake = strings.EqualFold(strings.TrimSpace(f.Value(i, ColBrake)), "true")
		r.DRS = atoiOrZero(f.Value(i, ColDRS))
		r.X = atofOrZero(f.Value(i, ColX))
		r.Y = atofOrZero(f.Value(i, ColY))
		r.Z = atofOrZero(f.Value(i, ColZ))
		r.Distance = atofOrZero(f.Value(i, ColDistance))
		r.RelativeDist = atofOrZero(f.Value(i, ColRelativeDistance))

		if ahead := strings.TrimSpace(f.Value(i, ColDriverAhead)); ahead != "" {
			r.DriverAhead = &ahead
		}
		if gap := strings.TrimSpace(f.Value(i, ColDistanceToDriverAhead)); gap != "" {
			if v, err := strconv.ParseFloat(gap, 64); err == nil {
				r.DistDriverAhead = &v
			}
		}
	}
	return out
}

func atofOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// LapNumber and nGear sometimes arrive as "3.0".
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}
