package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/banshee-data/laptrace.report/internal/delta"
	"github.com/banshee-data/laptrace.report/internal/drivers"
	"github.com/banshee-data/laptrace.report/internal/httputil"
	"github.com/banshee-data/laptrace.report/internal/lapstore"
	"github.com/banshee-data/laptrace.report/internal/stats"
	"github.com/banshee-data/laptrace.report/internal/telemetry"
)

type driverInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) listDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	codes := s.availableDrivers()
	infos := make([]driverInfo, 0, len(codes))
	for _, code := range codes {
		infos = append(infos, driverInfo{Code: code, Name: drivers.FullName(code)})
	}
	httputil.WriteJSONOK(w, infos)
}

func (s *Server) listLaps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	code := r.URL.Query().Get("driver")
	if code == "" {
		httputil.BadRequest(w, "missing 'driver' parameter")
		return
	}

	// Prefer the index; fall back to summarising the artifact directly
	// when no store is attached.
	if s.store != nil {
		laps, err := s.store.Laps(code)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to query lap index: %v", err))
			return
		}
		if len(laps) > 0 {
			httputil.WriteJSONOK(w, laps)
			return
		}
	}

	frame, err := s.artifactFrame(code)
	if err != nil {
		httputil.NotFound(w, fmt.Sprintf("no artifact for driver %q", code))
		return
	}
	laps := lapstore.SummariseLaps(frame, s.cfg.ArtifactPath(code), s.deltaOptions())
	httputil.WriteJSONOK(w, laps)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.store == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "lap index not configured")
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	runs, err := s.store.RecentRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to query runs: %v", err))
		return
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) channelSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	code := r.URL.Query().Get("driver")
	if code == "" {
		httputil.BadRequest(w, "missing 'driver' parameter")
		return
	}
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		channel = telemetry.ColSpeed
	}

	frame, err := s.artifactFrame(code)
	if err != nil {
		httputil.NotFound(w, fmt.Sprintf("no artifact for driver %q", code))
		return
	}
	if !frame.HasColumn(channel) {
		httputil.NotFound(w, fmt.Sprintf("channel %q not present in artifact", channel))
		return
	}

	values, err := frame.Floats(channel)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to read channel: %v", err))
		return
	}

	// An optional lap filter narrows the summary to one lap.
	if lapParam := r.URL.Query().Get("lap"); lapParam != "" {
		lap, err := strconv.Atoi(lapParam)
		if err != nil {
			httputil.BadRequest(w, "invalid 'lap' parameter")
			return
		}
		records := telemetry.Records(frame)
		filtered := values[:0:0]
		for i, rec := range records {
			if rec.LapNumber == lap {
				filtered = append(filtered, values[i])
			}
		}
		values = filtered
	}

	summary, err := stats.Summarise(values)
	if err != nil {
		if errors.Is(err, stats.ErrEmptyChannel) {
			httputil.UnprocessableEntity(w, fmt.Sprintf("channel %q has no finite values for that selection", channel))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("Failed to summarise channel: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"driver":  code,
		"channel": channel,
		"summary": summary,
	})
}

type deltaResponse struct {
	DriverA    string    `json:"driver_a"`
	LapA       int       `json:"lap_a"`
	DriverB    string    `json:"driver_b"`
	LapB       int       `json:"lap_b"`
	Distance   []float64 `json:"distance"`
	Delta      []float64 `json:"delta"`
	SpeedA     []float64 `json:"speed_a"`
	SpeedB     []float64 `json:"speed_b"`
	ThrottleA  []float64 `json:"throttle_a,omitempty"`
	ThrottleB  []float64 `json:"throttle_b,omitempty"`
	FinalDelta float64   `json:"final_delta"`
}

// comparePair resolves the two driver/lap selections of a delta request.
func (s *Server) comparePair(r *http.Request) (*deltaResponse, *delta.Curve, error) {
	q := r.URL.Query()
	codeA := q.Get("driver_a")
	codeB := q.Get("driver_b")
	if codeA == "" || codeB == "" {
		return nil, nil, fmt.Errorf("missing 'driver_a' or 'driver_b' parameter")
	}
	lapA, err := s.resolveLap(codeA, q.Get("lap_a"))
	if err != nil {
		return nil, nil, fmt.Errorf("lap_a: %w", err)
	}
	lapB, err := s.resolveLap(codeB, q.Get("lap_b"))
	if err != nil {
		return nil, nil, fmt.Errorf("lap_b: %w", err)
	}

	recsA, err := s.lapRecords(codeA, lapA)
	if err != nil {
		return nil, nil, fmt.Errorf("no artifact for driver %q", codeA)
	}
	recsB, err := s.lapRecords(codeB, lapB)
	if err != nil {
		return nil, nil, fmt.Errorf("no artifact for driver %q", codeB)
	}

	curve, err := delta.Compare(lapSamples(recsA), lapSamples(recsB), s.deltaOptions())
	if err != nil {
		return nil, nil, err
	}

	resp := &deltaResponse{
		DriverA:  codeA,
		LapA:     lapA,
		DriverB:  codeB,
		LapB:     lapB,
		Distance: curve.Distance,
		Delta:    curve.Delta,
		SpeedA:   curve.SpeedA,
		SpeedB:   curve.SpeedB,
	}
	resp.ThrottleA = resampleThrottle(recsA, curve.Distance)
	resp.ThrottleB = resampleThrottle(recsB, curve.Distance)
	if n := len(curve.Delta); n > 0 {
		resp.FinalDelta = curve.Delta[n-1]
	}
	return resp, curve, nil
}

// resolveLap turns a lap selector into a lap number. Numeric selectors pass
// through; "best" and "worst" rank the driver's laps by estimated lap time.
func (s *Server) resolveLap(code, selector string) (int, error) {
	switch selector {
	case "":
		return 0, fmt.Errorf("missing lap parameter")
	case "best", "worst":
		return s.rankedLap(code, selector)
	default:
		lap, err := strconv.Atoi(selector)
		if err != nil {
			return 0, fmt.Errorf("invalid lap selector %q", selector)
		}
		return lap, nil
	}
}

// rankedLap picks the fastest or slowest timed lap for a driver. Laps
// without a usable estimate (a single sample, or no speed data) never rank.
func (s *Server) rankedLap(code, which string) (int, error) {
	var laps []lapstore.Lap
	if s.store != nil {
		rows, err := s.store.Laps(code)
		if err != nil {
			return 0, fmt.Errorf("failed to query lap index: %w", err)
		}
		laps = rows
	}
	if len(laps) == 0 {
		frame, err := s.artifactFrame(code)
		if err != nil {
			return 0, fmt.Errorf("no artifact for driver %q", code)
		}
		laps = lapstore.SummariseLaps(frame, s.cfg.ArtifactPath(code), s.deltaOptions())
	}

	best, worst := 0, 0
	var bestT, worstT float64
	for _, l := range laps {
		if l.EstTimeSec <= 0 || l.Samples < 2 {
			continue
		}
		if best == 0 || l.EstTimeSec < bestT {
			best, bestT = l.Lap, l.EstTimeSec
		}
		if worst == 0 || l.EstTimeSec > worstT {
			worst, worstT = l.Lap, l.EstTimeSec
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("driver %q has no timed laps", code)
	}
	if which == "worst" {
		return worst, nil
	}
	return best, nil
}

// resampleThrottle puts a lap's throttle trace onto the comparison grid.
// The overlay is best effort: a lap without a usable throttle channel just
// renders without one.
func resampleThrottle(records []telemetry.Record, grid []float64) []float64 {
	xs := make([]float64, 0, len(records))
	ys := make([]float64, 0, len(records))
	for _, rec := range records {
		xs = append(xs, rec.Distance)
		ys = append(ys, rec.Throttle)
	}
	out, err := delta.Resample(xs, ys, grid)
	if err != nil {
		return nil
	}
	return out
}

// writeDeltaError maps delta engine failures onto HTTP statuses: data that
// cannot be compared is 422, everything else on the request side is 400/404.
func writeDeltaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, delta.ErrInsufficientSamples), errors.Is(err, delta.ErrNoOverlap):
		httputil.UnprocessableEntity(w, err.Error())
	case strings.Contains(err.Error(), "no artifact"):
		httputil.NotFound(w, err.Error())
	default:
		httputil.BadRequest(w, err.Error())
	}
}

func (s *Server) deltaJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	resp, _, err := s.comparePair(r)
	if err != nil {
		writeDeltaError(w, err)
		return
	}
	httputil.WriteJSONOK(w, resp)
}
