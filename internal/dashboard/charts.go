package dashboard

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/laptrace.report/internal/drivers"
	"github.com/banshee-data/laptrace.report/internal/httputil"
)

// viridis is the palette used for speed-coloured scatter plots.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

func (s *Server) requestedLap(r *http.Request) (code string, lap int, err error) {
	code = r.URL.Query().Get("driver")
	if code == "" {
		return "", 0, fmt.Errorf("missing 'driver' parameter")
	}
	lap = 1
	if l := r.URL.Query().Get("lap"); l != "" {
		lap, err = strconv.Atoi(l)
		if err != nil {
			return "", 0, fmt.Errorf("invalid 'lap' parameter")
		}
	}
	return code, lap, nil
}

// speedChart renders one lap's speed, RPM and throttle traces against
// distance as a stacked line page.
func (s *Server) speedChart(w http.ResponseWriter, r *http.Request) {
	code, lap, err := s.requestedLap(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	records, err := s.lapRecords(code, lap)
	if err != nil {
		httputil.NotFound(w, fmt.Sprintf("no artifact for driver %q", code))
		return
	}
	if len(records) == 0 {
		httputil.NotFound(w, fmt.Sprintf("driver %q has no rows for lap %d", code, lap))
		return
	}

	x := make([]string, 0, len(records))
	speed := make([]opts.LineData, 0, len(records))
	rpm := make([]opts.LineData, 0, len(records))
	throttle := make([]opts.LineData, 0, len(records))
	for _, rec := range records {
		x = append(x, fmt.Sprintf("%.0f", rec.Distance))
		speed = append(speed, opts.LineData{Value: rec.Speed})
		rpm = append(rpm, opts.LineData{Value: rec.RPM})
		throttle = append(throttle, opts.LineData{Value: rec.Throttle})
	}

	subtitle := fmt.Sprintf("%s lap %d, %d samples", drivers.FullName(code), lap, len(records))

	speedLine := charts.NewLine()
	speedLine.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Lap speed trace", Theme: "dark", Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed (km/h)", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
	)
	speedLine.SetXAxis(x).AddSeries("speed", speed)

	rpmLine := charts.NewLine()
	rpmLine.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1200px", Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: "RPM"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
	)
	rpmLine.SetXAxis(x).AddSeries("rpm", rpm)

	throttleLine := charts.NewLine()
	throttleLine.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1200px", Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: "Throttle (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
	)
	throttleLine.SetXAxis(x).AddSeries("throttle", throttle)

	page := components.NewPage()
	page.AddCharts(speedLine, rpmLine, throttleLine)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// trackChart renders the lap's X/Y positions coloured by speed.
func (s *Server) trackChart(w http.ResponseWriter, r *http.Request) {
	code, lap, err := s.requestedLap(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	records, err := s.lapRecords(code, lap)
	if err != nil {
		httputil.NotFound(w, fmt.Sprintf("no artifact for driver %q", code))
		return
	}
	if len(records) == 0 {
		httputil.NotFound(w, fmt.Sprintf("driver %q has no rows for lap %d", code, lap))
		return
	}

	data := make([]opts.ScatterData, 0, len(records))
	maxAbs := 0.0
	maxSpeed := 0.0
	for _, rec := range records {
		if math.Abs(rec.X) > maxAbs {
			maxAbs = math.Abs(rec.X)
		}
		if math.Abs(rec.Y) > maxAbs {
			maxAbs = math.Abs(rec.Y)
		}
		if rec.Speed > maxSpeed {
			maxSpeed = rec.Speed
		}
		data = append(data, opts.ScatterData{Value: []interface{}{rec.X, rec.Y, rec.Speed}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Track map", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Track map", Subtitle: fmt.Sprintf("%s lap %d, coloured by speed", drivers.FullName(code), lap)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSpeed),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("position", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// comparePage renders the delta-time curve for two laps with both speed
// traces underneath.
func (s *Server) comparePage(w http.ResponseWriter, r *http.Request) {
	resp, curve, err := s.comparePair(r)
	if err != nil {
		writeDeltaError(w, err)
		return
	}

	x := make([]string, 0, len(curve.Distance))
	deltaSeries := make([]opts.LineData, 0, len(curve.Delta))
	speedA := make([]opts.LineData, 0, len(curve.SpeedA))
	speedB := make([]opts.LineData, 0, len(curve.SpeedB))
	for i := range curve.Distance {
		x = append(x, fmt.Sprintf("%.0f", curve.Distance[i]))
		deltaSeries = append(deltaSeries, opts.LineData{Value: curve.Delta[i]})
		speedA = append(speedA, opts.LineData{Value: curve.SpeedA[i]})
		speedB = append(speedB, opts.LineData{Value: curve.SpeedB[i]})
	}

	labelA := fmt.Sprintf("%s lap %d", resp.DriverA, resp.LapA)
	labelB := fmt.Sprintf("%s lap %d", resp.DriverB, resp.LapB)

	deltaLine := charts.NewLine()
	deltaLine.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Lap comparison", Theme: "dark", Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Delta time: %s vs %s", labelA, labelB),
			Subtitle: fmt.Sprintf("positive means %s trails, final delta %.3fs", labelA, resp.FinalDelta),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Delta (s)"}),
	)
	deltaLine.SetXAxis(x).AddSeries("delta", deltaSeries)

	speedLine := charts.NewLine()
	speedLine.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed (km/h)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
	)
	speedLine.SetXAxis(x).
		AddSeries(labelA, speedA).
		AddSeries(labelB, speedB)

	page := components.NewPage()
	page.AddCharts(deltaLine, speedLine)

	if len(resp.ThrottleA) == len(x) && len(resp.ThrottleB) == len(x) {
		throttleA := make([]opts.LineData, 0, len(resp.ThrottleA))
		throttleB := make([]opts.LineData, 0, len(resp.ThrottleB))
		for i := range x {
			throttleA = append(throttleA, opts.LineData{Value: resp.ThrottleA[i]})
			throttleB = append(throttleB, opts.LineData{Value: resp.ThrottleB[i]})
		}
		throttleLine := charts.NewLine()
		throttleLine.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1200px", Height: "300px"}),
			charts.WithTitleOpts(opts.Title{Title: "Throttle (%)"}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
		)
		throttleLine.SetXAxis(x).
			AddSeries(labelA, throttleA).
			AddSeries(labelB, throttleB)
		page.AddCharts(throttleLine)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
