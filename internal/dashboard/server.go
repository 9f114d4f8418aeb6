// Package dashboard serves the lap comparison UI: JSON endpoints over the
// normalized artifacts plus rendered chart pages.
package dashboard

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/laptrace.report/internal/config"
	"github.com/banshee-data/laptrace.report/internal/delta"
	"github.com/banshee-data/laptrace.report/internal/drivers"
	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/lapstore"
	"github.com/banshee-data/laptrace.report/internal/monitoring"
	"github.com/banshee-data/laptrace.report/internal/security"
	"github.com/banshee-data/laptrace.report/internal/telemetry"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	cfg   *config.Pipeline
	fs    fsutil.FileSystem
	store *lapstore.Store
	cache *datasetCache
}

// NewServer wires the dashboard over a config, a filesystem and an optional
// lap index. A nil fs falls back to the OS filesystem; a nil store disables
// the index-backed endpoints.
func NewServer(cfg *config.Pipeline, fs fsutil.FileSystem, store *lapstore.Store) *Server {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &Server{
		cfg:   cfg,
		fs:    fs,
		store: store,
		cache: newDatasetCache(fs),
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the route table. Debug routes for the lap index are
// attached separately via the store's AttachAdminRoutes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/drivers", s.listDrivers)
	mux.HandleFunc("/api/laps", s.listLaps)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/summary", s.channelSummary)
	mux.HandleFunc("/api/delta", s.deltaJSON)
	mux.HandleFunc("/api/delta.png", s.deltaPNG)
	mux.HandleFunc("/charts/speed", s.speedChart)
	mux.HandleFunc("/charts/track", s.trackChart)
	mux.HandleFunc("/charts/compare", s.comparePage)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	codes := s.availableDrivers()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><head><title>laptrace %s</title></head><body>", html.EscapeString(*s.cfg.Session))
	fmt.Fprintf(w, "<h1>Lap traces: %s</h1><ul>", html.EscapeString(*s.cfg.Session))
	for _, code := range codes {
		safe := html.EscapeString(code)
		fmt.Fprintf(w,
			`<li>%s (%s) &mdash; <a href="/charts/speed?driver=%s&lap=1">speed</a> <a href="/charts/track?driver=%s&lap=1">track</a></li>`,
			html.EscapeString(drivers.FullName(code)), safe, safe, safe)
	}
	fmt.Fprint(w, "</ul></body></html>")
}

// availableDrivers lists driver codes with a normalized artifact on disk.
func (s *Server) availableDrivers() []string {
	var codes []string
	for _, code := range drivers.Codes() {
		if s.fs.Exists(s.cfg.ArtifactPath(code)) {
			codes = append(codes, code)
		}
	}
	return codes
}

// artifactFrame loads the cleaned artifact for a driver code through the
// cache. The resolved path is containment-checked because the code comes
// straight from the query string.
func (s *Server) artifactFrame(code string) (*telemetry.Frame, error) {
	path := s.cfg.ArtifactPath(code)
	if err := security.ValidatePathWithinDirectory(path, *s.cfg.CleanedDir); err != nil {
		return nil, err
	}
	return s.cache.Load(path)
}

// lapRecords returns a driver's rows for one lap, in trace order.
func (s *Server) lapRecords(code string, lap int) ([]telemetry.Record, error) {
	frame, err := s.artifactFrame(code)
	if err != nil {
		return nil, err
	}
	var out []telemetry.Record
	for _, rec := range telemetry.Records(frame) {
		if rec.LapNumber == lap {
			out = append(out, rec)
		}
	}
	return out, nil
}

func lapSamples(records []telemetry.Record) []delta.Sample {
	samples := make([]delta.Sample, 0, len(records))
	for _, rec := range records {
		samples = append(samples, delta.Sample{Distance: rec.Distance, Speed: rec.Speed})
	}
	return samples
}

func (s *Server) deltaOptions() delta.Options {
	return delta.Options{
		GridPoints:  *s.cfg.GridPoints,
		ClampMinMPS: *s.cfg.ClampMinMPS,
		ClampMaxMPS: *s.cfg.ClampMaxMPS,
	}
}
