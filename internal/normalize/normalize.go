// Package normalize merges a driver's per-lap telemetry files into one
// canonical, sorted trace, writing an inspection report alongside. A corrupt
// file degrades to a report entry rather than aborting the batch, and an
// empty batch never overwrites a previously written artifact.
package normalize

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/laptrace.report/internal/config"
	"github.com/banshee-data/laptrace.report/internal/drivers"
	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/monitoring"
	"github.com/banshee-data/laptrace.report/internal/telemetry"
	"github.com/banshee-data/laptrace.report/internal/timeutil"
)

// Condition classifies how a run ended. Every condition is recoverable: the
// normalizer reports and degrades instead of raising for per-file problems.
type Condition string

const (
	// OK means a canonical artifact was written.
	OK Condition = "ok"
	// MissingInputDirectory means the driver's raw directory does not
	// exist. A report stating the absence is still written.
	MissingInputDirectory Condition = "missing_input_directory"
	// NoValidFiles means the directory held no parseable lap files. No
	// artifact is written so a prior valid one is left untouched.
	NoValidFiles Condition = "no_valid_files"
)

// ColumnAbsent is the MissingDriverAhead sentinel meaning the file carried
// no DriverAhead column at all.
const ColumnAbsent = -1

// FileSummary is the per-file diagnostic record accumulated into the report.
type FileSummary struct {
	File               string
	MissingDriverAhead int // ColumnAbsent when the column is missing
	ParseError         string
}

// Result describes one normalizer run.
type Result struct {
	Driver       string
	Condition    Condition
	Files        []FileSummary
	TotalMissing int
	Records      int
	Laps         int
	ArtifactPath string // empty when no artifact was written
	ReportPath   string
}

// Normalizer merges raw per-lap files for one driver at a time. It is a
// batch, run-to-completion operation over static local files; rerunning on
// unchanged input reproduces the canonical artifact byte for byte.
type Normalizer struct {
	fs    fsutil.FileSystem
	clock timeutil.Clock

	dataDir    string
	cleanedDir string
	reportDir  string
	session    string
}

// New builds a Normalizer from pipeline configuration. Passing nil for fs or
// clock selects the OS filesystem and the real clock.
func New(cfg *config.Pipeline, fs fsutil.FileSystem, clock timeutil.Clock) *Normalizer {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Normalizer{
		fs:         fs,
		clock:      clock,
		dataDir:    *cfg.DataDir,
		cleanedDir: *cfg.CleanedDir,
		reportDir:  *cfg.ReportDir,
		session:    *cfg.Session,
	}
}

// DriverCodes lists the driver subdirectories under the raw data dir, sorted.
func (n *Normalizer) DriverCodes() ([]string, error) {
	entries, err := n.fs.ReadDir(n.dataDir)
	if err != nil {
		return nil, fmt.Errorf("list data dir %s: %w", n.dataDir, err)
	}
	var codes []string
	for _, e := range entries {
		if e.IsDir() {
			codes = append(codes, e.Name())
		}
	}
	return codes, nil
}

// Run normalizes every lap file for the given driver code. It always writes
// an inspection report; the canonical artifact is written only when at least
// one file parsed.
func (n *Normalizer) Run(code string) (*Result, error) {
	fullName := drivers.FullName(code)
	driverDir := filepath.Join(n.dataDir, code)

	res := &Result{
		Driver:     code,
		ReportPath: filepath.Join(n.reportDir, fullName+".txt"),
	}
	artifact := filepath.Join(n.cleanedDir, fmt.Sprintf("%s_%s_cleaned_sorted.csv", n.session, code))

	rep := &report{}
	rep.printf("%s telemetry inspection report\n", fullName)
	rep.banner(bannerWide, '=')
	rep.printf("Generated: %s\n", n.clock.Now().UTC().Format(time.RFC3339))

	if !n.fs.IsDir(driverDir) {
		rep.printf("\nERROR: Directory %s not found!\n", driverDir)
		res.Condition = MissingInputDirectory
		monitoring.Logf("normalize %s: input directory %s not found", code, driverDir)
		return res, n.writeReport(res, rep)
	}

	entries, err := n.fs.ReadDir(driverDir)
	if err != nil {
		return nil, fmt.Errorf("list driver dir %s: %w", driverDir, err)
	}

	// Files are processed in filename-sorted order for determinism.
	// ReadDir already sorts; the filter keeps only lap CSVs.
	type parsedFile struct {
		name  string
		lap   int
		frame *telemetry.Frame
	}
	var parsed []parsedFile

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		path := filepath.Join(driverDir, e.Name())
		summary := FileSummary{File: e.Name()}

		data, err := n.fs.ReadFile(path)
		if err == nil {
			var frame *telemetry.Frame
			frame, err = telemetry.ReadCSV(bytes.NewReader(data))
			if err == nil {
				rep.writeInspection(path, frame, &summary)
				parsed = append(parsed, parsedFile{name: e.Name(), lap: LapNumber(e.Name()), frame: frame})
				res.Files = append(res.Files, summary)
				continue
			}
		}

		// Per-file failure: record and keep going with the rest.
		summary.ParseError = err.Error()
		rep.b.WriteString("\n")
		rep.banner(bannerNormal, '=')
		rep.printf("Inspecting: %s\n", path)
		rep.banner(bannerNormal, '=')
		rep.printf("\nFailed to read CSV: %v\n", err)
		rep.b.WriteString("\n")
		rep.banner(bannerNormal, '-')
		res.Files = append(res.Files, summary)
		monitoring.Logf("normalize %s: skipping unparsable file %s: %v", code, e.Name(), err)
	}

	res.TotalMissing = rep.writeSummary(res.Files)

	if len(parsed) == 0 {
		res.Condition = NoValidFiles
		monitoring.Logf("normalize %s: no valid lap files in %s, nothing to merge", code, driverDir)
		return res, n.writeReport(res, rep)
	}

	// Merge in file-sorted order. Pre-merge order does not matter because a
	// global sort follows, but determinism keeps reruns byte-identical.
	combined := telemetry.NewFrame(nil)
	laps := make(map[int]bool)
	for _, p := range parsed {
		p.frame.AddColumn(telemetry.ColDriver, code)
		p.frame.AddColumn(telemetry.ColLapNumber, strconv.Itoa(p.lap))
		combined.Append(p.frame)
		laps[p.lap] = true
	}

	n.clean(combined)
	n.sortTrace(combined)

	var buf bytes.Buffer
	if err := telemetry.WriteCSV(&buf, combined); err != nil {
		return nil, fmt.Errorf("encode canonical artifact: %w", err)
	}
	if err := n.fs.MkdirAll(n.cleanedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cleaned dir: %w", err)
	}
	if err := n.fs.WriteFile(artifact, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write canonical artifact: %w", err)
	}

	res.Condition = OK
	res.Records = combined.Len()
	res.Laps = len(laps)
	res.ArtifactPath = artifact
	monitoring.Logf("normalize %s: merged %d laps (%d records) into %s", code, res.Laps, res.Records, artifact)
	return res, n.writeReport(res, rep)
}

// clean applies the semantic repairs: the car-ahead sentinel, the
// joint-nullity rule, and SessionTime conversion to plain seconds.
func (n *Normalizer) clean(f *telemetry.Frame) {
	if f.HasColumn(telemetry.ColDriverAhead) {
		for i := 0; i < f.Len(); i++ {
			if strings.TrimSpace(f.Value(i, telemetry.ColDriverAhead)) == "" {
				// A raw null universally means clear air, not a failed
				// measurement.
				f.Set(i, telemetry.ColDriverAhead, telemetry.NoDriverAhead)
			}
		}
		if f.HasColumn(telemetry.ColDistanceToDriverAhead) {
			for i := 0; i < f.Len(); i++ {
				if f.Value(i, telemetry.ColDriverAhead) == telemetry.NoDriverAhead {
					// Force the pair jointly null even if the producer
					// emitted a stray gap value.
					f.Set(i, telemetry.ColDistanceToDriverAhead, "")
				}
			}
		}
	}

	if f.HasColumn(telemetry.ColSessionTime) {
		for i := 0; i < f.Len(); i++ {
			raw := f.Value(i, telemetry.ColSessionTime)
			secs, err := telemetry.ParseSessionDuration(raw)
			if err != nil {
				// Leave the cell as-is; it sorts to the front of its lap.
				continue
			}
			f.Set(i, telemetry.ColSessionTime, telemetry.FormatSeconds(secs))
		}
	}
}

// sortTrace orders the merged trace by (lap number, session seconds). The
// sort is stable so rows with equal keys keep file order.
func (n *Normalizer) sortTrace(f *telemetry.Frame) {
	lapIdx := f.ColumnIndex(telemetry.ColLapNumber)
	timeIdx := f.ColumnIndex(telemetry.ColSessionTime)

	key := func(row []string, idx int) float64 {
		if idx < 0 || idx >= len(row) {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil || math.IsNaN(v) {
			return 0
		}
		return v
	}

	f.SortStable(func(i, j int) bool {
		li, lj := key(f.Rows[i], lapIdx), key(f.Rows[j], lapIdx)
		if li != lj {
			return li < lj
		}
		return key(f.Rows[i], timeIdx) < key(f.Rows[j], timeIdx)
	})
}

func (n *Normalizer) writeReport(res *Result, rep *report) error {
	if err := n.fs.MkdirAll(n.reportDir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := n.fs.WriteFile(res.ReportPath, []byte(rep.String()), os.FileMode(0o644)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
