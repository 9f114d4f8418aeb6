// Command normalize turns per-lap raw telemetry CSVs into one canonical
// cleaned and sorted artifact per driver, writes the accompanying inspection
// report, and records the run in the lap index.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/laptrace.report/internal/config"
	"github.com/banshee-data/laptrace.report/internal/delta"
	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/lapstore"
	"github.com/banshee-data/laptrace.report/internal/normalize"
	"github.com/banshee-data/laptrace.report/internal/timeutil"
	"github.com/banshee-data/laptrace.report/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON config file")
	dataDir     = flag.String("data", "", "Directory of per-driver raw lap CSVs (overrides config)")
	cleanedDir  = flag.String("cleaned", "", "Output directory for cleaned artifacts (overrides config)")
	reportDir   = flag.String("reports", "", "Output directory for inspection reports (overrides config)")
	session     = flag.String("session", "", "Session label for artifact filenames (overrides config)")
	driver      = flag.String("driver", "all", "Driver code to normalize, or 'all' for every subdirectory of the data dir")
	dbPath      = flag.String("db", "", "Lap index database path (overrides config; 'none' disables indexing)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fs := fsutil.OSFileSystem{}
	clock := timeutil.RealClock{}
	normalizer := normalize.New(cfg, fs, clock)

	var store *lapstore.Store
	if *cfg.DBPath != "none" {
		store, err = lapstore.Open(*cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open lap index: %v", err)
		}
		defer store.Close()
	}

	codes, err := resolveDrivers(normalizer)
	if err != nil {
		log.Fatalf("Failed to resolve drivers: %v", err)
	}
	if len(codes) == 0 {
		log.Fatalf("No driver directories found under %s", *cfg.DataDir)
	}

	runID := lapstore.NewRunID()
	log.Printf("normalize run %s: session %s, %d driver(s)", runID, *cfg.Session, len(codes))

	failures := 0
	for _, code := range codes {
		res, err := normalizer.Run(code)
		if err != nil {
			log.Printf("driver %s: %v", code, err)
			failures++
			continue
		}
		log.Printf("driver %s: %s, %d file(s), %d record(s), %d lap(s), %d missing gap value(s)",
			code, res.Condition, len(res.Files), res.Records, res.Laps, res.TotalMissing)

		if store == nil {
			continue
		}
		if _, err := store.RecordRun(lapstore.Run{
			ID:           runID,
			Session:      *cfg.Session,
			Driver:       code,
			Files:        len(res.Files),
			TotalMissing: res.TotalMissing,
			Outcome:      string(res.Condition),
			StartedAt:    clock.Now(),
		}); err != nil {
			log.Printf("driver %s: failed to record run: %v", code, err)
		}
		if res.ArtifactPath != "" {
			opts := delta.Options{
				GridPoints:  *cfg.GridPoints,
				ClampMinMPS: *cfg.ClampMinMPS,
				ClampMaxMPS: *cfg.ClampMaxMPS,
			}
			if _, err := store.IndexArtifact(fs, res.ArtifactPath, opts); err != nil {
				log.Printf("driver %s: failed to index artifact: %v", code, err)
			}
		}
	}

	if failures > 0 {
		log.Printf("%d driver(s) failed", failures)
		os.Exit(1)
	}
}

// loadConfig merges flag overrides on top of the config file (or defaults).
func loadConfig() (*config.Pipeline, error) {
	var cfg *config.Pipeline
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Defaults()
	}

	overrides := &config.Pipeline{}
	if *dataDir != "" {
		overrides.DataDir = dataDir
	}
	if *cleanedDir != "" {
		overrides.CleanedDir = cleanedDir
	}
	if *reportDir != "" {
		overrides.ReportDir = reportDir
	}
	if *session != "" {
		overrides.Session = session
	}
	if *dbPath != "" {
		overrides.DBPath = dbPath
	}
	cfg.Merge(overrides)
	return cfg, cfg.Validate()
}

// resolveDrivers turns the -driver flag into concrete codes. "all" scans
// the data directory for per-driver subdirectories.
func resolveDrivers(n *normalize.Normalizer) ([]string, error) {
	if *driver != "all" {
		return []string{*driver}, nil
	}
	return n.DriverCodes()
}
