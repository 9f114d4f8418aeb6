// Package config loads the pipeline configuration. Fields are pointer-typed
// so a partial JSON file only overrides what it names; everything else keeps
// its default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/laptrace.report/internal/units"
)

// Pipeline is the shared configuration for the normalizer and the dashboard.
type Pipeline struct {
	// Normalizer paths.
	DataDir    *string `json:"data_dir,omitempty"`    // per-driver raw lap CSVs, one subdir per driver code
	CleanedDir *string `json:"cleaned_dir,omitempty"` // canonical per-driver artifacts
	ReportDir  *string `json:"report_dir,omitempty"`  // inspection reports
	Session    *string `json:"session,omitempty"`     // session label embedded in artifact filenames

	// Delta engine parameters. The clamp bounds bias pace at extreme
	// speeds, so they live here rather than as hidden constants.
	GridPoints  *int     `json:"grid_points,omitempty"`
	ClampMinMPS *float64 `json:"clamp_min_mps,omitempty"`
	ClampMaxMPS *float64 `json:"clamp_max_mps,omitempty"`

	// Dashboard.
	Listen *string `json:"listen,omitempty"`
	DBPath *string `json:"db_path,omitempty"` // lap index sqlite database
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Pipeline {
	return &Pipeline{
		DataDir:     ptrString("F1_Data/Australia2025"),
		CleanedDir:  ptrString("cleaned_csv"),
		ReportDir:   ptrString("report"),
		Session:     ptrString("Australia2025"),
		GridPoints:  ptrInt(2000),
		ClampMinMPS: ptrFloat64(units.DefaultClampMinMPS),
		ClampMaxMPS: ptrFloat64(units.DefaultClampMaxMPS),
		Listen:      ptrString(":8080"),
		DBPath:      ptrString("laptrace.db"),
	}
}

func ptrString(v string) *string   { return &v }
func ptrInt(v int) *int            { return &v }
func ptrFloat64(v float64) *float64 { return &v }

// Load reads a JSON config file and merges it over the defaults. The file
// must have a .json extension and stay under 1MB.
func Load(path string) (*Pipeline, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var overrides Pipeline
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Defaults()
	cfg.Merge(&overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays non-nil fields from other onto cfg.
func (cfg *Pipeline) Merge(other *Pipeline) {
	if other == nil {
		return
	}
	if other.DataDir != nil {
		cfg.DataDir = other.DataDir
	}
	if other.CleanedDir != nil {
		cfg.CleanedDir = other.CleanedDir
	}
	if other.ReportDir != nil {
		cfg.ReportDir = other.ReportDir
	}
	if other.Session != nil {
		cfg.Session = other.Session
	}
	if other.GridPoints != nil {
		cfg.GridPoints = other.GridPoints
	}
	if other.ClampMinMPS != nil {
		cfg.ClampMinMPS = other.ClampMinMPS
	}
	if other.ClampMaxMPS != nil {
		cfg.ClampMaxMPS = other.ClampMaxMPS
	}
	if other.Listen != nil {
		cfg.Listen = other.Listen
	}
	if other.DBPath != nil {
		cfg.DBPath = other.DBPath
	}
}

// Validate rejects parameter combinations the delta engine cannot work with.
func (cfg *Pipeline) Validate() error {
	if cfg.GridPoints != nil && *cfg.GridPoints < 2 {
		return fmt.Errorf("grid_points must be at least 2, got %d", *cfg.GridPoints)
	}
	if cfg.ClampMinMPS != nil && *cfg.ClampMinMPS <= 0 {
		return fmt.Errorf("clamp_min_mps must be positive, got %v", *cfg.ClampMinMPS)
	}
	if cfg.ClampMinMPS != nil && cfg.ClampMaxMPS != nil && *cfg.ClampMaxMPS <= *cfg.ClampMinMPS {
		return fmt.Errorf("clamp_max_mps (%v) must exceed clamp_min_mps (%v)", *cfg.ClampMaxMPS, *cfg.ClampMinMPS)
	}
	return nil
}

// ArtifactPath returns the canonical artifact location for a driver code,
// following the <session>_<code>_cleaned_sorted.csv template the dashboard
// relies on.
func (cfg *Pipeline) ArtifactPath(code string) string {
	return filepath.Join(*cfg.CleanedDir, fmt.Sprintf("%s_%s_cleaned_sorted.csv", *cfg.Session, code))
}
