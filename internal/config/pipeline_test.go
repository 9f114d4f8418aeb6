package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if *cfg.GridPoints != 2000 {
		t.Errorf("GridPoints = %d, want 2000", *cfg.GridPoints)
	}
	if *cfg.ClampMinMPS != 0.1 || *cfg.ClampMaxMPS != 100 {
		t.Errorf("clamp = [%v, %v], want [0.1, 100]", *cfg.ClampMinMPS, *cfg.ClampMaxMPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json")
	if err := os.WriteFile(path, []byte(`{"grid_points": 500, "session": "Monaco2025"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg.GridPoints != 500 {
		t.Errorf("GridPoints = %d, want 500", *cfg.GridPoints)
	}
	if *cfg.Session != "Monaco2025" {
		t.Errorf("Session = %q", *cfg.Session)
	}
	// Untouched fields keep defaults.
	if *cfg.ClampMaxMPS != 100 {
		t.Errorf("ClampMaxMPS = %v, want default 100", *cfg.ClampMaxMPS)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "pipeline.yaml")); err == nil {
		t.Error("non-json extension should fail")
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"grid_points": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("grid_points below 2 should fail validation")
	}

	inverted := filepath.Join(dir, "inverted.json")
	if err := os.WriteFile(inverted, []byte(`{"clamp_min_mps": 50, "clamp_max_mps": 10}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(inverted); err == nil {
		t.Error("inverted clamp bounds should fail validation")
	}
}

func TestArtifactPath(t *testing.T) {
	cfg := Defaults()
	got := cfg.ArtifactPath("VER")
	want := filepath.Join("cleaned_csv", "Australia2025_VER_cleaned_sorted.csv")
	if got != want {
		t.Errorf("ArtifactPath = %q, want %q", got, want)
	}
}
