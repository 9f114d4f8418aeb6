package lapstore

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/laptrace.report/internal/delta"
	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/telemetry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "laps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMigratesSchema(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Idempotent on reopen.
	require.NoError(t, s.MigrateUp())
}

func TestUpsertAndQueryLaps(t *testing.T) {
	s := openTestStore(t)

	mtime := time.Date(2025, 3, 16, 5, 0, 0, 0, time.UTC)
	for _, l := range []Lap{
		{Driver: "VER", Lap: 2, EstTimeSec: 82.5, TopSpeedKmh: 312, Samples: 540, Artifact: "cleaned_csv/ver.csv", ArtifactMtime: mtime},
		{Driver: "VER", Lap: 1, EstTimeSec: 84.1, TopSpeedKmh: 309, Samples: 538, Artifact: "cleaned_csv/ver.csv", ArtifactMtime: mtime},
		{Driver: "HAM", Lap: 1, EstTimeSec: 85.0, TopSpeedKmh: 305, Samples: 520, Artifact: "cleaned_csv/ham.csv", ArtifactMtime: mtime},
	} {
		require.NoError(t, s.UpsertLap(l))
	}

	laps, err := s.Laps("VER")
	require.NoError(t, err)
	require.Len(t, laps, 2)
	assert.Equal(t, 1, laps[0].Lap)
	assert.Equal(t, 2, laps[1].Lap)
	assert.Equal(t, 84.1, laps[0].EstTimeSec)
	assert.Equal(t, mtime, laps[0].ArtifactMtime)

	drivers, err := s.Drivers()
	require.NoError(t, err)
	assert.Equal(t, []string{"HAM", "VER"}, drivers)

	all, err := s.AllLaps()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "HAM", all[0].Driver)
}

func TestUpsertLapReplacesExisting(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.UpsertLap(Lap{Driver: "NOR", Lap: 3, EstTimeSec: 90, Samples: 100, ArtifactMtime: time.Unix(1000, 0)}))
	require.NoError(t, s.UpsertLap(Lap{Driver: "NOR", Lap: 3, EstTimeSec: 88.5, Samples: 120, ArtifactMtime: time.Unix(2000, 0)}))

	laps, err := s.Laps("NOR")
	require.NoError(t, err)
	require.Len(t, laps, 1)
	assert.Equal(t, 88.5, laps[0].EstTimeSec)
	assert.Equal(t, 120, laps[0].Samples)
}

func TestDeleteLaps(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.UpsertLap(Lap{Driver: "PIA", Lap: 1, ArtifactMtime: time.Unix(0, 0)}))
	require.NoError(t, s.UpsertLap(Lap{Driver: "PIA", Lap: 2, ArtifactMtime: time.Unix(0, 0)}))

	deleted, err := s.DeleteLaps("PIA")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	laps, err := s.Laps("PIA")
	require.NoError(t, err)
	assert.Empty(t, laps)
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)

	first, err := s.RecordRun(Run{
		Session:   "Australia2025",
		Driver:    "VER",
		Files:     5,
		Outcome:   "ok",
		StartedAt: time.Unix(100, 0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := s.RecordRun(Run{
		Session:      "Australia2025",
		Driver:       "HAM",
		Files:        4,
		TotalMissing: 12,
		Outcome:      "ok",
		StartedAt:    time.Unix(200, 0),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "HAM", runs[0].Driver)
	assert.Equal(t, 12, runs[0].TotalMissing)
	assert.Equal(t, time.Unix(200, 0).UTC(), runs[0].StartedAt)
	assert.Equal(t, "VER", runs[1].Driver)
}

func TestSummariseLaps(t *testing.T) {
	frame := telemetry.NewFrame([]string{"Driver", "LapNumber", "SessionTime", "Speed", "Distance"})
	rows := [][]string{
		// Lap 1 runs 100 m at a constant 180 km/h, so 2 s estimated.
		{"VER", "1", "10", "180", "0"},
		{"VER", "1", "11", "180", "50"},
		{"VER", "1", "12", "180", "100"},
		{"VER", "2", "20", "200", "0"},
		{"HAM", "1", "10", "150", "0"},
		{"HAM", "1", "11", "150", "100"},
	}
	for _, r := range rows {
		require.NoError(t, frame.AppendRow(r))
	}

	laps := SummariseLaps(frame, "cleaned_csv/session.csv", delta.DefaultOptions())
	require.Len(t, laps, 3)

	assert.Equal(t, "HAM", laps[0].Driver)
	assert.Equal(t, 1, laps[0].Lap)
	assert.Equal(t, 150.0, laps[0].TopSpeedKmh)

	assert.Equal(t, "VER", laps[1].Driver)
	assert.Equal(t, 1, laps[1].Lap)
	assert.Equal(t, 3, laps[1].Samples)
	assert.InDelta(t, 2.0, laps[1].EstTimeSec, 1e-9)

	// A single-sample lap cannot be integrated and indexes with a zero
	// estimate.
	assert.Equal(t, 2, laps[2].Lap)
	assert.Equal(t, 0.0, laps[2].EstTimeSec)
	assert.Equal(t, 1, laps[2].Samples)
}

func TestIndexArtifact(t *testing.T) {
	s := openTestStore(t)
	fsys := fsutil.NewMemoryFileSystem()

	csv := "Driver,LapNumber,SessionTime,Speed,Distance\n" +
		"VER,1,10,180,0\n" +
		"VER,1,11,180,100\n" +
		"VER,2,20,200,0\n" +
		"VER,2,21,200,100\n"
	require.NoError(t, fsys.WriteFile("cleaned_csv/Australia2025_VER_cleaned_sorted.csv", []byte(csv), 0o644))

	laps, err := s.IndexArtifact(fsys, "cleaned_csv/Australia2025_VER_cleaned_sorted.csv", delta.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, laps, 2)

	stored, err := s.Laps("VER")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "cleaned_csv/Australia2025_VER_cleaned_sorted.csv", stored[0].Artifact)

	// Re-indexing a regenerated artifact with fewer laps drops the stale
	// rows.
	shorter := "Driver,LapNumber,SessionTime,Speed,Distance\n" +
		"VER,1,10,180,0\n" +
		"VER,1,11,180,100\n"
	require.NoError(t, fsys.WriteFile("cleaned_csv/Australia2025_VER_cleaned_sorted.csv", []byte(shorter), 0o644))

	_, err = s.IndexArtifact(fsys, "cleaned_csv/Australia2025_VER_cleaned_sorted.csv", delta.DefaultOptions())
	require.NoError(t, err)

	stored, err = s.Laps("VER")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].Lap)
}

func TestIndexArtifactMissingFile(t *testing.T) {
	s := openTestStore(t)
	fsys := fsutil.NewMemoryFileSystem()

	_, err := s.IndexArtifact(fsys, "cleaned_csv/nope.csv", delta.DefaultOptions())
	assert.Error(t, err)
}

func TestAttachAdminRoutes(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertLap(Lap{Driver: "VER", Lap: 1, ArtifactMtime: time.Unix(0, 0)}))

	mux := http.NewServeMux()
	require.NoError(t, s.AttachAdminRoutes(mux))

	for _, path := range []string{"/debug/lap-stats", "/debug/tailsql/", "/debug/backup"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		// Auth may reject the request, but the route must exist.
		assert.NotEqual(t, http.StatusNotFound, w.Code, "route %s should be registered", path)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertLap(Lap{Driver: "VER", Lap: 1, ArtifactMtime: time.Unix(0, 0)}))
	require.NoError(t, s.UpsertLap(Lap{Driver: "VER", Lap: 2, ArtifactMtime: time.Unix(0, 0)}))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Positive(t, stats.TotalSizeBytes)
	require.Len(t, stats.Tables, 2)
	assert.Equal(t, "laps", stats.Tables[0].Name)
	assert.Equal(t, int64(2), stats.Tables[0].RowCount)
}
