package lapstore

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/banshee-data/laptrace.report/internal/delta"
	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/monitoring"
	"github.com/banshee-data/laptrace.report/internal/telemetry"
)

// IndexArtifact reads one cleaned session artifact, summarises each lap it
// contains and replaces the driver's rows in the index. Lap times are the
// distance-integral estimate, so a lap with too few samples to integrate is
// indexed with a zero estimate rather than skipped.
func (s *Store) IndexArtifact(fsys fsutil.FileSystem, path string, opts delta.Options) ([]Lap, error) {
	raw, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	frame, err := telemetry.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact %s: %w", path, err)
	}

	laps := SummariseLaps(frame, path, opts)
	for i := range laps {
		laps[i].ArtifactMtime = info.ModTime()
	}

	// Replace rather than merge so laps dropped from a regenerated
	// artifact do not linger in the index.
	seen := map[string]bool{}
	for _, l := range laps {
		if !seen[l.Driver] {
			if _, err := s.DeleteLaps(l.Driver); err != nil {
				return nil, err
			}
			seen[l.Driver] = true
		}
		if err := s.UpsertLap(l); err != nil {
			return nil, err
		}
	}
	monitoring.Logf("indexed %d laps from %s", len(laps), path)
	return laps, nil
}

// SummariseLaps groups a canonical trace by driver and lap number and
// produces one summary row per lap.
func SummariseLaps(frame *telemetry.Frame, artifact string, opts delta.Options) []Lap {
	type key struct {
		driver string
		lap    int
	}
	groups := map[key][]telemetry.Record{}
	for _, rec := range telemetry.Records(frame) {
		k := key{driver: rec.Driver, lap: rec.LapNumber}
		groups[k] = append(groups[k], rec)
	}

	laps := make([]Lap, 0, len(groups))
	for k, recs := range groups {
		samples := make([]delta.Sample, 0, len(recs))
		top := 0.0
		for _, rec := range recs {
			samples = append(samples, delta.Sample{Distance: rec.Distance, Speed: rec.Speed})
			if rec.Speed > top {
				top = rec.Speed
			}
		}
		est, err := delta.LapTime(samples, opts)
		if err != nil {
			est = 0
		}
		laps = append(laps, Lap{
			Driver:      k.driver,
			Lap:         k.lap,
			EstTimeSec:  est,
			TopSpeedKmh: top,
			Samples:     len(recs),
			Artifact:    artifact,
		})
	}
	sort.Slice(laps, func(i, j int) bool {
		if laps[i].Driver != laps[j].Driver {
			return laps[i].Driver < laps[j].Driver
		}
		return laps[i].Lap < laps[j].Lap
	})
	return laps
}
