package lapstore

import (
	"fmt"
	"time"
)

// Lap is one indexed lap of a normalized artifact.
type Lap struct {
	Driver        string    `json:"driver"`
	Lap           int       `json:"lap"`
	EstTimeSec    float64   `json:"est_time_sec"`
	TopSpeedKmh   float64   `json:"top_speed_kmh"`
	Samples       int       `json:"samples"`
	Artifact      string    `json:"artifact"`
	ArtifactMtime time.Time `json:"artifact_mtime"`
}

func (l *Lap) String() string {
	return fmt.Sprintf("Driver: %s, Lap: %d, EstTime: %.3fs, TopSpeed: %.1f km/h, Samples: %d",
		l.Driver, l.Lap, l.EstTimeSec, l.TopSpeedKmh, l.Samples)
}

// UpsertLap inserts or replaces the summary row for one driver lap.
func (s *Store) UpsertLap(l Lap) error {
	_, err := s.Exec(
		`INSERT INTO laps (driver, lap, est_time_sec, top_speed_kmh, samples, artifact, artifact_mtime)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (driver, lap) DO UPDATE SET
			est_time_sec = excluded.est_time_sec,
			top_speed_kmh = excluded.top_speed_kmh,
			samples = excluded.samples,
			artifact = excluded.artifact,
			artifact_mtime = excluded.artifact_mtime,
			updated_at = CURRENT_TIMESTAMP`,
		l.Driver, l.Lap, l.EstTimeSec, l.TopSpeedKmh, l.Samples, l.Artifact, l.ArtifactMtime.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert lap %s/%d: %w", l.Driver, l.Lap, err)
	}
	return nil
}

// Laps returns the indexed laps for one driver, ordered by lap number.
func (s *Store) Laps(driver string) ([]Lap, error) {
	rows, err := s.Query(
		`SELECT driver, lap, est_time_sec, top_speed_kmh, samples, artifact, artifact_mtime
		 FROM laps WHERE driver = ? ORDER BY lap`, driver)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLaps(rows)
}

// AllLaps returns every indexed lap ordered by driver then lap number.
func (s *Store) AllLaps() ([]Lap, error) {
	rows, err := s.Query(
		`SELECT driver, lap, est_time_sec, top_speed_kmh, samples, artifact, artifact_mtime
		 FROM laps ORDER BY driver, lap`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLaps(rows)
}

// Drivers returns the distinct driver codes present in the index, sorted.
func (s *Store) Drivers() ([]string, error) {
	rows, err := s.Query(`SELECT DISTINCT driver FROM laps ORDER BY driver`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drivers, nil
}

// DeleteLaps removes all indexed laps for a driver, returning how many rows
// were deleted. Used before re-indexing a regenerated artifact.
func (s *Store) DeleteLaps(driver string) (int64, error) {
	res, err := s.Exec(`DELETE FROM laps WHERE driver = ?`, driver)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanLaps(rows rowScanner) ([]Lap, error) {
	var laps []Lap
	for rows.Next() {
		var (
			l     Lap
			mtime int64
		)
		if err := rows.Scan(&l.Driver, &l.Lap, &l.EstTimeSec, &l.TopSpeedKmh, &l.Samples, &l.Artifact, &mtime); err != nil {
			return nil, err
		}
		l.ArtifactMtime = time.Unix(mtime, 0).UTC()
		laps = append(laps, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return laps, nil
}
