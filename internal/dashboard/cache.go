package dashboard

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/monitoring"
	"github.com/banshee-data/laptrace.report/internal/telemetry"
)

// datasetCache keeps parsed artifacts in memory keyed by path. A cached
// frame is reused until the artifact's mtime changes, so a re-run of the
// normalizer shows up on the next request without a restart.
type datasetCache struct {
	mu sync.Mutex
	fs fsutil.FileSystem

	entries map[string]*cacheEntry
}

type cacheEntry struct {
	frame *telemetry.Frame
	mtime time.Time
}

func newDatasetCache(fs fsutil.FileSystem) *datasetCache {
	return &datasetCache{
		fs:      fs,
		entries: make(map[string]*cacheEntry),
	}
}

// Load returns the parsed frame for path, reading it from disk on first use
// or when the file has been rewritten since it was cached.
func (c *datasetCache) Load(path string) (*telemetry.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact %s: %w", path, err)
	}

	if entry, ok := c.entries[path]; ok && entry.mtime.Equal(info.ModTime()) {
		return entry.frame, nil
	}

	raw, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	frame, err := telemetry.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}

	c.entries[path] = &cacheEntry{frame: frame, mtime: info.ModTime()}
	monitoring.Logf("cached artifact %s (%d rows)", path, frame.Len())
	return frame, nil
}

// Invalidate drops the cached frame for path, if any.
func (c *datasetCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len reports how many artifacts are cached.
func (c *datasetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
