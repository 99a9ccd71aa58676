// Package ioruns manages per-run artifacts: a timestamped directory
// with report and config snapshot, plus an SQLite ledger of past
// runs.
package ioruns

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunContext identifies one conversion run and its directory.
type RunContext struct {
	// Dir is the run directory, for example
	// runs/run_20260830_143022.
	Dir string

	// ID is the human-readable run identifier, also the directory
	// name.
	ID string

	// UUID is the ledger key for this run.
	UUID string

	// Start is the UTC start time.
	Start time.Time
}

// NewRunContext creates a timestamped run directory under runsDir.
func NewRunContext(runsDir string) (*RunContext, error) {
	start := time.Now().UTC()
	id := "run_" + start.Format("20060102_150405")
	dir := filepath.Join(runsDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, RunDirError(dir, err)
	}

	return &RunContext{
		Dir:   dir,
		ID:    id,
		UUID:  uuid.NewString(),
		Start: start,
	}, nil
}

// ReportPath returns the report.yaml path inside the run directory.
func (rc *RunContext) ReportPath() string {
	return filepath.Join(rc.Dir, "report.yaml")
}

// LogPath returns the etl.log path inside the run directory.
func (rc *RunContext) LogPath() string {
	return filepath.Join(rc.Dir, "etl.log")
}

// ConfigSnapshotPath returns the config_snapshot.yaml path inside
// the run directory.
func (rc *RunContext) ConfigSnapshotPath() string {
	return filepath.Join(rc.Dir, "config_snapshot.yaml")
}

// Cleanup removes the oldest run directories beyond keep. The
// run_YYYYMMDD_HHMMSS naming makes lexical order chronological.
// keep <= 0 keeps everything.
func Cleanup(runsDir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, CleanupError(runsDir, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "run_") {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) <= keep {
		return nil, nil
	}

	sort.Strings(dirs)
	doomed := dirs[:len(dirs)-keep]

	var removed []string
	for _, name := range doomed {
		path := filepath.Join(runsDir, name)
		if err := os.RemoveAll(path); err != nil {
			return removed, CleanupError(path, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
