package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	RepsDetected int

	// Labels awarded by the server across this run's uploads.
	ElbowLabels map[string]int
	TrunkLabels map[string]int
}

// Uploader walks a clip directory, submits each new extractor CSV to the
// RowSight server, and records the resulting analysis ids in the state DB.
type Uploader struct {
	client      *Client
	state       *StateDB
	dir         string
	defaultSide string
	dryRun      bool
	log         *slog.Logger
	stats       Stats
}

// New creates a new Uploader. defaultSide applies to files whose name does
// not carry a side suffix.
func New(client *Client, state *StateDB, dir, defaultSide string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client:      client,
		state:       state,
		dir:         dir,
		defaultSide: defaultSide,
		dryRun:      dryRun,
		log:         log,
		stats:       Stats{ElbowLabels: map[string]int{}, TrunkLabels: map[string]int{}},
	}
}

// sideForFile derives the filmed side from a filename suffix
// (clip_left.csv, clip_right.csv), falling back to the default.
func sideForFile(name, def string) string {
	base := strings.TrimSuffix(strings.ToLower(name), ".csv")
	switch {
	case strings.HasSuffix(base, "_left"):
		return "left"
	case strings.HasSuffix(base, "_right"):
		return "right"
	default:
		return def
	}
}

// Run executes the upload pipeline over every .csv under the directory.
func (u *Uploader) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(u.dir, "*.csv"))
	if err != nil {
		return &u.stats, fmt.Errorf("listing %s: %w", u.dir, err)
	}

	for _, f := range files {
		u.stats.FilesTotal++

		relPath, _ := filepath.Rel(u.dir, f)
		info, err := os.Stat(f)
		if err != nil {
			u.log.Warn("stat failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			u.log.Warn("hash failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		analyzed, err := u.state.IsAnalyzed(relPath, info.Size(), hash)
		if err != nil {
			u.log.Warn("state check failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if analyzed {
			u.stats.FilesSkipped++
			continue
		}

		side := sideForFile(filepath.Base(f), u.defaultSide)

		if u.dryRun {
			u.log.Info("dry-run: would submit", "file", relPath, "side", side)
			u.stats.FilesUploaded++
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			u.log.Warn("read failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		row, err := u.client.SendCSV(data, relPath, side)
		if err != nil {
			u.log.Warn("submit failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		if err := u.state.MarkAnalyzed(relPath, info.Size(), hash, row.ID.String()); err != nil {
			u.log.Warn("failed to mark analyzed", "file", relPath, "error", err)
		}
		u.stats.FilesUploaded++
		u.stats.RepsDetected += row.RepCount
		u.stats.ElbowLabels[row.ElbowLabel]++
		u.stats.TrunkLabels[row.TrunkLabel]++

		u.log.Info("analyzed",
			"file", relPath,
			"id", row.ID,
			"reps", row.RepCount,
			"elbow", row.ElbowLabel,
			"trunk", row.TrunkLabel,
		)
	}

	return &u.stats, nil
}
