// Package analysis runs the full assessment pipeline: landmark frames in,
// smoothed series, repetition metrics, global metrics, and the two-note
// score out. The server, the offline CLI, and the MCP tools all call
// through here so the pipeline behaves identically everywhere.
package analysis

import (
	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/motion"
	"github.com/claude/rowsight/internal/scoring"
)

// Result is the immutable output of one pipeline run. Data flows strictly
// forward (frames → series → metrics → scores); nothing downstream mutates
// an earlier stage.
type Result struct {
	Series     motion.Series       `json:"series"`
	Reps       []motion.RepSegment `json:"reps"`
	RepMetrics []motion.RepMetrics `json:"rep_metrics"`
	Metrics    map[string]*float64 `json:"metrics"`
	Scores     scoring.TwoNotes    `json:"scores"`
}

// Run executes the pipeline over an already-materialized frame sequence.
// Pure and deterministic: identical frames and config yield identical
// results, and concurrent runs share no state.
func Run(frames []motion.LandmarkFrame, cfg config.AnalysisConfig) Result {
	series := motion.ComputeSeries(frames, cfg.SmoothWindow)
	reps := motion.DetectReps(series.WristShoulderDst, cfg.MinFramesPerRep, cfg.Prominence)
	metrics := motion.GlobalMetrics(series)

	return Result{
		Series:     series,
		Reps:       reps,
		RepMetrics: motion.ComputeRepMetrics(series, reps),
		Metrics:    metrics,
		Scores:     scoring.Score(metrics, cfg.Elbow, cfg.Trunk),
	}
}
