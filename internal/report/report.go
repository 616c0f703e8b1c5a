// Package report serializes analysis results: CSV exports of the per-frame
// series and rep metrics, and a plain-text assessment report. It only
// formats what the pipeline produced; nothing here re-derives a metric.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/claude/rowsight/internal/analysis"
)

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// WriteSeriesCSV writes the three smoothed series, one row per frame,
// index-aligned with the input clip. Absent values are blank cells.
func WriteSeriesCSV(w io.Writer, res analysis.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "elbow_angle_deg", "trunk_angle_deg", "wrist_shoulder_dist"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := 0; i < res.Series.Len(); i++ {
		record := []string{
			strconv.Itoa(i),
			formatOpt(res.Series.ElbowAngleDeg[i]),
			formatOpt(res.Series.TrunkAngleDeg[i]),
			formatOpt(res.Series.WristShoulderDst[i]),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing frame %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRepsCSV writes one row per detected repetition.
func WriteRepsCSV(w io.Writer, res analysis.Result) error {
	cw := csv.NewWriter(w)
	header := []string{
		"rep_index", "start_frame", "end_frame",
		"elbow_min", "elbow_max", "elbow_amplitude",
		"trunk_min", "trunk_max", "trunk_variation",
		"wrist_shoulder_min_dist", "wrist_shoulder_max_dist", "wrist_shoulder_range",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rm := range res.RepMetrics {
		record := []string{
			strconv.Itoa(rm.RepIndex),
			strconv.Itoa(rm.Frames.Start),
			strconv.Itoa(rm.Frames.End),
			formatOpt(rm.ElbowMin), formatOpt(rm.ElbowMax), formatOpt(rm.ElbowAmplitude),
			formatOpt(rm.TrunkMin), formatOpt(rm.TrunkMax), formatOpt(rm.TrunkVariation),
			formatOpt(rm.WristShoulderMin), formatOpt(rm.WristShoulderMax), formatOpt(rm.WristShoulderRange),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing rep %d: %w", rm.RepIndex, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// metricOrder fixes the display order of global metrics in the text report.
var metricOrder = []string{
	"elbow_min", "elbow_max", "elbow_amplitude",
	"trunk_min", "trunk_max", "trunk_variation", "trunk_mean", "trunk_std",
	"wrist_shoulder_min_dist", "wrist_shoulder_max_dist", "wrist_shoulder_range",
}

// WriteText renders the human-readable assessment. "Could not measure"
// warnings and "measured and deficient" warnings are both informational;
// neither ends the report early.
func WriteText(w io.Writer, source string, res analysis.Result) error {
	p := func(format string, args ...any) {
		fmt.Fprintf(w, format, args...)
	}

	p("Analysis: %s\n", source)
	p("Frames: %d, repetitions detected: %d\n", res.Series.Len(), len(res.Reps))
	p("\nGlobal metrics:\n")
	for _, name := range metricOrder {
		v := res.Metrics[name]
		if v == nil {
			p("  %-24s (not measurable)\n", name)
		} else {
			p("  %-24s %.3f\n", name, *v)
		}
	}

	p("\nElbow: %.1f/100 (%s)\n", res.Scores.Elbow.Score, res.Scores.Elbow.Label)
	for _, warning := range res.Scores.Elbow.Warnings {
		p("  - %s\n", warning)
	}
	p("Trunk: %.1f/100 (%s)\n", res.Scores.Trunk.Score, res.Scores.Trunk.Label)
	for _, warning := range res.Scores.Trunk.Warnings {
		p("  - %s\n", warning)
	}

	if len(res.RepMetrics) > 0 {
		p("\nPer repetition:\n")
		for _, rm := range res.RepMetrics {
			p("  rep %d [%d..%d]", rm.RepIndex, rm.Frames.Start, rm.Frames.End)
			if rm.ElbowAmplitude != nil {
				p("  elbow amplitude %.1f", *rm.ElbowAmplitude)
			}
			if rm.TrunkVariation != nil {
				p("  trunk variation %.1f", *rm.TrunkVariation)
			}
			p("\n")
		}
	}

	return nil
}
