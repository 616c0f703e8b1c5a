package analysis

import (
	"github.com/claude/rowsight/internal/models"
	"github.com/google/uuid"
)

// Rows flattens a pipeline result into storage rows. The analysis row gets
// a fresh ID; rep rows reference it.
func Rows(res Result, source, side string) (models.AnalysisRow, []models.AnalysisRepRow) {
	id := uuid.New()
	m := res.Metrics

	row := models.AnalysisRow{
		ID:         id,
		Source:     source,
		Side:       side,
		FrameCount: res.Series.Len(),
		RepCount:   len(res.Reps),

		ElbowScore:    res.Scores.Elbow.Score,
		ElbowLabel:    res.Scores.Elbow.Label,
		ElbowWarnings: res.Scores.Elbow.Warnings,

		TrunkScore:    res.Scores.Trunk.Score,
		TrunkLabel:    res.Scores.Trunk.Label,
		TrunkWarnings: res.Scores.Trunk.Warnings,

		ElbowMin:           m["elbow_min"],
		ElbowMax:           m["elbow_max"],
		ElbowAmplitude:     m["elbow_amplitude"],
		TrunkMin:           m["trunk_min"],
		TrunkMax:           m["trunk_max"],
		TrunkVariation:     m["trunk_variation"],
		TrunkMean:          m["trunk_mean"],
		TrunkStd:           m["trunk_std"],
		WristShoulderMin:   m["wrist_shoulder_min_dist"],
		WristShoulderMax:   m["wrist_shoulder_max_dist"],
		WristShoulderRange: m["wrist_shoulder_range"],
	}

	reps := make([]models.AnalysisRepRow, 0, len(res.RepMetrics))
	for _, rm := range res.RepMetrics {
		reps = append(reps, models.AnalysisRepRow{
			AnalysisID: id,
			RepIndex:   rm.RepIndex,
			StartFrame: rm.Frames.Start,
			EndFrame:   rm.Frames.End,

			ElbowMin:           rm.ElbowMin,
			ElbowMax:           rm.ElbowMax,
			ElbowAmplitude:     rm.ElbowAmplitude,
			TrunkMin:           rm.TrunkMin,
			TrunkMax:           rm.TrunkMax,
			TrunkVariation:     rm.TrunkVariation,
			WristShoulderMin:   rm.WristShoulderMin,
			WristShoulderMax:   rm.WristShoulderMax,
			WristShoulderRange: rm.WristShoulderRange,
		})
	}

	return row, reps
}
