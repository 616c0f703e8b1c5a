// Package models holds the value objects shared by storage, the HTTP API,
// and the MCP tools. Rows are plain immutable records; the reporting and
// persistence layers never re-derive or mutate their fields.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRow is one stored pipeline run over a single clip.
type AnalysisRow struct {
	ID         uuid.UUID `json:"id"`
	Source     string    `json:"source"`
	Side       string    `json:"side"`
	FrameCount int       `json:"frame_count"`
	RepCount   int       `json:"rep_count"`

	ElbowScore    float64  `json:"elbow_score"`
	ElbowLabel    string   `json:"elbow_label"`
	ElbowWarnings []string `json:"elbow_warnings"`

	TrunkScore    float64  `json:"trunk_score"`
	TrunkLabel    string   `json:"trunk_label"`
	TrunkWarnings []string `json:"trunk_warnings"`

	// Global metrics of the whole clip; nil means not measurable.
	ElbowMin           *float64 `json:"elbow_min"`
	ElbowMax           *float64 `json:"elbow_max"`
	ElbowAmplitude     *float64 `json:"elbow_amplitude"`
	TrunkMin           *float64 `json:"trunk_min"`
	TrunkMax           *float64 `json:"trunk_max"`
	TrunkVariation     *float64 `json:"trunk_variation"`
	TrunkMean          *float64 `json:"trunk_mean"`
	TrunkStd           *float64 `json:"trunk_std"`
	WristShoulderMin   *float64 `json:"wrist_shoulder_min_dist"`
	WristShoulderMax   *float64 `json:"wrist_shoulder_max_dist"`
	WristShoulderRange *float64 `json:"wrist_shoulder_range"`

	CreatedAt time.Time `json:"created_at"`
}

// AnalysisRepRow is one detected repetition of a stored analysis.
type AnalysisRepRow struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	RepIndex   int       `json:"rep_index"`
	StartFrame int       `json:"start_frame"`
	EndFrame   int       `json:"end_frame"`

	ElbowMin           *float64 `json:"elbow_min"`
	ElbowMax           *float64 `json:"elbow_max"`
	ElbowAmplitude     *float64 `json:"elbow_amplitude"`
	TrunkMin           *float64 `json:"trunk_min"`
	TrunkMax           *float64 `json:"trunk_max"`
	TrunkVariation     *float64 `json:"trunk_variation"`
	WristShoulderMin   *float64 `json:"wrist_shoulder_min_dist"`
	WristShoulderMax   *float64 `json:"wrist_shoulder_max_dist"`
	WristShoulderRange *float64 `json:"wrist_shoulder_range"`
}
