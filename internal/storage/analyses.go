package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/rowsight/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound reports a lookup for an analysis that does not exist.
var ErrNotFound = errors.New("storage: analysis not found")

// InsertAnalysis inserts one analysis row.
func (db *DB) InsertAnalysis(ctx context.Context, row models.AnalysisRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO analyses (id, source, side, frame_count, rep_count,
		 elbow_score, elbow_label, elbow_warnings,
		 trunk_score, trunk_label, trunk_warnings,
		 elbow_min, elbow_max, elbow_amplitude,
		 trunk_min, trunk_max, trunk_variation, trunk_mean, trunk_std,
		 wrist_shoulder_min_dist, wrist_shoulder_max_dist, wrist_shoulder_range)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		row.ID, row.Source, row.Side, row.FrameCount, row.RepCount,
		row.ElbowScore, row.ElbowLabel, row.ElbowWarnings,
		row.TrunkScore, row.TrunkLabel, row.TrunkWarnings,
		row.ElbowMin, row.ElbowMax, row.ElbowAmplitude,
		row.TrunkMin, row.TrunkMax, row.TrunkVariation, row.TrunkMean, row.TrunkStd,
		row.WristShoulderMin, row.WristShoulderMax, row.WristShoulderRange)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return nil
}

// InsertAnalysisReps batch-inserts rep metric rows. Returns count inserted.
func (db *DB) InsertAnalysisReps(ctx context.Context, rows []models.AnalysisRepRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO analysis_reps (analysis_id, rep_index, start_frame, end_frame,
		elbow_min, elbow_max, elbow_amplitude,
		trunk_min, trunk_max, trunk_variation,
		wrist_shoulder_min_dist, wrist_shoulder_max_dist, wrist_shoulder_range) VALUES `
	args := make([]any, 0, len(rows)*13)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 13
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13,
		))
		args = append(args, r.AnalysisID, r.RepIndex, r.StartFrame, r.EndFrame,
			r.ElbowMin, r.ElbowMax, r.ElbowAmplitude,
			r.TrunkMin, r.TrunkMax, r.TrunkVariation,
			r.WristShoulderMin, r.WristShoulderMax, r.WristShoulderRange)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting analysis reps: %w", err)
	}
	return tag.RowsAffected(), nil
}

const analysisColumns = `id, source, side, frame_count, rep_count,
	elbow_score, elbow_label, elbow_warnings,
	trunk_score, trunk_label, trunk_warnings,
	elbow_min, elbow_max, elbow_amplitude,
	trunk_min, trunk_max, trunk_variation, trunk_mean, trunk_std,
	wrist_shoulder_min_dist, wrist_shoulder_max_dist, wrist_shoulder_range,
	created_at`

func scanAnalysis(row pgx.Row) (*models.AnalysisRow, error) {
	var a models.AnalysisRow
	err := row.Scan(&a.ID, &a.Source, &a.Side, &a.FrameCount, &a.RepCount,
		&a.ElbowScore, &a.ElbowLabel, &a.ElbowWarnings,
		&a.TrunkScore, &a.TrunkLabel, &a.TrunkWarnings,
		&a.ElbowMin, &a.ElbowMax, &a.ElbowAmplitude,
		&a.TrunkMin, &a.TrunkMax, &a.TrunkVariation, &a.TrunkMean, &a.TrunkStd,
		&a.WristShoulderMin, &a.WristShoulderMax, &a.WristShoulderRange,
		&a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnalyses returns the most recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var out []models.AnalysisRow
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetAnalysis returns one analysis by ID, or ErrNotFound.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error) {
	a, err := scanAnalysis(db.Pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	return a, nil
}

// GetAnalysisReps returns the rep metrics of an analysis in rep order.
func (db *DB) GetAnalysisReps(ctx context.Context, id uuid.UUID) ([]models.AnalysisRepRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT analysis_id, rep_index, start_frame, end_frame,
		 elbow_min, elbow_max, elbow_amplitude,
		 trunk_min, trunk_max, trunk_variation,
		 wrist_shoulder_min_dist, wrist_shoulder_max_dist, wrist_shoulder_range
		 FROM analysis_reps WHERE analysis_id = $1 ORDER BY rep_index`, id)
	if err != nil {
		return nil, fmt.Errorf("querying analysis reps: %w", err)
	}
	defer rows.Close()

	var out []models.AnalysisRepRow
	for rows.Next() {
		var r models.AnalysisRepRow
		err := rows.Scan(&r.AnalysisID, &r.RepIndex, &r.StartFrame, &r.EndFrame,
			&r.ElbowMin, &r.ElbowMax, &r.ElbowAmplitude,
			&r.TrunkMin, &r.TrunkMax, &r.TrunkVariation,
			&r.WristShoulderMin, &r.WristShoulderMax, &r.WristShoulderRange)
		if err != nil {
			return nil, fmt.Errorf("scanning rep row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
