package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored analyses.
type DataStats struct {
	TotalAnalyses int64       `json:"total_analyses"`
	TotalReps     int64       `json:"total_reps"`
	AvgElbowScore *float64    `json:"avg_elbow_score"`
	AvgTrunkScore *float64    `json:"avg_trunk_score"`
	EarliestData  *time.Time  `json:"earliest_data"`
	LatestData    *time.Time  `json:"latest_data"`
	ElbowByLabel  []LabelStat `json:"elbow_by_label"`
	TrunkByLabel  []LabelStat `json:"trunk_by_label"`
}

// LabelStat holds the count of analyses carrying one label.
type LabelStat struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// GetDataStats returns aggregate statistics over all stored analyses.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), AVG(elbow_score), AVG(trunk_score), MIN(created_at), MAX(created_at)
		 FROM analyses`,
	).Scan(&stats.TotalAnalyses, &stats.AvgElbowScore, &stats.AvgTrunkScore,
		&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("aggregating analyses: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM analysis_reps`,
	).Scan(&stats.TotalReps)
	if err != nil {
		return nil, fmt.Errorf("counting reps: %w", err)
	}

	for _, col := range []struct {
		name string
		dst  *[]LabelStat
	}{
		{"elbow_label", &stats.ElbowByLabel},
		{"trunk_label", &stats.TrunkByLabel},
	} {
		rows, err := db.Pool.Query(ctx,
			`SELECT `+col.name+`, COUNT(*) FROM analyses GROUP BY `+col.name+` ORDER BY COUNT(*) DESC`)
		if err != nil {
			return nil, fmt.Errorf("grouping by %s: %w", col.name, err)
		}
		for rows.Next() {
			var ls LabelStat
			if err := rows.Scan(&ls.Label, &ls.Count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s stat: %w", col.name, err)
			}
			*col.dst = append(*col.dst, ls)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return stats, nil
}
