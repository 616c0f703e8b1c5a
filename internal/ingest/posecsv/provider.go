package posecsv

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/rowsight/internal/analysis"
	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/models"
)

// Store is the slice of the storage layer the provider writes through.
type Store interface {
	InsertAnalysis(ctx context.Context, row models.AnalysisRow) error
	InsertAnalysisReps(ctx context.Context, rows []models.AnalysisRepRow) (int64, error)
}

// Provider runs the parse→analyze→persist path for uploaded extractor CSVs.
type Provider struct {
	db  Store
	cfg config.AnalysisConfig
	log *slog.Logger
}

// NewProvider creates a new pose CSV ingest provider.
func NewProvider(db Store, cfg config.AnalysisConfig, log *slog.Logger) *Provider {
	return &Provider{db: db, cfg: cfg, log: log}
}

// Ingest parses an extractor CSV, runs the analysis pipeline, and stores
// the resulting assessment. The side string is validated against the
// extractor contract before any work happens.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, source, side string) (*models.AnalysisRow, error) {
	s, err := ParseSide(side)
	if err != nil {
		return nil, err
	}

	frames, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	res := analysis.Run(frames, p.cfg)
	row, repRows := analysis.Rows(res, source, string(s))

	if err := p.db.InsertAnalysis(ctx, row); err != nil {
		return nil, fmt.Errorf("storing analysis: %w", err)
	}
	inserted, err := p.db.InsertAnalysisReps(ctx, repRows)
	if err != nil {
		return nil, fmt.Errorf("storing rep metrics: %w", err)
	}

	p.log.Info("analysis stored",
		"id", row.ID,
		"source", source,
		"frames", row.FrameCount,
		"reps", inserted,
		"elbow", row.ElbowLabel,
		"trunk", row.TrunkLabel,
	)
	return &row, nil
}
