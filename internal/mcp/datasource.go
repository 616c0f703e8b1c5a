package mcp

import (
	"context"
	"io"

	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/ingest/posecsv"
	"github.com/claude/rowsight/internal/models"
	"github.com/claude/rowsight/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (direct DB
// access) and HTTPClient (remote via REST API) both satisfy this interface.
type DataSource interface {
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error)
	GetAnalysisReps(ctx context.Context, id uuid.UUID) ([]models.AnalysisRepRow, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
	AnalyzeCSV(ctx context.Context, r io.Reader, source, side string) (*models.AnalysisRow, error)
	Policy(ctx context.Context) (config.AnalysisConfig, error)
}

// LocalSource serves MCP tools straight from the database, running CSV
// analysis in-process through the ingest provider.
type LocalSource struct {
	DB     *storage.DB
	Ingest *posecsv.Provider
	Cfg    config.AnalysisConfig
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

func (l *LocalSource) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error) {
	return l.DB.ListAnalyses(ctx, limit)
}

func (l *LocalSource) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error) {
	return l.DB.GetAnalysis(ctx, id)
}

func (l *LocalSource) GetAnalysisReps(ctx context.Context, id uuid.UUID) ([]models.AnalysisRepRow, error) {
	return l.DB.GetAnalysisReps(ctx, id)
}

func (l *LocalSource) GetDataStats(ctx context.Context) (*storage.DataStats, error) {
	return l.DB.GetDataStats(ctx)
}

func (l *LocalSource) AnalyzeCSV(ctx context.Context, r io.Reader, source, side string) (*models.AnalysisRow, error) {
	return l.Ingest.Ingest(ctx, r, source, side)
}

func (l *LocalSource) Policy(context.Context) (config.AnalysisConfig, error) {
	return l.Cfg, nil
}
