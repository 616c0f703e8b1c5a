package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/ingest/posecsv"
	"github.com/claude/rowsight/internal/models"
	"github.com/claude/rowsight/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the slice of the storage layer the handlers read and write.
type Store interface {
	InsertAnalysis(ctx context.Context, row models.AnalysisRow) error
	InsertAnalysisReps(ctx context.Context, rows []models.AnalysisRepRow) (int64, error)
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error)
	GetAnalysisReps(ctx context.Context, id uuid.UUID) ([]models.AnalysisRepRow, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Store
	ingest *posecsv.Provider
	cfg    config.AnalysisConfig
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, ingest *posecsv.Provider, cfg config.AnalysisConfig, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		ingest: ingest,
		cfg:    cfg,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Submission endpoints (API key required)
	s.router.Route("/api/v1/analyses", func(r chi.Router) {
		r.With(APIKeyAuth(s.apiKey)).Post("/", s.handleSubmitFrames)
		r.With(APIKeyAuth(s.apiKey)).Post("/csv", s.handleSubmitCSV)

		r.Get("/", s.handleListAnalyses)
		r.Get("/{id}", s.handleGetAnalysis)
		r.Get("/{id}/reps", s.handleGetAnalysisReps)
	})

	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/policy", s.handlePolicy)
}
