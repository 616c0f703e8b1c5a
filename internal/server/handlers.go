package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/rowsight/internal/analysis"
	"github.com/claude/rowsight/internal/ingest/posecsv"
	"github.com/claude/rowsight/internal/motion"
	"github.com/claude/rowsight/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// analyzeRequest is the JSON submission body: the frame sequence as emitted
// by the pose extractor, plus provenance.
type analyzeRequest struct {
	Source string                 `json:"source"`
	Side   string                 `json:"side"`
	Frames []motion.LandmarkFrame `json:"frames"`
}

// analyzeResponse pairs the stored analysis with its full pipeline result,
// so clients get the series and per-rep metrics without a second request.
type analyzeResponse struct {
	Analysis analysis.Result `json:"analysis"`
	Stored   any             `json:"stored"`
}

func (s *Server) handleSubmitFrames(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	side, err := posecsv.ParseSide(req.Side)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	res := analysis.Run(req.Frames, s.cfg)
	row, repRows := analysis.Rows(res, req.Source, string(side))

	if err := s.db.InsertAnalysis(r.Context(), row); err != nil {
		s.log.Error("storing analysis", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if _, err := s.db.InsertAnalysisReps(r.Context(), repRows); err != nil {
		s.log.Error("storing rep metrics", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: res, Stored: row})
}

func (s *Server) handleSubmitCSV(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "upload.csv"
	}
	side := r.URL.Query().Get("side")
	if side == "" {
		side = "right"
	}

	row, err := s.ingest.Ingest(r.Context(), r.Body, source, side)
	if err != nil {
		if errors.Is(err, posecsv.ErrUnknownSide) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("csv ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	rows, err := s.db.ListAnalyses(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	row, err := s.db.GetAnalysis(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleGetAnalysisReps(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	reps, err := s.db.GetAnalysisReps(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handlePolicy exposes the active analysis policy so clients can display
// the bands and weights behind a score.
func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
