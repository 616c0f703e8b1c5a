package mcp

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListAnalyses = mcp.NewTool("list_analyses",
	mcp.WithDescription("List stored rowing analyses, newest first. Each entry carries elbow/trunk scores, labels, warnings, and global motion metrics."),
	mcp.WithString("limit", mcp.Description("Maximum number of analyses to return. Defaults to 20.")),
)

var toolGetAnalysis = mcp.NewTool("get_analysis",
	mcp.WithDescription("Retrieve one stored analysis by id: provenance, frame and rep counts, scores, labels, warnings, and global metrics."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Analysis UUID")),
)

var toolGetRepMetrics = mcp.NewTool("get_rep_metrics",
	mcp.WithDescription("Retrieve the per-repetition metrics of a stored analysis: frame spans and elbow/trunk/wrist measurements for each detected rep."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Analysis UUID")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Aggregate statistics over all stored analyses: totals, average scores, and how often each label (ok/medium/poor) was awarded."),
)

var toolAnalyzeCSV = mcp.NewTool("analyze_csv",
	mcp.WithDescription("Run the full analysis pipeline on a pose-extractor CSV and store the result. The CSV must carry the extractor header (frame,pose_detected,shoulder_x,...) with blank cells for undetected landmarks."),
	mcp.WithString("csv", mcp.Required(), mcp.Description("Extractor CSV content, header included")),
	mcp.WithString("source", mcp.Description("Provenance label for the clip. Defaults to 'mcp'.")),
	mcp.WithString("side", mcp.Description("Body side filmed, 'right' or 'left'. Defaults to 'right'."), mcp.Enum("right", "left")),
)

// --- Tool handlers ---

func (h *handlers) listAnalyses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 20
	if v := req.GetString("limit", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return mcp.NewToolResultError("limit must be a positive integer"), nil
		}
		limit = n
	}

	rows, err := h.ds.ListAnalyses(ctx, limit)
	if err != nil {
		h.log.Error("mcp list_analyses", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid analysis id: " + err.Error()), nil
	}

	row, err := h.ds.GetAnalysis(ctx, id)
	if err != nil {
		h.log.Error("mcp get_analysis", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(row)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRepMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid analysis id: " + err.Error()), nil
	}

	reps, err := h.ds.GetAnalysisReps(ctx, id)
	if err != nil {
		h.log.Error("mcp get_rep_metrics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(reps)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetDataStats(ctx)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) analyzeCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	csvContent, err := req.RequireString("csv")
	if err != nil {
		return mcp.NewToolResultError("csv parameter is required"), nil
	}
	source := req.GetString("source", "mcp")
	side := req.GetString("side", "right")

	row, err := h.ds.AnalyzeCSV(ctx, strings.NewReader(csvContent), source, side)
	if err != nil {
		h.log.Error("mcp analyze_csv", "error", err)
		return mcp.NewToolResultError("analysis failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(row)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
