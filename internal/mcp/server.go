package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RowSight", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RowSight rowing technique server. Analyze pose-landmark CSVs from exercise videos and query stored assessments: elbow and trunk scores, labels, warnings, and per-repetition metrics."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListAnalyses, Handler: h.listAnalyses},
		server.ServerTool{Tool: toolGetAnalysis, Handler: h.getAnalysis},
		server.ServerTool{Tool: toolGetRepMetrics, Handler: h.getRepMetrics},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolAnalyzeCSV, Handler: h.analyzeCSV},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentAnalyses, Handler: h.recentAnalyses},
		server.ServerResource{Resource: resScoringPolicy, Handler: h.scoringPolicy},
		server.ServerResource{Resource: resDataStats, Handler: h.dataStats},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentAnalyses = mcp.NewResource(
	"rowsight://recent_analyses",
	"Recent Analyses",
	mcp.WithResourceDescription("The 20 most recent rowing analyses with scores, labels, and warnings"),
	mcp.WithMIMEType("application/json"),
)

var resScoringPolicy = mcp.NewResource(
	"rowsight://scoring_policy",
	"Scoring Policy",
	mcp.WithResourceDescription("The active analysis policy: smoothing and rep-detection parameters plus every scoring band, fall-off, and weight"),
	mcp.WithMIMEType("application/json"),
)

var resDataStats = mcp.NewResource(
	"rowsight://stats",
	"Data Statistics",
	mcp.WithResourceDescription("Totals, average scores, and label distributions across all stored analyses"),
	mcp.WithMIMEType("application/json"),
)
