package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/models"
	"github.com/claude/rowsight/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the RowSight REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is only needed for analyze_csv; read-only tools work without it.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/analyses", params)
	if err != nil {
		return nil, err
	}

	var rows []models.AnalysisRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode analyses: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error) {
	body, err := c.get(ctx, "/api/v1/analyses/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var row models.AnalysisRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: decode analysis: %w", err)
	}
	return &row, nil
}

func (c *HTTPClient) GetAnalysisReps(ctx context.Context, id uuid.UUID) ([]models.AnalysisRepRow, error) {
	body, err := c.get(ctx, "/api/v1/analyses/"+id.String()+"/reps", nil)
	if err != nil {
		return nil, err
	}

	var reps []models.AnalysisRepRow
	if err := json.Unmarshal(body, &reps); err != nil {
		return nil, fmt.Errorf("httpclient: decode rep metrics: %w", err)
	}
	return reps, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) Policy(ctx context.Context) (config.AnalysisConfig, error) {
	body, err := c.get(ctx, "/api/v1/policy", nil)
	if err != nil {
		return config.AnalysisConfig{}, err
	}

	var cfg config.AnalysisConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		return config.AnalysisConfig{}, fmt.Errorf("httpclient: decode policy: %w", err)
	}
	return cfg, nil
}

func (c *HTTPClient) AnalyzeCSV(ctx context.Context, r io.Reader, source, side string) (*models.AnalysisRow, error) {
	params := url.Values{}
	params.Set("source", source)
	params.Set("side", side)
	u := c.baseURL + "/api/v1/analyses/csv?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, r)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: submit csv: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: submit csv returned %d: %s", resp.StatusCode, body)
	}

	var row models.AnalysisRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: decode analysis: %w", err)
	}
	return &row, nil
}
