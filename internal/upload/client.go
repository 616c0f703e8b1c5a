// Package upload walks a directory of pose-extractor CSVs and submits each
// new one to a RowSight server, tracking what has already been sent in a
// local SQLite state database so re-runs are cheap and idempotent.
package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/claude/rowsight/internal/models"
)

// Client sends extractor CSVs to the RowSight server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the RowSight server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendCSV POSTs one extractor CSV to the server's analysis endpoint.
// Retries up to 3 times with exponential backoff on failure and returns the
// stored analysis on success.
func (c *Client) SendCSV(csvData []byte, source, side string) (*models.AnalysisRow, error) {
	params := url.Values{}
	params.Set("source", source)
	params.Set("side", side)
	endpoint := c.serverURL + "/api/v1/analyses/csv?" + params.Encode()

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(csvData))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "text/csv")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var row models.AnalysisRow
			if err := json.Unmarshal(body, &row); err != nil {
				return nil, fmt.Errorf("decoding analysis response: %w", err)
			}
			return &row, nil
		}

		lastErr = fmt.Errorf("analysis request failed (status %d): %s", resp.StatusCode, body)
		// A 4xx means the CSV itself is bad; retrying will not help.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			break
		}
	}

	return nil, fmt.Errorf("after retries: %w", lastErr)
}
