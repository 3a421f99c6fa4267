package aiassist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the external suggestion service that proposes a root
// cause and a corrective solution for a described defect.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a suggestion client against the given endpoint
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Suggestion proposed analysis for one defect
type Suggestion struct {
	RootCause string `json:"root_cause"`
	Solution  string `json:"solution"`
}

// Suggest submits the issue description and the failing item's label.
// Any failure is returned to the caller; nothing is retried here.
func (c *Client) Suggest(ctx context.Context, issueDescription, itemLabel string) (*Suggestion, error) {
	reqBody := map[string]string{
		"issue_description": issueDescription,
		"item_label":        itemLabel,
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/v1/suggest", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build suggest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call suggest service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest service returned %d", resp.StatusCode)
	}

	var result struct {
		Code    int        `json:"code"`
		Message string     `json:"message"`
		Data    Suggestion `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode suggest response: %w", err)
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("suggest service error[%d]: %s", result.Code, result.Message)
	}
	return &result.Data, nil
}
