package animation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPCreator hands animations to a remote animation server.
type HTTPCreator struct {
	BaseURL string
	Client  *http.Client
}

type createResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

func (c *HTTPCreator) Create(ctx context.Context, spec Spec) (Animation, error) {
	if strings.TrimSpace(spec.Code) == "" {
		return Animation{}, ErrCodeRequired
	}
	spec = spec.withDefaults()
	body, err := json.Marshal(spec)
	if err != nil {
		return Animation{}, err
	}
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/api/p5/create"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Animation{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Animation{}, fmt.Errorf("create animation: %w", err)
	}
	defer resp.Body.Close()

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Animation{}, fmt.Errorf("create animation: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return Animation{}, fmt.Errorf("create animation: status %d: %s", resp.StatusCode, out.Error)
	}
	return Animation{
		ID:        out.ID,
		Code:      spec.Code,
		Title:     spec.Title,
		Width:     spec.Width,
		Height:    spec.Height,
		CreatedAt: time.Now(),
		URL:       out.URL,
	}, nil
}
