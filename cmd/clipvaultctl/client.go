package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clipvault/clipvault/internal/history"
)

// apiClient talks to a running clipvaultd's chi HTTP API (internal/server).
// clipvaultctl never opens the SQLite store directly: every operation is a
// request against the daemon, the same surface the out-of-scope UI shell
// would use.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(port int) *apiClient {
	return &apiClient{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// listQuery mirrors internal/server's handleListHistory query params.
type listQuery struct {
	Search string
	Kinds  []string
	Limit  int
	Offset int
}

func (c *apiClient) listHistory(q listQuery) ([]history.Projection, error) {
	v := url.Values{}
	if q.Search != "" {
		v.Set("query", q.Search)
	}
	if len(q.Kinds) > 0 {
		v.Set("kinds", strings.Join(q.Kinds, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}

	resp, err := c.http.Get(c.baseURL + "/api/history?" + v.Encode())
	if err != nil {
		return nil, fmt.Errorf("clipvaultctl: listing history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clipvaultctl: daemon returned %s", resp.Status)
	}
	var out []history.Projection
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("clipvaultctl: decoding response: %w", err)
	}
	return out, nil
}

func (c *apiClient) pasteHistory(id string, autoPaste bool) error {
	endpoint := fmt.Sprintf("%s/api/history/%s/paste?auto_paste=%t", c.baseURL, id, autoPaste)
	resp, err := c.http.Post(endpoint, "application/json", nil)
	if err != nil {
		return fmt.Errorf("clipvaultctl: pasting history record: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("clipvaultctl: daemon returned %s", resp.Status)
	}
	return nil
}

func (c *apiClient) pasteClip(id string, autoPaste bool) error {
	endpoint := fmt.Sprintf("%s/api/clips/%s/paste?auto_paste=%t", c.baseURL, id, autoPaste)
	resp, err := c.http.Post(endpoint, "application/json", nil)
	if err != nil {
		return fmt.Errorf("clipvaultctl: pasting clip: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clipvaultctl: daemon returned %s", resp.Status)
	}
	return nil
}

func (c *apiClient) status() (string, error) {
	resp, err := c.http.Get(c.baseURL + "/status")
	if err != nil {
		return "", fmt.Errorf("clipvaultctl: checking status: %w", err)
	}
	defer resp.Body.Close()
	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("clipvaultctl: decoding status: %w", err)
	}
	return fmt.Sprintf("%s (daemon time %s)", body.Status, body.Time), nil
}
