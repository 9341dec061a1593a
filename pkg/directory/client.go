// Package directory is the HTTP client for the project and employee
// directories, the systems of record the entity matcher resolves names
// against. Both directories live behind one base URL.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Entry is one directory row returned by a search.
type Entry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"`
	Archived     bool      `json:"archived"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Client talks to the directory service.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// SearchProjects returns projects whose name or code resembles the keyword.
func (c *Client) SearchProjects(ctx context.Context, keyword string) ([]Entry, error) {
	return c.search(ctx, "/api/projects/search", keyword)
}

// SearchEmployees returns employees whose name resembles the keyword.
func (c *Client) SearchEmployees(ctx context.Context, keyword string) ([]Entry, error) {
	return c.search(ctx, "/api/employees/search", keyword)
}

func (c *Client) search(ctx context.Context, path, keyword string) ([]Entry, error) {
	u := c.baseURL + path + "?keyword=" + url.QueryEscape(keyword)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results []Entry `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Results, nil
}
