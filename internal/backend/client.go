// Package backend retrieves raw event and planning records from the CalenDO
// backend API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dayview/internal/log"
)

// EventRecord is the wire shape of one event as served by the backend.
// Timestamps stay as strings here; normalization into the display timezone
// is the caller's job, so a malformed timestamp can be dropped per event.
type EventRecord struct {
	UID         string `json:"uid"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	PlanningID  string `json:"planning_id"`
}

// PlanningRecord is the wire shape of one planning.
type PlanningRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Client talks to the backend API. It performs no retries; availability
// concerns stay at this boundary and surface to the request handler.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Events fetches all event records.
func (c *Client) Events(ctx context.Context) ([]EventRecord, error) {
	var events []EventRecord
	if err := c.getJSON(ctx, "/api/events", &events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	log.Info("backend events fetched", "count", len(events))
	return events, nil
}

// Plannings fetches all planning records.
func (c *Client) Plannings(ctx context.Context) ([]PlanningRecord, error) {
	var plannings []PlanningRecord
	if err := c.getJSON(ctx, "/api/plannings", &plannings); err != nil {
		return nil, fmt.Errorf("fetch plannings: %w", err)
	}
	log.Info("backend plannings fetched", "count", len(plannings))
	return plannings, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s: %s %s", path, resp.Status, strings.TrimSpace(string(snippet)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
