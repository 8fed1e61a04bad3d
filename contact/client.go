package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SubmitError is a rejection reported by the relay.
type SubmitError struct {
	Status  int
	Message string
}

func (e *SubmitError) Error() string { return e.Message }

// Client posts submissions to a contact relay.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// DefaultClientTimeout bounds a whole submission round trip.
const DefaultClientTimeout = 15 * time.Second

// NewClient creates a client for the relay at endpoint.
func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint, HTTP: &http.Client{Timeout: DefaultClientTimeout}}
}

// Submit posts s once. A non-2xx response yields a *SubmitError carrying the
// relay's message, or MsgSubmitFailed when it sent none.
func (c *Client) Submit(ctx context.Context, s Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("posting submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var er errorResponse
	msg := MsgSubmitFailed
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
		msg = er.Error
	}
	return &SubmitError{Status: resp.StatusCode, Message: msg}
}
