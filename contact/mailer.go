package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ams-law/goldsite/config"
)

// Message is one outgoing notification. Sender and recipient are fixed by
// the Mailer.
type Message struct {
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers a rendered notification.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// UpstreamError carries the mail API's rejection.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrUpstream, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// ResendMailer posts messages to the Resend HTTP API.
type ResendMailer struct {
	Endpoint string
	APIKey   string
	From     string
	To       string
	Client   *http.Client
}

// NewResendMailer builds a mailer from config, reading the API key from the
// configured environment variable.
func NewResendMailer(cfg config.ContactConfig) *ResendMailer {
	timeout := time.Duration(cfg.TimeoutSec * float64(time.Second))
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendMailer{
		Endpoint: cfg.Endpoint,
		APIKey:   os.Getenv(cfg.APIKeyEnv),
		From:     cfg.From,
		To:       cfg.To,
		Client:   &http.Client{Timeout: timeout},
	}
}

type resendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	ReplyTo string `json:"reply_to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts msg once. A non-2xx response yields an *UpstreamError.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if m.APIKey == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(resendPayload{
		From:    m.From,
		To:      m.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to mail api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{Status: resp.StatusCode, Body: string(text)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
