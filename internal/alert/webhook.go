package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nfl_v1/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
)

// WebhookSink POSTs alerts as JSON to a configured endpoint, signed with a
// shared secret header. Delivery formatting for specific channels is the
// receiver's job.
type WebhookSink struct {
	url        string
	secret     string
	httpClient *http.Client
}

// NewWebhookSink creates a webhook sink. Returns nil when url is empty so
// callers can fall back to the log sink.
func NewWebhookSink(url, secret string, timeout time.Duration) *WebhookSink {
	if url == "" {
		return nil
	}
	return &WebhookSink{
		url:        url,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	SentAt   string `json:"sent_at"`
}

// Send delivers the alert to the webhook endpoint.
func (s *WebhookSink) Send(ctx context.Context, title, message string, severity Severity) error {
	payload, err := json.Marshal(webhookPayload{
		Title:    title,
		Message:  message,
		Severity: string(severity),
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		req.Header.Set("X-Webhook-Secret", s.secret)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	log.Debug().
		Str("severity", string(severity)).
		Str("title", title).
		Msg("Alert delivered to webhook")

	metrics.RecordAlert(string(severity))
	return nil
}
