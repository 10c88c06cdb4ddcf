// Package notify posts release outcomes to a chat webhook. Delivery is
// fire-and-forget from the pipeline's perspective: a failed
// notification is reported but changes nothing about the release.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// envWebhookURL is the fallback when no URL is configured.
const envWebhookURL = "SHIPWAY_WEBHOOK_URL"

// Notifier delivers a {status, version} release notification.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, status, version string) error
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Text    string `json:"text"`
}

// Webhook posts release notifications to a single HTTP endpoint.
type Webhook struct {
	URL    string
	Client *http.Client
}

// NewWebhook creates a webhook notifier. An empty url falls back to
// the SHIPWAY_WEBHOOK_URL env var.
func NewWebhook(url string) *Webhook {
	if url == "" {
		url = os.Getenv(envWebhookURL)
	}
	return &Webhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Name() string { return "notify" }

// Notify posts the payload. A missing URL is an error — the branch
// should be gated off in config instead of silently dropping sends.
func (w *Webhook) Notify(ctx context.Context, status, version string) error {
	if w.URL == "" {
		return fmt.Errorf("webhook URL not configured (set %s)", envWebhookURL)
	}

	payload := Payload{
		Status:  status,
		Version: version,
		Text:    fmt.Sprintf("release %s: %s", version, status),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
