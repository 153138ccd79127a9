// Package notify implements the Notifier port as a webhook publisher.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const requestTimeout = 5 * time.Second

// envelope is the webhook body wrapping every published notification.
type envelope struct {
	Topic       string    `json:"topic"`
	PublishedAt time.Time `json:"published_at"`
	Payload     any       `json:"payload"`
}

// WebhookNotifier posts notifications to a single webhook endpoint.
// Delivery is fire-and-forget: failures are logged and swallowed so a
// notification can never fail the business operation that produced it.
type WebhookNotifier struct {
	client     *http.Client
	webhookURL string
	logger     *slog.Logger
}

// NewWebhookNotifier creates a notifier posting to webhookURL. A nil logger
// falls back to slog.Default.
func NewWebhookNotifier(webhookURL string, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookNotifier{
		client:     &http.Client{Timeout: requestTimeout},
		webhookURL: webhookURL,
		logger:     logger.With("component", "webhook_notifier"),
	}
}

// Publish posts the payload under the topic. Never returns an error;
// delivery problems are logged.
func (n *WebhookNotifier) Publish(ctx context.Context, topic string, payload any) {
	body, err := json.Marshal(envelope{
		Topic:       topic,
		PublishedAt: time.Now().UTC(),
		Payload:     payload,
	})
	if err != nil {
		n.logger.Error("failed to encode notification", "topic", topic, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to build notification request", "topic", topic, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("failed to deliver notification", "topic", topic, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Error("notification rejected", "topic", topic, "status", resp.StatusCode)
		return
	}

	n.logger.Debug("notification delivered", "topic", topic)
}
