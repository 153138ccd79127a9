package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldwork/internal/adapters/out/notify"
	"fieldwork/internal/core/ports"
)

func TestWebhookNotifier_Publish_DeliversEnvelope(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := notify.NewWebhookNotifier(server.URL, nil)
	notifier.Publish(context.Background(), ports.TopicDaySummary, map[string]any{"worker_id": "w1"})

	assert.Equal(t, "application/json", gotContentType)

	var envelope struct {
		Topic   string         `json:"topic"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &envelope))
	assert.Equal(t, ports.TopicDaySummary, envelope.Topic)
	assert.Equal(t, "w1", envelope.Payload["worker_id"])
}

func TestWebhookNotifier_Publish_SwallowsDeliveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // closed endpoint: connection refused

	notifier := notify.NewWebhookNotifier(server.URL, nil)

	// Must not panic or block the caller.
	notifier.Publish(context.Background(), ports.TopicRouteAssigned, "payload")
}

func TestWebhookNotifier_Publish_SwallowsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := notify.NewWebhookNotifier(server.URL, nil)
	notifier.Publish(context.Background(), ports.TopicOutstandingJobs, "payload")
}
