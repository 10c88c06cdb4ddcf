package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifyPostsPayload(t *testing.T) {
	var got Payload
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	require.NoError(t, wh.Notify(context.Background(), "all-success", "1.2.3"))

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "all-success", got.Status)
	assert.Equal(t, "1.2.3", got.Version)
	assert.Contains(t, got.Text, "1.2.3")
}

func TestWebhookNotifyRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	err := wh.Notify(context.Background(), "all-success", "1.2.3")
	assert.ErrorContains(t, err, "502")
}

func TestWebhookNotifyWithoutURL(t *testing.T) {
	t.Setenv(envWebhookURL, "")

	wh := NewWebhook("")
	err := wh.Notify(context.Background(), "all-success", "1.2.3")
	assert.Error(t, err)
}

func TestNewWebhookFallsBackToEnv(t *testing.T) {
	t.Setenv(envWebhookURL, "https://hooks.example.com/x")

	wh := NewWebhook("")
	assert.Equal(t, "https://hooks.example.com/x", wh.URL)
}
