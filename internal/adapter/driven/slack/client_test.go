package slack_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewping/internal/adapter/driven/slack"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

func TestPostMessage(t *testing.T) {
	t.Run("sends bearer token and message body", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		client := slack.NewClientWithHTTPClient(srv.Client(), srv.URL)
		err := client.PostMessage(context.Background(), "xoxb-token", "C123", "hello")

		require.NoError(t, err)
		assert.Equal(t, "Bearer xoxb-token", gotAuth)
		assert.Equal(t, "C123", gotBody["channel"])
		assert.Equal(t, "hello", gotBody["text"])
		assert.Equal(t, true, gotBody["unfurl_links"])
	})

	t.Run("ok false becomes a SlackAPIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			// The Slack API reports application errors with HTTP 200.
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
		}))
		defer srv.Close()

		client := slack.NewClientWithHTTPClient(srv.Client(), srv.URL)
		err := client.PostMessage(context.Background(), "xoxb-token", "C123", "hello")

		var apiErr *driven.SlackAPIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "channel_not_found", apiErr.Code)
	})

	t.Run("unreachable server is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client := slack.NewClientWithHTTPClient(http.DefaultClient, srv.URL)
		err := client.PostMessage(context.Background(), "xoxb-token", "C123", "hello")

		require.Error(t, err)
		var apiErr *driven.SlackAPIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestPostWebhook(t *testing.T) {
	t.Run("posts the text payload", func(t *testing.T) {
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		client := slack.NewClientWithHTTPClient(srv.Client(), srv.URL)
		err := client.PostWebhook(context.Background(), srv.URL, "merged!")

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"text": "merged!"}, gotBody)
	})

	t.Run("non-2xx status becomes a WebhookStatusError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "no_service", http.StatusNotFound)
		}))
		defer srv.Close()

		client := slack.NewClientWithHTTPClient(srv.Client(), srv.URL)
		err := client.PostWebhook(context.Background(), srv.URL, "merged!")

		var statusErr *driven.WebhookStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})
}
