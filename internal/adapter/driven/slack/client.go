// Package slack implements the SlackSender port over the Slack Web API and
// incoming webhooks.
package slack

import (
	"net/http"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// defaultAPIURL is the chat.postMessage endpoint used by the bot transport.
const defaultAPIURL = "https://slack.com/api/chat.postMessage"

// Compile-time interface satisfaction check.
var _ driven.SlackSender = (*Client)(nil)

// Client posts messages to Slack. No retries are performed; a single HTTP
// call is made per send and failures are reported to the caller, who owns
// the fallback decision.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// NewClient creates a Client with a 10 second request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     defaultAPIURL,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// chat.postMessage URL. This constructor is intended for testing, allowing
// injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, apiURL string) *Client {
	return &Client{
		httpClient: httpClient,
		apiURL:     apiURL,
	}
}
