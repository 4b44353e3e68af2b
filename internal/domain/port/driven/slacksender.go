package driven

import (
	"context"
	"fmt"
)

// SlackSender delivers message text to Slack over one of the two supported
// transports. Implementations distinguish three failure shapes: a structured
// API error (*SlackAPIError), a non-2xx webhook response
// (*WebhookStatusError), and any other error, which callers treat as a
// network-level failure.
type SlackSender interface {
	// PostMessage posts text to a channel via the chat.postMessage Web API
	// using the given bot token, with link unfurling requested.
	PostMessage(ctx context.Context, token, channel, text string) error
	// PostWebhook posts text to a Slack incoming webhook URL.
	PostWebhook(ctx context.Context, webhookURL, text string) error
}

// SlackAPIError is an application-level error returned by the Slack Web API
// (an ok:false response). Code is the machine-readable error string, e.g.
// "channel_not_found".
type SlackAPIError struct {
	Code string
}

func (e *SlackAPIError) Error() string {
	return fmt.Sprintf("slack api error: %s", e.Code)
}

// WebhookStatusError is a non-success HTTP response from an incoming webhook.
type WebhookStatusError struct {
	StatusCode int
}

func (e *WebhookStatusError) Error() string {
	return fmt.Sprintf("webhook returned %d", e.StatusCode)
}
