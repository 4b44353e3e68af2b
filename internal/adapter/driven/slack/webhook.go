package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// webhookRequest is the incoming-webhook JSON body: message text only.
type webhookRequest struct {
	Text string `json:"text"`
}

// PostWebhook posts text to a Slack incoming webhook URL. A non-2xx response
// is returned as *driven.WebhookStatusError carrying the status code; any
// other failure is a transport error.
func (c *Client) PostWebhook(ctx context.Context, webhookURL, text string) error {
	body, err := json.Marshal(webhookRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshal webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req) // #nosec G107 -- webhookURL is a user-configured Slack incoming webhook URL
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &driven.WebhookStatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
