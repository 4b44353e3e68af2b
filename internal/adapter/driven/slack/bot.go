package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// postMessageRequest is the chat.postMessage JSON body. Link unfurling is
// always requested so PR links render with previews.
type postMessageRequest struct {
	Channel     string `json:"channel"`
	Text        string `json:"text"`
	UnfurlLinks bool   `json:"unfurl_links"`
	UnfurlMedia bool   `json:"unfurl_media"`
}

// postMessageResponse is the subset of the chat.postMessage response the
// client interprets. The API signals application errors through ok:false
// rather than HTTP status codes.
type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage posts text to a channel through the Slack Web API using the
// given bot token. An ok:false response is returned as *driven.SlackAPIError
// carrying the API error code; any other failure is a transport error.
func (c *Client) PostMessage(ctx context.Context, token, channel, text string) error {
	body, err := json.Marshal(postMessageRequest{
		Channel:     channel,
		Text:        text,
		UnfurlLinks: true,
		UnfurlMedia: true,
	})
	if err != nil {
		return fmt.Errorf("marshal chat.postMessage body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create chat.postMessage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post chat.postMessage: %w", err)
	}
	defer resp.Body.Close()

	var decoded postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode chat.postMessage response: %w", err)
	}

	if !decoded.OK {
		return &driven.SlackAPIError{Code: decoded.Error}
	}
	return nil
}
