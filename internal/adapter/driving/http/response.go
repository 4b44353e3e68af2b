package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// SendNotificationRequest is the JSON body for the notification dispatch endpoint.
type SendNotificationRequest struct {
	Action model.Action     `json:"action"`
	PR     model.PRSnapshot `json:"pr"`
}

// TestWebhookRequest is the JSON body for the webhook test endpoint.
type TestWebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
}

// AddReviewersRequest is the JSON body for the reviewer mutation endpoint.
type AddReviewersRequest struct {
	Reviewers []string `json:"reviewers"`
}

// AddReviewersResponse confirms which reviewers were requested.
type AddReviewersResponse struct {
	Added []string `json:"added"`
}

// RecentReviewersResponse is the reviewer history for a repository,
// most recent first.
type RecentReviewersResponse struct {
	Reviewers []string `json:"reviewers"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
