// Package httphandler is the HTTP driving adapter that serves the JSON API.
package httphandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// NotificationService is the dispatch surface the handler drives. It is
// satisfied by *application.DispatchService.
type NotificationService interface {
	Dispatch(ctx context.Context, action model.Action, pr model.PRSnapshot) model.DispatchResult
	TestWebhook(ctx context.Context, webhookURL string) model.DispatchResult
}

// Handler serves the REST API.
type Handler struct {
	dispatcher NotificationService
	settings   driven.SettingsStore
	history    driven.ReviewerHistoryStore
	gh         driven.GitHubClient // nil when no GitHub credentials are configured
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. gh may be nil;
// the reviewer-mutation endpoint then reports the missing configuration.
func NewHandler(
	dispatcher NotificationService,
	settings driven.SettingsStore,
	history driven.ReviewerHistoryStore,
	gh driven.GitHubClient,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		settings:   settings,
		history:    history,
		gh:         gh,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/notifications", h.SendNotification)
	mux.HandleFunc("POST /api/v1/webhooks/test", h.TestWebhook)
	mux.HandleFunc("GET /api/v1/settings", h.GetSettings)
	mux.HandleFunc("PUT /api/v1/settings", h.PutSettings)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/reviewers/recent", h.RecentReviewers)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/prs/{number}/reviewers", h.AddReviewers)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// SendNotification dispatches one notification for the posted action and PR
// snapshot. Delivery failures are not HTTP errors: the response is always the
// DispatchResult and callers branch on its success field.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.Action.Valid() {
		writeError(w, http.StatusBadRequest, "invalid action: expected request, complete, or merge")
		return
	}
	if req.PR.Owner == "" || req.PR.Repo == "" || req.PR.URL == "" {
		writeError(w, http.StatusBadRequest, "pr owner, repo, and url are required")
		return
	}

	result := h.dispatcher.Dispatch(r.Context(), req.Action, req.PR)
	writeJSON(w, http.StatusOK, result)
}

// TestWebhook posts a fixed test message to the given webhook URL.
func (h *Handler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	var req TestWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WebhookURL == "" {
		writeError(w, http.StatusBadRequest, "webhook_url is required")
		return
	}

	result := h.dispatcher.TestWebhook(r.Context(), req.WebhookURL)
	writeJSON(w, http.StatusOK, result)
}

// GetSettings returns the stored settings record (defaults when unset).
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings validates and replaces the settings record.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if settings.ConnectionType != model.ConnectionBot && settings.ConnectionType != model.ConnectionWebhook {
		writeError(w, http.StatusBadRequest, "connection_type must be bot or webhook")
		return
	}
	for _, m := range settings.ChannelMappings {
		if !model.ValidRepoPattern(m.RepoPattern) {
			writeError(w, http.StatusBadRequest, "invalid repo pattern: expected owner/repo or owner/*")
			return
		}
	}
	for _, p := range settings.AllowedRepos {
		if !model.ValidRepoPattern(p) {
			writeError(w, http.StatusBadRequest, "invalid allowed repo pattern: expected owner/repo or owner/*")
			return
		}
	}

	if err := h.settings.Set(r.Context(), settings); err != nil {
		h.logger.Error("failed to store settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// RecentReviewers returns the repository's reviewer history, most recent first.
func (h *Handler) RecentReviewers(w http.ResponseWriter, r *http.Request) {
	repoFullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	reviewers, err := h.history.Recent(r.Context(), repoFullName)
	if err != nil {
		h.logger.Error("failed to load reviewer history", "repo", repoFullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if reviewers == nil {
		reviewers = []string{}
	}

	writeJSON(w, http.StatusOK, RecentReviewersResponse{Reviewers: reviewers})
}

// AddReviewers adds the posted users as requested reviewers on a PR through
// the GitHub API.
func (h *Handler) AddReviewers(w http.ResponseWriter, r *http.Request) {
	if h.gh == nil {
		writeError(w, http.StatusServiceUnavailable, "github credentials not configured")
		return
	}

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid PR number")
		return
	}

	var req AddReviewersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Reviewers) == 0 {
		writeError(w, http.StatusBadRequest, "reviewers is required")
		return
	}

	repoFullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	if err := h.gh.RequestReviewers(r.Context(), repoFullName, number, req.Reviewers); err != nil {
		h.logger.Error("failed to add reviewers", "repo", repoFullName, "pr", number, "error", err)
		writeError(w, http.StatusBadGateway, "failed to add reviewers")
		return
	}

	if err := h.history.Record(r.Context(), repoFullName, req.Reviewers); err != nil {
		h.logger.Warn("failed to record reviewer history", "repo", repoFullName, "error", err)
	}

	writeJSON(w, http.StatusOK, AddReviewersResponse{Added: req.Reviewers})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
