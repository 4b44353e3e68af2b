package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// Dispatcher is the inbound contract of the notification dispatch engine.
// Implementations never panic past their boundary; all failures are folded
// into the returned DispatchResult.
type Dispatcher interface {
	Dispatch(ctx context.Context, action model.Action, pr model.PRSnapshot) model.DispatchResult
}

// testMessage is the fixed text posted by TestWebhook.
const testMessage = "✅ ReviewPing webhook connection test succeeded!"

// slackErrorMessages humanizes known Slack API error codes. Unmapped codes
// pass through verbatim.
var slackErrorMessages = map[string]string{
	"channel_not_found": "channel not found",
	"not_in_channel":    "bot is not in the channel",
	"invalid_auth":      "invalid bot token",
	"token_revoked":     "bot token has been revoked",
	"no_permission":     "missing permission",
	"rate_limited":      "rate limited",
}

// DispatchService sends notifications over the preferred transport and falls
// back to the other exactly once on failure. Settings are loaded fresh per
// dispatch. Transport attempts within one dispatch are strictly sequential:
// the primary fully resolves before the fallback starts.
type DispatchService struct {
	settings driven.SettingsStore
	slack    driven.SlackSender
	history  driven.ReviewerHistoryStore // optional; nil disables history capture
}

var _ Dispatcher = (*DispatchService)(nil)

// NewDispatchService creates a DispatchService. history may be nil when
// reviewer history capture is not wanted.
func NewDispatchService(settings driven.SettingsStore, slack driven.SlackSender, history driven.ReviewerHistoryStore) *DispatchService {
	return &DispatchService{
		settings: settings,
		slack:    slack,
		history:  history,
	}
}

// Dispatch sends one notification for the given action and PR snapshot.
// Merge notifications return a silent skip when disabled. At most two
// outbound calls are made per invocation (primary, then fallback); there is
// no retry loop beyond the single fallback hop.
func (s *DispatchService) Dispatch(ctx context.Context, action model.Action, pr model.PRSnapshot) model.DispatchResult {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		slog.Error("load settings failed", "error", err)
		return model.DispatchResult{Success: false, Error: "failed to load settings"}
	}

	if action == model.ActionMerge && !settings.MergeNotificationEnabled {
		return model.DispatchResult{Success: true, Skipped: true}
	}

	canUseBot := settings.BotToken != "" && settings.ChannelID != ""
	repoWebhook := FindChannel(pr.RepoFullName(), settings.ChannelMappings, model.ConnectionWebhook)
	canUseWebhook := repoWebhook != "" || settings.WebhookURL != ""

	var primary, fallback model.DispatchResult

	if settings.ConnectionType == model.ConnectionWebhook {
		if canUseWebhook {
			primary = s.sendViaWebhook(ctx, action, pr, settings)
			if primary.Success {
				s.recordHistory(ctx, action, pr)
				return primary
			}
		}
		if canUseBot {
			slog.Info("webhook delivery failed, trying bot token fallback", "repo", pr.RepoFullName(), "pr", pr.Number)
			fallback = s.sendViaBotToken(ctx, action, pr, settings)
			if fallback.Success {
				s.recordHistory(ctx, action, pr)
				return fallback
			}
		}
	} else {
		if canUseBot {
			primary = s.sendViaBotToken(ctx, action, pr, settings)
			if primary.Success {
				s.recordHistory(ctx, action, pr)
				return primary
			}
		}
		if canUseWebhook {
			slog.Info("bot token delivery failed, trying webhook fallback", "repo", pr.RepoFullName(), "pr", pr.Number)
			fallback = s.sendViaWebhook(ctx, action, pr, settings)
			if fallback.Success {
				s.recordHistory(ctx, action, pr)
				return fallback
			}
		}
	}

	reason := primary.Error
	if reason == "" {
		reason = fallback.Error
	}
	if reason == "" {
		reason = "check your configuration"
	}
	return model.DispatchResult{
		Success: false,
		Error:   fmt.Sprintf("failed to send notification (%s)", reason),
	}
}

// TestWebhook posts a fixed test message to the given webhook URL.
func (s *DispatchService) TestWebhook(ctx context.Context, webhookURL string) model.DispatchResult {
	if webhookURL == "" {
		return model.DispatchResult{Success: false, Error: "webhook URL required"}
	}
	if err := s.slack.PostWebhook(ctx, webhookURL, testMessage); err != nil {
		return model.DispatchResult{Success: false, Error: humanizeSendError(err)}
	}
	return model.DispatchResult{Success: true}
}

// sendViaBotToken delivers one message through the Slack Web API. The target
// channel resolves from the channel mappings, falling back to the default
// channel ID. Missing configuration short-circuits before any network I/O.
func (s *DispatchService) sendViaBotToken(ctx context.Context, action model.Action, pr model.PRSnapshot, settings model.Settings) model.DispatchResult {
	if settings.BotToken == "" {
		return model.DispatchResult{Success: false, Error: "bot token required"}
	}

	target := FindChannel(pr.RepoFullName(), settings.ChannelMappings, model.ConnectionBot)
	if target == "" {
		target = settings.ChannelID
	}
	if target == "" {
		return model.DispatchResult{Success: false, Error: "channel ID required"}
	}

	msg := RenderTemplate(settings.TemplateFor(action), pr, settings, action)

	if err := s.slack.PostMessage(ctx, settings.BotToken, target, msg); err != nil {
		slog.Warn("bot token send failed", "repo", pr.RepoFullName(), "pr", pr.Number, "error", err)
		return model.DispatchResult{Success: false, Error: humanizeSendError(err)}
	}
	return model.DispatchResult{Success: true}
}

// sendViaWebhook delivers one message through a Slack incoming webhook. The
// target URL resolves from the channel mappings, falling back to the default
// webhook URL. Missing configuration short-circuits before any network I/O.
func (s *DispatchService) sendViaWebhook(ctx context.Context, action model.Action, pr model.PRSnapshot, settings model.Settings) model.DispatchResult {
	target := FindChannel(pr.RepoFullName(), settings.ChannelMappings, model.ConnectionWebhook)
	if target == "" {
		target = settings.WebhookURL
	}
	if target == "" {
		return model.DispatchResult{Success: false, Error: "webhook URL required"}
	}

	msg := RenderTemplate(settings.TemplateFor(action), pr, settings, action)

	if err := s.slack.PostWebhook(ctx, target, msg); err != nil {
		slog.Warn("webhook send failed", "repo", pr.RepoFullName(), "pr", pr.Number, "error", err)
		return model.DispatchResult{Success: false, Error: humanizeSendError(err)}
	}
	return model.DispatchResult{Success: true}
}

// recordHistory captures the snapshot's reviewers after a successful request
// dispatch. Failures are logged and never affect the dispatch result.
func (s *DispatchService) recordHistory(ctx context.Context, action model.Action, pr model.PRSnapshot) {
	if s.history == nil || action != model.ActionRequest || len(pr.Reviewers) == 0 {
		return
	}
	if err := s.history.Record(ctx, pr.RepoFullName(), pr.Reviewers); err != nil {
		slog.Warn("record reviewer history failed", "repo", pr.RepoFullName(), "error", err)
	}
}

// humanizeSendError converts a transport error into a user-facing message.
// Structured Slack API errors go through the fixed lookup table, webhook
// status errors carry the status code, and everything else collapses to a
// generic network error.
func humanizeSendError(err error) string {
	var apiErr *driven.SlackAPIError
	if errors.As(err, &apiErr) {
		if msg, ok := slackErrorMessages[apiErr.Code]; ok {
			return msg
		}
		return apiErr.Code
	}

	var statusErr *driven.WebhookStatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("delivery failed (%d)", statusErr.StatusCode)
	}

	return "network error"
}
