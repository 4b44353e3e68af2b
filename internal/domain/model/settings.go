package model

// ConnectionType selects the preferred primary Slack transport.
type ConnectionType string

const (
	// ConnectionBot posts through the Slack Web API with a bot token.
	ConnectionBot ConnectionType = "bot"
	// ConnectionWebhook posts through a Slack incoming webhook URL.
	ConnectionWebhook ConnectionType = "webhook"
)

// ChannelMapping routes a repository pattern to a destination. Patterns are
// either "owner/repo" (exact, case-insensitive) or "owner/*" (organization
// wildcard). Mappings are evaluated in stored order; the first structural
// match wins regardless of specificity.
type ChannelMapping struct {
	RepoPattern string `json:"repo_pattern"`
	ChannelID   string `json:"channel_id,omitempty"`
	WebhookURL  string `json:"webhook_url,omitempty"`
}

// UserMapping links a GitHub login to a Slack member ID for mentions.
// Logins are compared case-insensitively.
type UserMapping struct {
	GitHubLogin string `json:"github_login"`
	SlackID     string `json:"slack_id"`
}

// Settings is the process-wide notification configuration. It is loaded per
// operation from the settings store; no caching is assumed.
type Settings struct {
	ConnectionType           ConnectionType   `json:"connection_type"`
	BotToken                 string           `json:"bot_token"`
	ChannelID                string           `json:"channel_id"`
	WebhookURL               string           `json:"webhook_url"`
	ChannelMappings          []ChannelMapping `json:"channel_mappings"`
	RequestTemplate          string           `json:"request_template"`
	CompleteTemplate         string           `json:"complete_template"`
	MergeTemplate            string           `json:"merge_template"`
	MergeNotificationEnabled bool             `json:"merge_notification_enabled"`
	UserMappings             []UserMapping    `json:"user_mappings"`
	AllowedRepos             []string         `json:"allowed_repos"`
}

// Built-in message templates, used when the corresponding setting is empty.
const (
	DefaultRequestTemplate = "🔍 *Review requested*\n<{pr_url}|{pr_title}>\n{reviewers} please take a look! 🙏"

	DefaultCompleteTemplate = "✅ *Review complete*\n<{pr_url}|{pr_title}>\n{author} the review is done!"

	DefaultMergeTemplate = "🎉 *Merged*\n<{pr_url}|{pr_title}>\nMerged into {repo}!"
)

// DefaultSettings returns the settings applied before any user configuration
// is stored: bot transport preferred, built-in templates, merge notifications
// enabled, no mappings, all repositories allowed.
func DefaultSettings() Settings {
	return Settings{
		ConnectionType:           ConnectionBot,
		ChannelMappings:          []ChannelMapping{},
		RequestTemplate:          DefaultRequestTemplate,
		CompleteTemplate:         DefaultCompleteTemplate,
		MergeTemplate:            DefaultMergeTemplate,
		MergeNotificationEnabled: true,
		UserMappings:             []UserMapping{},
		AllowedRepos:             []string{},
	}
}

// TemplateFor returns the message template configured for the given action.
// Unrecognized actions return the empty string; passing one is a caller
// contract violation, not a handled case.
func (s Settings) TemplateFor(action Action) string {
	switch action {
	case ActionRequest:
		return s.RequestTemplate
	case ActionComplete:
		return s.CompleteTemplate
	case ActionMerge:
		return s.MergeTemplate
	}
	return ""
}
