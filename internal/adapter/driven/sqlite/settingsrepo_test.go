package sqlite

import (
	"context"
	"testing"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepo_GetEmptyStoreYieldsDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.ConnectionBot, settings.ConnectionType)
	assert.True(t, settings.MergeNotificationEnabled)
	assert.Equal(t, model.DefaultRequestTemplate, settings.RequestTemplate)
	assert.Empty(t, settings.ChannelMappings)
	assert.Empty(t, settings.AllowedRepos)
}

func TestSettingsRepo_SetAndGetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	stored := model.DefaultSettings()
	stored.ConnectionType = model.ConnectionWebhook
	stored.BotToken = "xoxb-secret"
	stored.ChannelID = "C123"
	stored.WebhookURL = "https://hooks.slack.com/services/T/B/X"
	stored.ChannelMappings = []model.ChannelMapping{
		{RepoPattern: "acme/*", ChannelID: "C-acme"},
		{RepoPattern: "acme/widgets", WebhookURL: "https://hooks.slack.com/services/T/B/Y"},
	}
	stored.UserMappings = []model.UserMapping{{GitHubLogin: "alice", SlackID: "U111"}}
	stored.AllowedRepos = []string{"acme/*"}
	stored.MergeNotificationEnabled = false

	require.NoError(t, repo.Set(ctx, stored))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestSettingsRepo_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	first := model.DefaultSettings()
	first.ChannelID = "C-first"
	require.NoError(t, repo.Set(ctx, first))

	second := model.DefaultSettings()
	second.ChannelID = "C-second"
	require.NoError(t, repo.Set(ctx, second))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C-second", got.ChannelID)
}

func TestSettingsRepo_BlankTemplatesFallBackToBuiltins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	stored := model.DefaultSettings()
	stored.RequestTemplate = ""
	stored.CompleteTemplate = ""
	stored.MergeTemplate = "custom {repo}"
	require.NoError(t, repo.Set(ctx, stored))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRequestTemplate, got.RequestTemplate)
	assert.Equal(t, model.DefaultCompleteTemplate, got.CompleteTemplate)
	assert.Equal(t, "custom {repo}", got.MergeTemplate)
}
