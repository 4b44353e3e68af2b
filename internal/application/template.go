// Package application contains the notification dispatch and merge-detection
// use cases.
package application

import (
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
)

// teamFallback is substituted for {reviewers} when the reviewer list is empty
// after excluding the PR author.
const teamFallback = "team members"

// commentPreviewLines caps how many lines of a review comment are appended to
// a complete-action message.
const commentPreviewLines = 4

// ResolveMention maps a GitHub login to a Slack mention. A case-insensitive
// hit in mappings yields "<@SLACKID>"; a miss yields the plain "@login" text.
// Absence is a normal outcome, never an error.
func ResolveMention(login string, mappings []model.UserMapping) string {
	for _, m := range mappings {
		if strings.EqualFold(m.GitHubLogin, login) {
			return "<@" + m.SlackID + ">"
		}
	}
	return "@" + login
}

// RenderTemplate substitutes placeholders in template with values from the PR
// snapshot. Every occurrence of a recognized placeholder is replaced;
// unrecognized tokens are left verbatim. Action-specific placeholders:
// {reviewers} resolves only for request (author excluded, mentions joined by
// a space, empty list falls back to a team phrase) and {reviewer} only for
// complete (the current user). For complete, a non-empty review comment is
// appended as a fenced block of at most the first four lines.
func RenderTemplate(template string, pr model.PRSnapshot, settings model.Settings, action model.Action) string {
	msg := template

	msg = strings.ReplaceAll(msg, "{pr_title}", pr.Title)
	msg = strings.ReplaceAll(msg, "{pr_url}", pr.URL)
	msg = strings.ReplaceAll(msg, "{pr_number}", strconv.Itoa(pr.Number))
	msg = strings.ReplaceAll(msg, "{repo}", pr.RepoFullName())
	msg = strings.ReplaceAll(msg, "{author}", ResolveMention(pr.Author, settings.UserMappings))

	if action == model.ActionRequest {
		msg = strings.ReplaceAll(msg, "{reviewers}", reviewerMentions(pr, settings.UserMappings))
	}

	if action == model.ActionComplete {
		msg = strings.ReplaceAll(msg, "{reviewer}", ResolveMention(pr.CurrentUser, settings.UserMappings))

		if pr.ReviewComment != "" {
			msg += "\n```\n" + commentPreview(pr.ReviewComment) + "\n```"
		}
	}

	return msg
}

// reviewerMentions resolves the snapshot's reviewers to mentions, excluding
// the PR author (case-insensitive). An empty result falls back to the team
// phrase.
func reviewerMentions(pr model.PRSnapshot, mappings []model.UserMapping) string {
	var mentions []string
	for _, r := range pr.Reviewers {
		if strings.EqualFold(r, pr.Author) {
			continue
		}
		mentions = append(mentions, ResolveMention(r, mappings))
	}

	if len(mentions) == 0 {
		return teamFallback
	}
	return strings.Join(mentions, " ")
}

// commentPreview returns at most the first commentPreviewLines lines of body.
func commentPreview(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) > commentPreviewLines {
		lines = lines[:commentPreviewLines]
	}
	return strings.Join(lines, "\n")
}
