package application

import "github.com/ericfisherdev/reviewping/internal/domain/model"

// FindChannel resolves the destination for a repository from the ordered
// channel mappings. Mappings are scanned in stored order and the first
// structural pattern match wins -- declaration order, never specificity,
// breaks ties. The returned value is the matched mapping's channel ID (bot
// transport) or webhook URL (webhook transport), which may itself be empty;
// callers treat an empty result as "no match" and fall back to their own
// default destination.
func FindChannel(repoFullName string, mappings []model.ChannelMapping, transport model.ConnectionType) string {
	for _, m := range mappings {
		if !model.MatchRepoPattern(m.RepoPattern, repoFullName) {
			continue
		}
		if transport == model.ConnectionBot {
			return m.ChannelID
		}
		return m.WebhookURL
	}
	return ""
}

// IsRepoAllowed reports whether the repository passes the allow-list.
// An empty list allows every repository; otherwise any matching pattern
// (exact or owner wildcard) allows it.
func IsRepoAllowed(repoFullName string, allowedRepos []string) bool {
	if len(allowedRepos) == 0 {
		return true
	}
	for _, pattern := range allowedRepos {
		if model.MatchRepoPattern(pattern, repoFullName) {
			return true
		}
	}
	return false
}
