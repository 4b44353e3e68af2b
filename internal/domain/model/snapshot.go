package model

import "strings"

// PRSnapshot is a point-in-time view of a pull request, produced externally
// per notification (by the GitHub adapter or by an API caller). It is
// ephemeral and never persisted.
type PRSnapshot struct {
	Owner         string   `json:"owner"`
	Repo          string   `json:"repo"`
	Number        int      `json:"pr_number"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Author        string   `json:"author"`
	CurrentUser   string   `json:"current_user"`
	Reviewers     []string `json:"reviewers"`
	ReviewComment string   `json:"review_comment,omitempty"`
}

// RepoFullName returns the "owner/repo" identifier for the snapshot.
func (p PRSnapshot) RepoFullName() string {
	return p.Owner + "/" + p.Repo
}

// IsMyPR reports whether the snapshot's author is the current user
// (case-insensitive).
func (p PRSnapshot) IsMyPR() bool {
	return strings.EqualFold(p.Author, p.CurrentUser)
}
