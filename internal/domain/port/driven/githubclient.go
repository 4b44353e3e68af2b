package driven

import (
	"context"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
)

// GitHubClient is the outbound port to the GitHub API. It supplies PR
// snapshots, the merge-state signal consumed by the detector, and the
// reviewer-mutation operation.
type GitHubClient interface {
	// ListOpenPullRequests returns snapshots of all open PRs in the repository.
	ListOpenPullRequests(ctx context.Context, repoFullName string) ([]model.PRSnapshot, error)
	// FetchSnapshot returns a snapshot of a single PR regardless of state.
	FetchSnapshot(ctx context.Context, repoFullName string, number int) (model.PRSnapshot, error)
	// IsMerged reports whether the PR has been merged.
	IsMerged(ctx context.Context, repoFullName string, number int) (bool, error)
	// RequestReviewers adds the given users as requested reviewers on the PR.
	RequestReviewers(ctx context.Context, repoFullName string, number int, reviewers []string) error
}
