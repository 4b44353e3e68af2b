package driven

import "context"

// ReviewerHistoryStore keeps a bounded, most-recent-first list of reviewers
// per repository (lower-cased "owner/repo" key). It is write-only convenience
// state for the reviewer suggestion UI; at most the 20 most recent entries are
// retained per repository.
type ReviewerHistoryStore interface {
	// Record moves the given reviewers to the front of the repository's
	// history, deduplicating and trimming to the retention limit.
	Record(ctx context.Context, repoFullName string, reviewers []string) error
	// Recent returns the repository's reviewers, most recent first.
	Recent(ctx context.Context, repoFullName string) ([]string, error)
}
