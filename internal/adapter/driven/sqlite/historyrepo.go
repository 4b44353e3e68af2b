package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// historyLimit is the maximum number of reviewers retained per repository.
const historyLimit = 20

// Compile-time interface satisfaction check.
var _ driven.ReviewerHistoryStore = (*HistoryRepo)(nil)

// HistoryRepo is the SQLite implementation of the ReviewerHistoryStore port
// interface. Repositories are keyed by lower-cased "owner/repo"; recency is
// tracked by the autoincrement rowid.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new HistoryRepo backed by the given DB.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Record moves the given reviewers to the front of the repository's history
// and trims the history to the retention limit. Re-recording an existing
// reviewer refreshes their position.
func (r *HistoryRepo) Record(ctx context.Context, repoFullName string, reviewers []string) error {
	repoKey := strings.ToLower(repoFullName)

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reviewer history tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	// Delete-then-insert so a re-added reviewer gets a fresh rowid and moves
	// to the front of the recency order. Inserting in reverse keeps the
	// callers' slice order intact at the front: reviewers[0] ends up newest.
	const del = `DELETE FROM reviewer_history WHERE repo_full_name = ? AND reviewer = ?`
	const ins = `INSERT INTO reviewer_history (repo_full_name, reviewer, added_at) VALUES (?, ?, ?)`

	for i := len(reviewers) - 1; i >= 0; i-- {
		reviewer := reviewers[i]
		if reviewer == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, del, repoKey, reviewer); err != nil {
			return fmt.Errorf("refresh reviewer %q for %s: %w", reviewer, repoKey, err)
		}
		if _, err := tx.ExecContext(ctx, ins, repoKey, reviewer, now); err != nil {
			return fmt.Errorf("record reviewer %q for %s: %w", reviewer, repoKey, err)
		}
	}

	const trim = `
		DELETE FROM reviewer_history
		WHERE repo_full_name = ?
		  AND id NOT IN (
			SELECT id FROM reviewer_history
			WHERE repo_full_name = ?
			ORDER BY id DESC
			LIMIT ?
		  )
	`
	if _, err := tx.ExecContext(ctx, trim, repoKey, repoKey, historyLimit); err != nil {
		return fmt.Errorf("trim reviewer history for %s: %w", repoKey, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reviewer history for %s: %w", repoKey, err)
	}

	return nil
}

// Recent returns the repository's reviewers, most recent first.
func (r *HistoryRepo) Recent(ctx context.Context, repoFullName string) ([]string, error) {
	const query = `
		SELECT reviewer FROM reviewer_history
		WHERE repo_full_name = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, strings.ToLower(repoFullName), historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list reviewer history for %s: %w", repoFullName, err)
	}
	defer rows.Close()

	var reviewers []string
	for rows.Next() {
		var reviewer string
		if err := rows.Scan(&reviewer); err != nil {
			return nil, fmt.Errorf("scan reviewer: %w", err)
		}
		reviewers = append(reviewers, reviewer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviewer history: %w", err)
	}

	return reviewers, nil
}
