package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.NotifiedStore = (*NotifiedRepo)(nil)

// NotifiedRepo is the SQLite implementation of the NotifiedStore port
// interface: the persisted set of PR URLs whose merge was already announced.
// The set is add-only; no eviction is performed.
type NotifiedRepo struct {
	db *DB
}

// NewNotifiedRepo creates a new NotifiedRepo backed by the given DB.
func NewNotifiedRepo(db *DB) *NotifiedRepo {
	return &NotifiedRepo{db: db}
}

// Add records a PR URL as notified. Adding an existing URL is a no-op.
func (r *NotifiedRepo) Add(ctx context.Context, prURL string) error {
	const query = `INSERT OR IGNORE INTO notified_merges (pr_url, notified_at) VALUES (?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, prURL, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("add notified merge %q: %w", prURL, err)
	}

	return nil
}

// ListAll returns every notified PR URL.
func (r *NotifiedRepo) ListAll(ctx context.Context) ([]string, error) {
	const query = `SELECT pr_url FROM notified_merges`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list notified merges: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan notified merge: %w", err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notified merges: %w", err)
	}

	return urls, nil
}
