package driven

import "context"

// NotifiedStore durably records PR URLs for which a merge notification has
// already been sent. The set is add-only: entries are never pruned, and Add is
// idempotent.
type NotifiedStore interface {
	Add(ctx context.Context, prURL string) error
	ListAll(ctx context.Context) ([]string, error)
}
