// Package model contains the core domain types shared across all layers.
package model

// Action identifies the kind of notification being dispatched.
type Action string

const (
	// ActionRequest announces that a review has been requested on a PR.
	ActionRequest Action = "request"
	// ActionComplete announces that the current user finished reviewing a PR.
	ActionComplete Action = "complete"
	// ActionMerge announces that a PR has been merged.
	ActionMerge Action = "merge"
)

// Valid reports whether a is one of the recognized actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRequest, ActionComplete, ActionMerge:
		return true
	}
	return false
}

// DispatchResult is the outcome of a single notification dispatch.
// It is created fresh per dispatch call and never mutated after return.
// Callers branch on Success; Skipped marks deliberate no-ops (e.g. merge
// notifications disabled) that must not be shown as failures.
type DispatchResult struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}
