package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// SignalFunc reports the current merge state of the tracked PR. The detector
// makes no assumption about how the signal is produced; polling and push
// observers both satisfy the contract.
type SignalFunc func(ctx context.Context) (bool, error)

// SnapshotFunc produces a fresh snapshot of the tracked PR, fetched lazily
// only when a rising edge fires.
type SnapshotFunc func(ctx context.Context) (model.PRSnapshot, error)

// MergeDetector watches a single PR's merge state and fires a merge
// notification exactly once, on the false-to-true transition of the signal.
// Rechecks arrive as discrete Trigger events and are debounced with a
// trailing-edge timer, so a burst of triggers collapses into one signal query
// and checks never run concurrently for the same detector.
//
// A new detector is created whenever the tracked PR changes; the previous
// state never carries over between PRs. The initial state is computed from
// the signal at Start, not assumed false, so entering an already-merged PR
// does not fire.
type MergeDetector struct {
	prURL      string
	signal     SignalFunc
	snapshot   SnapshotFunc
	dispatcher Dispatcher
	settings   driven.SettingsStore
	notified   *NotifiedSet
	store      driven.NotifiedStore
	debounce   time.Duration

	trigger chan struct{}
	prev    bool
}

// NewMergeDetector creates a detector for the PR identified by prURL.
func NewMergeDetector(
	prURL string,
	signal SignalFunc,
	snapshot SnapshotFunc,
	dispatcher Dispatcher,
	settings driven.SettingsStore,
	notified *NotifiedSet,
	store driven.NotifiedStore,
	debounce time.Duration,
) *MergeDetector {
	return &MergeDetector{
		prURL:      prURL,
		signal:     signal,
		snapshot:   snapshot,
		dispatcher: dispatcher,
		settings:   settings,
		notified:   notified,
		store:      store,
		debounce:   debounce,
		trigger:    make(chan struct{}, 1),
	}
}

// Trigger requests a recheck. It never blocks; triggers arriving while one is
// already pending coalesce. Safe to call from any goroutine.
func (d *MergeDetector) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Start computes the initial merge state, then consumes trigger events until
// the context is canceled. Each trigger restarts the debounce timer; the
// check runs only once the timer expires with no newer trigger (trailing
// edge). Start blocks and is meant to run in its own goroutine.
func (d *MergeDetector) Start(ctx context.Context) {
	initial, err := d.signal(ctx)
	if err != nil {
		slog.Warn("initial merge state query failed", "pr_url", d.prURL, "error", err)
	} else {
		d.prev = initial
	}

	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(d.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			d.CheckNow(ctx)
		}
	}
}

// CheckNow queries the signal once and fires the merge notification if the
// state transitioned from false to true since the previous check. The
// notification is gated by the repository allow-list and by the notified set:
// the URL is added optimistically before the dispatch so a second edge firing
// mid-flight is suppressed, and persisted durably only after the dispatcher
// reports a delivered (non-skipped) success.
//
// CheckNow is not safe for concurrent use; the Start loop serializes it.
func (d *MergeDetector) CheckNow(ctx context.Context) {
	current, err := d.signal(ctx)
	if err != nil {
		slog.Warn("merge state query failed", "pr_url", d.prURL, "error", err)
		return
	}

	rising := current && !d.prev
	d.prev = current
	if !rising {
		return
	}

	slog.Info("merge detected", "pr_url", d.prURL)

	settings, err := d.settings.Get(ctx)
	if err != nil {
		slog.Error("load settings failed", "pr_url", d.prURL, "error", err)
		return
	}

	pr, err := d.snapshot(ctx)
	if err != nil {
		slog.Error("fetch PR snapshot failed", "pr_url", d.prURL, "error", err)
		return
	}

	if !IsRepoAllowed(pr.RepoFullName(), settings.AllowedRepos) {
		slog.Debug("repository not in allow-list, skipping merge notification", "repo", pr.RepoFullName())
		return
	}

	if !d.notified.Add(pr.URL) {
		slog.Debug("merge already notified", "pr_url", pr.URL)
		return
	}

	result := d.dispatcher.Dispatch(ctx, model.ActionMerge, pr)
	if !result.Success {
		// The URL stays in the in-memory set: failed sends are not retried.
		slog.Error("merge notification failed", "pr_url", pr.URL, "error", result.Error)
		return
	}
	if result.Skipped {
		return
	}

	if err := d.notified.FlushTo(ctx, d.store); err != nil {
		slog.Error("persist notified set failed", "pr_url", pr.URL, "error", err)
		return
	}
	slog.Info("merge notification sent", "pr_url", pr.URL)
}
