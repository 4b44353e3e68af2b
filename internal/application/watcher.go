package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// vanishGrace is how many consecutive poll cycles a PR may be absent from the
// open list before its detector is dropped. A merged PR leaves the open list,
// so its detector gets these final triggers to observe the rising edge.
const vanishGrace = 2

// detectorHandle pairs a running detector with its cancel func and tracks how
// many poll cycles its PR has been missing from the open list.
type detectorHandle struct {
	detector *MergeDetector
	cancel   context.CancelFunc
	missing  int
}

// MergeWatcher polls the configured repositories for pull requests and keeps
// one MergeDetector per PR URL, pushing a recheck trigger into each on every
// cycle. Detectors for PRs that vanish from the open list are kept for a
// short grace period (so the merge edge is still observed) and then dropped;
// a PR seen again later gets a fresh detector with freshly computed state.
type MergeWatcher struct {
	gh            driven.GitHubClient
	dispatcher    Dispatcher
	settingsStore driven.SettingsStore
	notifiedStore driven.NotifiedStore
	notified      *NotifiedSet
	repos         []string
	interval      time.Duration
	debounce      time.Duration

	detectors map[string]*detectorHandle
}

// NewMergeWatcher creates a MergeWatcher over the given watch repositories.
func NewMergeWatcher(
	gh driven.GitHubClient,
	dispatcher Dispatcher,
	settingsStore driven.SettingsStore,
	notifiedStore driven.NotifiedStore,
	notified *NotifiedSet,
	repos []string,
	interval time.Duration,
	debounce time.Duration,
) *MergeWatcher {
	return &MergeWatcher{
		gh:            gh,
		dispatcher:    dispatcher,
		settingsStore: settingsStore,
		notifiedStore: notifiedStore,
		notified:      notified,
		repos:         repos,
		interval:      interval,
		debounce:      debounce,
		detectors:     make(map[string]*detectorHandle),
	}
}

// Start runs an immediate sync, then syncs on the configured interval until
// the context is canceled. Start blocks.
func (w *MergeWatcher) Start(ctx context.Context) {
	w.sync(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for _, h := range w.detectors {
				h.cancel()
			}
			slog.Info("merge watcher stopped")
			return
		case <-ticker.C:
			w.sync(ctx)
		}
	}
}

// sync reconciles the detector set against the currently open PRs and
// triggers a recheck on every live detector.
func (w *MergeWatcher) sync(ctx context.Context) {
	seen := make(map[string]bool)

	for _, repo := range w.repos {
		if ctx.Err() != nil {
			return
		}

		prs, err := w.gh.ListOpenPullRequests(ctx, repo)
		if err != nil {
			slog.Error("list open PRs failed", "repo", repo, "error", err)
			continue
		}

		for _, pr := range prs {
			seen[pr.URL] = true
			if _, ok := w.detectors[pr.URL]; !ok {
				w.track(ctx, repo, pr)
			}
		}
	}

	for url, h := range w.detectors {
		if seen[url] {
			h.missing = 0
		} else {
			h.missing++
			if h.missing > vanishGrace {
				h.cancel()
				delete(w.detectors, url)
				slog.Debug("detector dropped", "pr_url", url)
				continue
			}
		}
		h.detector.Trigger()
	}
}

// track starts a detector for a newly observed PR.
func (w *MergeWatcher) track(ctx context.Context, repoFullName string, pr model.PRSnapshot) {
	number := pr.Number

	signal := func(ctx context.Context) (bool, error) {
		return w.gh.IsMerged(ctx, repoFullName, number)
	}
	snapshot := func(ctx context.Context) (model.PRSnapshot, error) {
		return w.gh.FetchSnapshot(ctx, repoFullName, number)
	}

	d := NewMergeDetector(pr.URL, signal, snapshot, w.dispatcher, w.settingsStore, w.notified, w.notifiedStore, w.debounce)

	detCtx, cancel := context.WithCancel(ctx)
	w.detectors[pr.URL] = &detectorHandle{detector: d, cancel: cancel}
	go d.Start(detCtx)

	slog.Info("tracking PR for merge detection", "repo", repoFullName, "pr", number, "pr_url", pr.URL)
}
