package application_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewping/internal/application"
	"github.com/ericfisherdev/reviewping/internal/domain/model"
)

type mockGitHubClient struct {
	mu     sync.Mutex
	prs    map[string]model.PRSnapshot // repo#number -> snapshot
	open   map[string][]string         // repo -> open PR keys
	merged map[string]bool             // repo#number -> merged
}

func newMockGitHubClient() *mockGitHubClient {
	return &mockGitHubClient{
		prs:    make(map[string]model.PRSnapshot),
		open:   make(map[string][]string),
		merged: make(map[string]bool),
	}
}

func prKey(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

func (m *mockGitHubClient) addOpen(repo string, pr model.PRSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := prKey(repo, pr.Number)
	m.prs[key] = pr
	m.open[repo] = append(m.open[repo], key)
}

// merge marks the PR merged and removes it from the open list, the way the
// live API behaves once a PR merges.
func (m *mockGitHubClient) merge(repo string, number int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := prKey(repo, number)
	m.merged[key] = true
	var remaining []string
	for _, k := range m.open[repo] {
		if k != key {
			remaining = append(remaining, k)
		}
	}
	m.open[repo] = remaining
}

func (m *mockGitHubClient) ListOpenPullRequests(_ context.Context, repoFullName string) ([]model.PRSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prs := []model.PRSnapshot{}
	for _, key := range m.open[repoFullName] {
		prs = append(prs, m.prs[key])
	}
	return prs, nil
}

func (m *mockGitHubClient) FetchSnapshot(_ context.Context, repoFullName string, number int) (model.PRSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.prs[prKey(repoFullName, number)]
	if !ok {
		return model.PRSnapshot{}, fmt.Errorf("pull request %s#%d not found", repoFullName, number)
	}
	return pr, nil
}

func (m *mockGitHubClient) IsMerged(_ context.Context, repoFullName string, number int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.merged[prKey(repoFullName, number)], nil
}

func (m *mockGitHubClient) RequestReviewers(_ context.Context, _ string, _ int, _ []string) error {
	return nil
}

func newWatcher(gh *mockGitHubClient, dispatcher *stubDispatcher, store *mockNotifiedStore, repos []string) *application.MergeWatcher {
	return application.NewMergeWatcher(
		gh,
		dispatcher,
		&mockSettingsStore{settings: model.DefaultSettings()},
		store,
		application.NewNotifiedSet(nil),
		repos,
		10*time.Millisecond,
		time.Millisecond,
	)
}

func TestMergeWatcher_NotifiesWhenTrackedPRMerges(t *testing.T) {
	gh := newMockGitHubClient()
	pr := snapshot()
	gh.addOpen("acme/widgets", pr)

	dispatcher := &stubDispatcher{result: model.DispatchResult{Success: true}}
	store := &mockNotifiedStore{}
	watcher := newWatcher(gh, dispatcher, store, []string{"acme/widgets"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	// Let the watcher pick the PR up while it is open, then merge it. The PR
	// drops off the open list but the detector survives the grace window and
	// observes the rising edge.
	time.Sleep(30 * time.Millisecond)
	gh.merge("acme/widgets", pr.Number)

	require.Eventually(t, func() bool { return dispatcher.callCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, model.ActionMerge, dispatcher.callAt(0).Action)
	assert.Equal(t, pr.URL, dispatcher.callAt(0).PR.URL)
	require.Eventually(t, func() bool {
		return len(store.list()) == 1 && store.list()[0] == pr.URL
	}, 2*time.Second, 5*time.Millisecond)

	// No further notifications for the same merge.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, dispatcher.callCount())

	cancel()
	<-done
}

func TestMergeWatcher_OpenPRStaysQuiet(t *testing.T) {
	gh := newMockGitHubClient()
	gh.addOpen("acme/widgets", snapshot())

	dispatcher := &stubDispatcher{result: model.DispatchResult{Success: true}}
	watcher := newWatcher(gh, dispatcher, &mockNotifiedStore{}, []string{"acme/widgets"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, dispatcher.callCount(), "an open, unmerged PR never notifies")

	cancel()
	<-done
}
