package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewping/internal/application"
)

func TestNotifiedSet_SeededEntries(t *testing.T) {
	set := application.NewNotifiedSet([]string{"https://github.com/acme/widgets/pull/1"})

	assert.True(t, set.Has("https://github.com/acme/widgets/pull/1"))
	assert.False(t, set.Has("https://github.com/acme/widgets/pull/2"))
	assert.False(t, set.Add("https://github.com/acme/widgets/pull/1"), "seeded entries are not re-addable")
}

func TestNotifiedSet_AddIsIdempotent(t *testing.T) {
	set := application.NewNotifiedSet(nil)

	assert.True(t, set.Add("https://github.com/acme/widgets/pull/3"))
	assert.False(t, set.Add("https://github.com/acme/widgets/pull/3"))
	assert.True(t, set.Has("https://github.com/acme/widgets/pull/3"))
}

func TestNotifiedSet_FlushPersistsOnlyNewEntries(t *testing.T) {
	set := application.NewNotifiedSet([]string{"https://github.com/acme/widgets/pull/1"})
	set.Add("https://github.com/acme/widgets/pull/2")
	store := &mockNotifiedStore{}

	require.NoError(t, set.FlushTo(context.Background(), store))
	assert.Equal(t, []string{"https://github.com/acme/widgets/pull/2"}, store.added, "seeded entries are already durable")

	// A second flush with nothing new is a no-op.
	require.NoError(t, set.FlushTo(context.Background(), store))
	assert.Len(t, store.added, 1)
}

func TestNotifiedSet_FailedFlushRetainsDirtyEntries(t *testing.T) {
	set := application.NewNotifiedSet(nil)
	set.Add("https://github.com/acme/widgets/pull/4")

	failing := &mockNotifiedStore{addErr: errors.New("database is locked")}
	require.Error(t, set.FlushTo(context.Background(), failing))

	// The entry stays dirty and lands on the next successful flush.
	working := &mockNotifiedStore{}
	require.NoError(t, set.FlushTo(context.Background(), working))
	assert.Equal(t, []string{"https://github.com/acme/widgets/pull/4"}, working.added)
}
