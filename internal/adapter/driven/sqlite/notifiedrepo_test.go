package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifiedRepo_AddAndListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotifiedRepo(db)
	ctx := context.Background()

	urls, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)

	require.NoError(t, repo.Add(ctx, "https://github.com/acme/widgets/pull/1"))
	require.NoError(t, repo.Add(ctx, "https://github.com/acme/widgets/pull/2"))

	urls, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"https://github.com/acme/widgets/pull/1",
		"https://github.com/acme/widgets/pull/2",
	}, urls)
}

func TestNotifiedRepo_AddIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotifiedRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "https://github.com/acme/widgets/pull/1"))
	require.NoError(t, repo.Add(ctx, "https://github.com/acme/widgets/pull/1"))

	urls, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, urls, 1)
}
