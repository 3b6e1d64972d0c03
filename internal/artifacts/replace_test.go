package artifacts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplace_DeletesOldAfterCommit(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	oldToken, err := store.Put(ctx, testKind, []byte{1})
	require.NoError(t, err)

	var committed string
	newToken, err := Replace(ctx, store, testKind, oldToken, []byte{2}, func(ctx context.Context, token string) error {
		exists, err := store.Exists(ctx, testKind, oldToken)
		require.NoError(t, err)
		assert.True(t, exists, "old artifact must survive until commit returns")
		committed = token
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, committed, newToken)
	assert.NotEqual(t, oldToken, newToken)

	exists, err := store.Exists(ctx, testKind, oldToken)
	require.NoError(t, err)
	assert.False(t, exists)

	data, err := store.Get(ctx, testKind, newToken)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, data)
}

func TestReplace_CommitFailureKeepsOld(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	oldToken, err := store.Put(ctx, testKind, []byte{1})
	require.NoError(t, err)

	commitErr := errors.New("commit failed")
	var attempted string
	_, err = Replace(ctx, store, testKind, oldToken, []byte{2}, func(ctx context.Context, token string) error {
		attempted = token
		return commitErr
	})
	assert.ErrorIs(t, err, commitErr)

	data, err := store.Get(ctx, testKind, oldToken)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)

	exists, err := store.Exists(ctx, testKind, attempted)
	require.NoError(t, err)
	assert.False(t, exists, "new artifact should be discarded")
}

func TestReplace_PutFailureSkipsCommit(t *testing.T) {
	store, _ := newTestLocalStore(t)

	called := false
	_, err := Replace(context.Background(), store, "bad/kind", "", []byte{2}, func(ctx context.Context, token string) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestReplace_WithoutOldToken(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	token, err := Replace(ctx, store, testKind, "", []byte{3}, func(context.Context, string) error { return nil })
	require.NoError(t, err)

	exists, err := store.Exists(ctx, testKind, token)
	require.NoError(t, err)
	assert.True(t, exists)
}
