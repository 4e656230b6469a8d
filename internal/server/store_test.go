package server

import (
	"context"
	"path/filepath"
	"testing"

	"todos-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.Create(ctx, model.Task{UserID: 1, Title: "A"})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)

	b, err := s.Create(ctx, model.Task{UserID: 1, Title: "B", Completed: true})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.Task{UserID: 2, Title: "other user"})
	require.NoError(t, err)

	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{a, b}, list)

	up, err := s.Update(ctx, a.ID, model.CompletedPatch(true))
	require.NoError(t, err)
	assert.True(t, up.Completed)
	assert.Equal(t, "A", up.Title)

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_UnknownIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Update(ctx, 999, model.TitlePatch("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 999), ErrNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "todos.sqlite")

	s1, err := OpenStore(ctx, path)
	require.NoError(t, err)
	created, err := s1.Create(ctx, model.Task{UserID: 3, Title: "persist me"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := OpenStore(ctx, path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}
