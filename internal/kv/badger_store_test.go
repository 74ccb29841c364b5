package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joestump/animeshelf/internal/kv"
)

func TestBadgerStore_InMemory(t *testing.T) {
	s, err := kv.NewBadgerStore(kv.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := kv.NewBadgerStore(kv.BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, kv.KeyFavourites, `[{"mal_id":5114}]`))
	require.NoError(t, s.Close())

	reopened, err := kv.NewBadgerStore(kv.BadgerConfig{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, kv.KeyFavourites)
	require.NoError(t, err)
	require.Equal(t, `[{"mal_id":5114}]`, got)
}

func TestBadgerStore_RequiresPath(t *testing.T) {
	_, err := kv.NewBadgerStore(kv.BadgerConfig{})
	require.Error(t, err)
}
