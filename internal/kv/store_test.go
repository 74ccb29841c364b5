package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/joestump/animeshelf/internal/kv"
	"github.com/joestump/animeshelf/internal/testutil"
)

// exerciseStore runs the shared Store contract against one backend.
func exerciseStore(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, kv.KeyUsers, `[{"email":"a@example.com"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, kv.KeyUsers)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `[{"email":"a@example.com"}]` {
		t.Errorf("Get = %q", got)
	}

	// Overwrite replaces the previous value.
	if err := s.Set(ctx, kv.KeyUsers, `[]`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err = s.Get(ctx, kv.KeyUsers)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if got != `[]` {
		t.Errorf("Get after overwrite = %q, want []", got)
	}

	if err := s.Remove(ctx, kv.KeyUsers); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get(ctx, kv.KeyUsers); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get after Remove err = %v, want ErrNotFound", err)
	}

	// Removing an absent key is not an error.
	if err := s.Remove(ctx, "never-set"); err != nil {
		t.Errorf("Remove(absent): %v", err)
	}
}

func TestSQLStore(t *testing.T) {
	exerciseStore(t, kv.NewSQLStore(testutil.NewTestDB(t)))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, kv.NewMemoryStore())
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := kv.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("Set err = %v, want context.Canceled", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get err = %v, want context.Canceled", err)
	}
}

func TestSQLStore_KeysAreIndependent(t *testing.T) {
	s := kv.NewSQLStore(testutil.NewTestDB(t))
	ctx := context.Background()

	for key, value := range map[string]string{
		kv.KeySession:    `{"email":"a@example.com"}`,
		kv.KeyUsers:      `[]`,
		kv.KeyFavourites: `[{"mal_id":1}]`,
	} {
		if err := s.Set(ctx, key, value); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}

	if err := s.Remove(ctx, kv.KeySession); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got, err := s.Get(ctx, kv.KeyFavourites); err != nil || got != `[{"mal_id":1}]` {
		t.Errorf("favourites = %q, %v", got, err)
	}
	if got, err := s.Get(ctx, kv.KeyUsers); err != nil || got != `[]` {
		t.Errorf("users = %q, %v", got, err)
	}
}
