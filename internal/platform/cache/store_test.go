package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetMissingKey(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	if _, ok := store.Get(context.Background(), "never-set"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestStore_EntryExpiresAtDeadline(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "standings:1", []any{"row"}, 10*time.Second)

	now = now.Add(9 * time.Second)
	if _, ok := store.Get(context.Background(), "standings:1"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(time.Second)
	if _, ok := store.Get(context.Background(), "standings:1"); ok {
		t.Fatalf("expected miss at expiresAt")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, len=%d", store.Len())
	}
}

func TestStore_SetOverwritesAndRefreshesTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "old", 5*time.Second)
	now = now.Add(4 * time.Second)
	store.Set(context.Background(), "k", "new", 5*time.Second)
	now = now.Add(4 * time.Second)

	v, ok := store.Get(context.Background(), "k")
	if !ok || v != "new" {
		t.Fatalf("expected refreshed value, got %v ok=%v", v, ok)
	}
}

func TestStore_Purge(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "short", 1, time.Second)
	store.Set(context.Background(), "long", 2, time.Hour)
	store.Set(context.Background(), "forever", 3, 0)
	now = now.Add(time.Minute)

	if removed := store.Purge(context.Background()); removed != 1 {
		t.Fatalf("expected 1 purged entry, got %d", removed)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 entries left, got %d", store.Len())
	}
}

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", time.Minute, loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("upstream down")
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("unexpected value %v", v)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
