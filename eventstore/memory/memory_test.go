package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMarkProcessed(t *testing.T) {
	store := New()
	ctx := context.Background()

	seen, err := store.MarkProcessed(ctx, "evt_1")
	if err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}
	if seen {
		t.Error("first mark reported seen = true, want false")
	}

	seen, err = store.MarkProcessed(ctx, "evt_1")
	if err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}
	if !seen {
		t.Error("second mark reported seen = false, want true")
	}

	// A different event ID is independent.
	seen, _ = store.MarkProcessed(ctx, "evt_2")
	if seen {
		t.Error("unrelated event reported seen = true, want false")
	}
}

func TestTTLExpiry(t *testing.T) {
	store := New(WithTTL(time.Hour))

	now := time.Now()
	store.nowFunc = func() time.Time { return now }

	if seen, _ := store.MarkProcessed(context.Background(), "evt_1"); seen {
		t.Fatal("first mark reported seen")
	}

	// Within the TTL the event stays remembered.
	store.nowFunc = func() time.Time { return now.Add(30 * time.Minute) }
	if seen, _ := store.MarkProcessed(context.Background(), "evt_1"); !seen {
		t.Error("mark within TTL reported seen = false, want true")
	}

	// Past the TTL it reads as new again.
	store.nowFunc = func() time.Time { return now.Add(2 * time.Hour) }
	if seen, _ := store.MarkProcessed(context.Background(), "evt_1"); seen {
		t.Error("mark after TTL reported seen = true, want false")
	}
}

func TestLazySweep(t *testing.T) {
	store := New(WithTTL(time.Hour))

	now := time.Now()
	store.nowFunc = func() time.Time { return now }

	for i := 0; i < 500; i++ {
		store.MarkProcessed(context.Background(), fmt.Sprintf("evt_%d", i))
	}
	if got := store.Size(); got != 500 {
		t.Fatalf("Size = %d, want 500", got)
	}

	// Everything expires; the sweep fires on the 1000th mark.
	store.nowFunc = func() time.Time { return now.Add(2 * time.Hour) }
	for i := 500; i < 1000; i++ {
		store.MarkProcessed(context.Background(), fmt.Sprintf("evt_%d", i))
	}

	// Only the post-expiry marks should remain.
	if got := store.Size(); got != 500 {
		t.Errorf("Size after sweep = %d, want 500", got)
	}
}

func TestConcurrentMarks(t *testing.T) {
	store := New()

	var wg sync.WaitGroup
	firsts := make([]bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen, err := store.MarkProcessed(context.Background(), "evt_contended")
			if err != nil {
				t.Errorf("MarkProcessed failed: %v", err)
			}
			firsts[i] = !seen
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, first := range firsts {
		if first {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("%d goroutines saw the event as new, want exactly 1", winners)
	}
}
