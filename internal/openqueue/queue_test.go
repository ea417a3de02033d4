package openqueue

import (
	"sync"
	"testing"
	"time"
)

type flushRecorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (f *flushRecorder) flush(paths []string) {
	f.mu.Lock()
	f.batches = append(f.batches, paths)
	f.mu.Unlock()
}

func (f *flushRecorder) snapshot() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.batches))
	copy(out, f.batches)
	return out
}

func TestDebounceCoalescesRapidArrivals(t *testing.T) {
	rec := &flushRecorder{}
	q := New(rec.flush, nil)
	q.SetDelay(30 * time.Millisecond)

	q.Enqueue([]string{"p1"})
	time.Sleep(10 * time.Millisecond)
	q.Enqueue([]string{"p2"})

	deadline := time.Now().Add(time.Second)
	for {
		if batches := rec.snapshot(); len(batches) > 0 {
			if len(batches) != 1 {
				t.Fatalf("got %d flushes, want 1", len(batches))
			}
			got := batches[0]
			if len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
				t.Fatalf("flushed %v, want [p1 p2]", got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("queue never flushed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSeparatedArrivalsFlushSeparately(t *testing.T) {
	rec := &flushRecorder{}
	q := New(rec.flush, nil)
	q.SetDelay(20 * time.Millisecond)

	q.Enqueue([]string{"p1"})
	time.Sleep(80 * time.Millisecond)
	q.Enqueue([]string{"p2"})
	time.Sleep(80 * time.Millisecond)

	batches := rec.snapshot()
	if len(batches) != 2 {
		t.Fatalf("got %d flushes, want 2: %v", len(batches), batches)
	}
	if batches[0][0] != "p1" || batches[1][0] != "p2" {
		t.Fatalf("flush order wrong: %v", batches)
	}
}

func TestOnFirstFiresOncePerAccumulation(t *testing.T) {
	rec := &flushRecorder{}
	var mu sync.Mutex
	resets := 0
	q := New(rec.flush, func() {
		mu.Lock()
		resets++
		mu.Unlock()
	})
	q.SetDelay(20 * time.Millisecond)

	q.Enqueue([]string{"p1"})
	q.Enqueue([]string{"p2"}) // same accumulation window
	time.Sleep(80 * time.Millisecond)
	q.Enqueue([]string{"p3"}) // fresh accumulation
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if resets != 2 {
		t.Fatalf("onFirst fired %d times, want 2", resets)
	}
}

func TestEnqueueDropsBlankEntries(t *testing.T) {
	rec := &flushRecorder{}
	q := New(rec.flush, nil)
	q.SetDelay(10 * time.Millisecond)

	q.Enqueue([]string{"", "  "})
	time.Sleep(50 * time.Millisecond)
	if batches := rec.snapshot(); len(batches) != 0 {
		t.Fatalf("blank-only enqueue flushed %v", batches)
	}
}

func TestDrainCancelsPendingFlush(t *testing.T) {
	rec := &flushRecorder{}
	q := New(rec.flush, nil)
	q.SetDelay(30 * time.Millisecond)

	q.Enqueue([]string{"p1", "p2"})
	got := q.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain = %v, want both paths", got)
	}
	time.Sleep(80 * time.Millisecond)
	if batches := rec.snapshot(); len(batches) != 0 {
		t.Fatalf("flush ran after Drain: %v", batches)
	}
}
