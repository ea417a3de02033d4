package watchers

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/GOLDhjy/GCompare/internal/compare"
)

type changeRecorder struct {
	mu      sync.Mutex
	changes []compare.Side
}

func (c *changeRecorder) record(side compare.Side, _ string) {
	c.mu.Lock()
	c.changes = append(c.changes, side)
	c.mu.Unlock()
}

func (c *changeRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.changes)
}

func TestMatchesTarget(t *testing.T) {
	cases := []struct {
		event, target string
		want          bool
	}{
		{"/tmp/dir/file.txt", "/tmp/dir/file.txt", true},
		{"/tmp/dir//file.txt", "/tmp/dir/file.txt", true},
		{"/tmp/dir/other.txt", "/tmp/dir/file.txt", false},
		{"", "/tmp/dir/file.txt", false},
		{"/tmp/dir/file.txt", "", false},
	}
	for _, tc := range cases {
		if got := matchesTarget(tc.event, tc.target); got != tc.want {
			t.Fatalf("matchesTarget(%q, %q) = %v, want %v", tc.event, tc.target, got, tc.want)
		}
	}
}

func TestExternalWriteIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	rec := &changeRecorder{}
	svc := New(rec.record)
	svc.SetDebounce(20 * time.Millisecond)
	defer svc.Stop()

	svc.Point(compare.SideA, path)

	// Sibling files must not trigger a notice.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}
	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("change never reported")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if rec.count() != 1 {
		t.Fatalf("got %d notices, want 1 (debounced, target-filtered)", rec.count())
	}
}

func TestPointEmptyPathDropsWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	rec := &changeRecorder{}
	svc := New(rec.record)
	svc.SetDebounce(10 * time.Millisecond)
	defer svc.Stop()

	svc.Point(compare.SideA, path)
	svc.Point(compare.SideA, "") // side went virtual

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if rec.count() != 0 {
		t.Fatalf("dropped watch still reported %d changes", rec.count())
	}
}
