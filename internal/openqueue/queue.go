package openqueue

import (
	"strings"
	"sync"
	"time"

	"github.com/GOLDhjy/GCompare/internal/logging"
)

// DefaultDelay is how long the queue waits after the last arrival before
// flushing. OS "open with" launches deliver a multi-file selection as rapid
// single-path events; the window turns them back into one batch.
const DefaultDelay = 250 * time.Millisecond

// Queue accumulates OS-delivered file paths and flushes them as one batch
// once arrivals go quiet. A single pending timer is re-armed per arrival.
type Queue struct {
	mu      sync.Mutex
	pending []string
	timer   *time.Timer
	delay   time.Duration
	flush   func(paths []string)
	onFirst func()
	log     logging.Logger
}

// New creates a queue delivering accumulated paths to flush. onFirst fires
// when a previously-empty queue begins accumulating (used to reset slot
// alternation so a fresh launch prefers the left side).
func New(flush func(paths []string), onFirst func()) *Queue {
	return &Queue{delay: DefaultDelay, flush: flush, onFirst: onFirst, log: logging.Nop()}
}

func (q *Queue) SetDelay(d time.Duration) {
	q.mu.Lock()
	if d > 0 {
		q.delay = d
	}
	q.mu.Unlock()
}

func (q *Queue) SetLogger(l logging.Logger) {
	q.mu.Lock()
	if l != nil {
		q.log = l
	}
	q.mu.Unlock()
}

// Enqueue appends paths and (re)arms the flush timer. Blank entries are
// dropped. Safe to call from any goroutine; second-instance launches arrive
// off the main thread.
func (q *Queue) Enqueue(paths []string) {
	cleaned := paths[:0:0]
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return
	}

	q.mu.Lock()
	wasEmpty := len(q.pending) == 0
	q.pending = append(q.pending, cleaned...)
	if q.timer != nil {
		q.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(q.delay, func() { q.fire(t) })
	q.timer = t
	onFirst := q.onFirst
	q.log.Debug("open paths enqueued", "count", len(cleaned), "queued", len(q.pending))
	q.mu.Unlock()

	if wasEmpty && onFirst != nil {
		onFirst()
	}
}

func (q *Queue) fire(t *time.Timer) {
	q.mu.Lock()
	if q.timer != t {
		// A later arrival re-armed the window; that timer owns the flush.
		q.mu.Unlock()
		return
	}
	paths := q.pending
	q.pending = nil
	q.timer = nil
	flush := q.flush
	q.mu.Unlock()

	if len(paths) > 0 && flush != nil {
		flush(paths)
	}
}

// Drain returns and clears whatever is queued without waiting for the timer.
// Used at shutdown and by tests.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	paths := q.pending
	q.pending = nil
	return paths
}
