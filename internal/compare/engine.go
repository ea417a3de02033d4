package compare

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/GOLDhjy/GCompare/internal/logging"
)

// Side identifies one of the two comparison slots.
type Side int

const (
	SideA Side = iota // left, "original"
	SideB             // right, "modified"
)

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "original"
	}
	return "modified"
}

// SourceRef records where a slot's content came from: a real filesystem path,
// a synthesized revision label ("<provider>:<revision>:<path>"), or neither
// (untitled). Path and Virtual are mutually exclusive.
type SourceRef struct {
	Path    string `json:"path,omitempty"`
	Virtual string `json:"virtual,omitempty"`
}

func (r SourceRef) IsZero() bool { return r.Path == "" && r.Virtual == "" }

// Display returns a human-readable name for status messages and the title bar.
func (r SourceRef) Display() string {
	switch {
	case r.Virtual != "":
		return r.Virtual
	case r.Path != "":
		return filepath.Base(r.Path)
	default:
		return "untitled"
	}
}

// Slot is one comparison side. Occupied is set by any successful content
// assignment and survives failed overwrites.
type Slot struct {
	Content  string    `json:"content"`
	Source   SourceRef `json:"source"`
	Occupied bool      `json:"occupied"`
}

// Origin tags how a batch of paths arrived.
type Origin string

const (
	OriginDrop Origin = "drop"
	OriginOpen Origin = "open"
)

// LargeFileThreshold is the byte size at or above which a successful load is
// flagged in the batch result.
const LargeFileThreshold = 2 << 20

// Loader reads a file's raw bytes. Any error is treated uniformly as a load
// failure.
type Loader func(ctx context.Context, path string) ([]byte, error)

// StatusFunc delivers a transient user-facing message. Fire and forget.
type StatusFunc func(message string, timeout time.Duration)

// LoadHook observes successful real-file loads so collaborators (watchers,
// recents) can react. path is empty when a side goes virtual or untitled.
type LoadHook func(side Side, path string)

// BatchResult summarizes one ApplyBatch call. Partial success is a valid
// outcome, not an error.
type BatchResult struct {
	Loaded int
	Failed int
	Large  []Side
}

// Engine owns the two comparison slots and decides which slot each incoming
// file lands in. All state changes happen under one mutex so concurrent load
// completions collapse onto a single logical timeline.
type Engine struct {
	mu     sync.Mutex
	slots  [2]Slot
	next   Side
	loader Loader
	status StatusFunc
	onLoad LoadHook
	log    logging.Logger
}

func New(loader Loader) *Engine {
	if loader == nil {
		loader = ReadFile
	}
	return &Engine{loader: loader, next: SideA, log: logging.Nop()}
}

func (e *Engine) SetStatus(fn StatusFunc) {
	e.mu.Lock()
	e.status = fn
	e.mu.Unlock()
}

func (e *Engine) SetLoadHook(fn LoadHook) {
	e.mu.Lock()
	e.onLoad = fn
	e.mu.Unlock()
}

func (e *Engine) SetLogger(l logging.Logger) {
	e.mu.Lock()
	if l != nil {
		e.log = l
	}
	e.mu.Unlock()
}

// Slot returns a copy of one side's state.
func (e *Engine) Slot(side Side) Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slots[side]
}

// Slots returns copies of both sides for frontend binding.
func (e *Engine) Slots() (Slot, Slot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slots[SideA], e.slots[SideB]
}

// ResolveSingleSlot picks the target for a single incoming file with no side
// preference: the empty side when exactly one side is empty, otherwise the
// alternation pointer, which flips only on this path.
func (e *Engine) ResolveSingleSlot() Side {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveSingleLocked()
}

func (e *Engine) resolveSingleLocked() Side {
	a := e.slots[SideA].Occupied
	b := e.slots[SideB].Occupied
	switch {
	case !a && b:
		// The pointer is consumed when it was aiming at the side the
		// fill-empty rule picked anyway; otherwise it keeps its target, so
		// alternation resumes where it left off.
		if e.next == SideA {
			e.next = SideB
		}
		return SideA
	case !b && a:
		if e.next == SideB {
			e.next = SideA
		}
		return SideB
	default:
		side := e.next
		e.next = side.Other()
		return side
	}
}

// ResolvePreferredSide maps a horizontal drop coordinate to a side by
// comparing against the diff view's midpoint.
func ResolvePreferredSide(x, midpoint float64) Side {
	if x < midpoint {
		return SideA
	}
	return SideB
}

// ResetAlternation points the alternation pointer back at SideA. Called when
// a previously-empty open queue begins accumulating, so a fresh OS launch
// prefers the left side absent other signals.
func (e *Engine) ResetAlternation() {
	e.mu.Lock()
	e.next = SideA
	e.mu.Unlock()
}

type batchTarget struct {
	path        string
	side        Side
	wasOccupied bool
}

// ApplyBatch places one or two paths into slots and loads them. Entries past
// the second are discarded. Slots are reserved synchronously before any load
// starts so a concurrent single-file open cannot claim a half-reserved slot;
// a failed load rolls occupancy back only when the slot was empty before.
func (e *Engine) ApplyBatch(ctx context.Context, paths []string, origin Origin, preferred *Side) BatchResult {
	if len(paths) == 0 {
		return BatchResult{}
	}
	if len(paths) > 2 {
		paths = paths[:2]
	}

	e.mu.Lock()
	targets := make([]batchTarget, 0, 2)
	if len(paths) == 1 {
		side := SideA
		if preferred != nil {
			side = *preferred
		} else {
			side = e.resolveSingleLocked()
		}
		targets = append(targets, batchTarget{paths[0], side, e.slots[side].Occupied})
	} else {
		first := SideA
		if preferred != nil {
			first = *preferred
		}
		targets = append(targets,
			batchTarget{paths[0], first, e.slots[first].Occupied},
			batchTarget{paths[1], first.Other(), e.slots[first.Other()].Occupied})
	}
	for _, t := range targets {
		e.slots[t.side].Occupied = true
	}
	e.mu.Unlock()

	type loadOutcome struct {
		text string
		size int64
		err  error
	}
	outcomes := make([]loadOutcome, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t batchTarget) {
			defer wg.Done()
			raw, err := e.loader(ctx, t.path)
			if err != nil {
				outcomes[i] = loadOutcome{err: err}
				return
			}
			text, err := Decode(raw)
			if err != nil {
				outcomes[i] = loadOutcome{err: fmt.Errorf("decode %s: %w", filepath.Base(t.path), err)}
				return
			}
			outcomes[i] = loadOutcome{text: Normalize(text), size: int64(len(raw))}
		}(i, t)
	}
	wg.Wait()

	var result BatchResult
	var failed []string
	var hooks []batchTarget
	e.mu.Lock()
	for i, t := range targets {
		out := outcomes[i]
		if out.err != nil {
			if !t.wasOccupied {
				e.slots[t.side].Occupied = false
			}
			result.Failed++
			failed = append(failed, filepath.Base(t.path))
			e.log.Warn("load failed", "path", t.path, "side", t.side.String(), "origin", string(origin), "error", out.err)
			continue
		}
		e.slots[t.side] = Slot{Content: out.text, Source: SourceRef{Path: t.path}, Occupied: true}
		result.Loaded++
		if out.size >= LargeFileThreshold {
			result.Large = append(result.Large, t.side)
		}
		hooks = append(hooks, t)
	}
	hook := e.onLoad
	e.mu.Unlock()

	if hook != nil {
		for _, t := range hooks {
			hook(t.side, t.path)
		}
	}
	e.report(result, len(targets), failed)
	return result
}

func (e *Engine) report(result BatchResult, total int, failed []string) {
	e.mu.Lock()
	status := e.status
	e.mu.Unlock()
	if status == nil {
		return
	}
	var parts []string
	switch {
	case result.Failed == 0 && total > 1:
		parts = append(parts, fmt.Sprintf("Opened %d files", result.Loaded))
	case result.Failed == 0:
		// single successful open needs no banner unless the file is large
	case result.Loaded > 0:
		parts = append(parts, fmt.Sprintf("Opened %d of %d files (failed: %s)", result.Loaded, total, strings.Join(failed, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Failed to open %s", strings.Join(failed, ", ")))
	}
	for _, side := range result.Large {
		parts = append(parts, fmt.Sprintf("Large file on %s side; diffing may be slow", side))
	}
	if len(parts) == 0 {
		return
	}
	timeout := 4 * time.Second
	if result.Failed > 0 {
		timeout = 8 * time.Second
	}
	status(strings.Join(parts, ". "), timeout)
}

// SetSideContent assigns content directly, used by the history feature to
// substitute a revision or restore working content. Occupancy follows whether
// a source is present.
func (e *Engine) SetSideContent(side Side, content string, source SourceRef) {
	e.mu.Lock()
	e.slots[side] = Slot{Content: content, Source: source, Occupied: !source.IsZero()}
	hook := e.onLoad
	e.mu.Unlock()
	if hook != nil {
		hook(side, source.Path)
	}
}

// UpdateContent tracks in-editor edits so a later history swap moves the text
// the user actually sees. Occupancy and provenance are untouched.
func (e *Engine) UpdateContent(side Side, content string) {
	e.mu.Lock()
	e.slots[side].Content = content
	e.mu.Unlock()
}

// CompareRevision places revision content on the history-source side and
// moves that side's working content to the other side, unless the other side
// is independently showing an unrelated real file. The "overwrote" note fires
// only when the move replaced existing content.
func (e *Engine) CompareRevision(src Side, content, label string) {
	other := src.Other()

	e.mu.Lock()
	working := e.slots[src]
	prev := e.slots[other]
	unrelated := prev.Occupied && prev.Source.Path != "" && prev.Source.Path != working.Source.Path
	moved := false
	overwrote := false
	if !unrelated {
		overwrote = prev.Occupied
		e.slots[other] = working
		moved = true
	}
	e.slots[src] = Slot{Content: content, Source: SourceRef{Virtual: label}, Occupied: true}
	status := e.status
	hook := e.onLoad
	e.mu.Unlock()

	if hook != nil {
		hook(src, "")
		if moved {
			hook(other, working.Source.Path)
		}
	}
	if overwrote && status != nil {
		status(fmt.Sprintf("Moved working copy to %s side, replacing %s", other, prev.Source.Display()), 5*time.Second)
	}
}
