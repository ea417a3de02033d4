package watchers

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GOLDhjy/GCompare/internal/compare"
	"github.com/GOLDhjy/GCompare/internal/logging"
)

// Service watches the file loaded on each side and reports external
// modification so the UI can offer a reload. The parent directory is watched
// rather than the file itself, since editors commonly replace files by
// rename, which would silence a direct file watch.
type Service struct {
	mu           sync.Mutex
	watchers     map[compare.Side]*fsnotify.Watcher
	watchedFiles map[compare.Side]string
	notifyTimers map[compare.Side]*time.Timer
	onChange     func(side compare.Side, path string)
	logger       logging.Logger
	debounce     time.Duration
}

func New(onChange func(side compare.Side, path string)) *Service {
	return &Service{
		watchers:     map[compare.Side]*fsnotify.Watcher{},
		watchedFiles: map[compare.Side]string{},
		notifyTimers: map[compare.Side]*time.Timer{},
		onChange:     onChange,
		logger:       logging.Nop(),
		debounce:     200 * time.Millisecond,
	}
}

func (s *Service) SetEmitter(fn func(side compare.Side, path string)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Service) SetLogger(l logging.Logger) {
	s.mu.Lock()
	if l != nil {
		s.logger = l
	}
	s.mu.Unlock()
}

func (s *Service) SetDebounce(d time.Duration) {
	s.mu.Lock()
	if d > 0 {
		s.debounce = d
	}
	s.mu.Unlock()
}

// Point aims a side's watch at path. An empty path (virtual revision or
// untitled slot) drops the watch.
func (s *Service) Point(side compare.Side, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		s.Remove(side)
		return
	}

	s.Remove(side)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("watcher create failed", "side", side.String(), "error", err)
		return
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		s.logger.Warn("watcher add failed", "side", side.String(), "dir", dir, "error", err)
		_ = watcher.Close()
		return
	}

	s.mu.Lock()
	s.watchers[side] = watcher
	s.watchedFiles[side] = path
	s.mu.Unlock()

	go s.observe(side, watcher)
}

func (s *Service) Remove(side compare.Side) {
	s.mu.Lock()
	if t, ok := s.notifyTimers[side]; ok {
		t.Stop()
		delete(s.notifyTimers, side)
	}
	w, ok := s.watchers[side]
	if ok {
		delete(s.watchers, side)
		delete(s.watchedFiles, side)
	}
	s.mu.Unlock()
	if ok {
		_ = w.Close()
	}
}

func (s *Service) Stop() {
	s.mu.Lock()
	timers := make([]*time.Timer, 0, len(s.notifyTimers))
	for _, t := range s.notifyTimers {
		timers = append(timers, t)
	}
	ws := make([]*fsnotify.Watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		ws = append(ws, w)
	}
	s.notifyTimers = map[compare.Side]*time.Timer{}
	s.watchers = map[compare.Side]*fsnotify.Watcher{}
	s.watchedFiles = map[compare.Side]string{}
	s.mu.Unlock()
	for _, t := range timers {
		if t != nil {
			t.Stop()
		}
	}
	for _, w := range ws {
		if w != nil {
			_ = w.Close()
		}
	}
}

func (s *Service) observe(side compare.Side, w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			s.mu.Lock()
			target := s.watchedFiles[side]
			s.mu.Unlock()
			if !matchesTarget(ev.Name, target) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.schedule(side, target)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", "side", side.String(), "error", err)
		}
	}
}

// matchesTarget compares by cleaned path; directory events carry full paths.
func matchesTarget(eventPath, target string) bool {
	if eventPath == "" || target == "" {
		return false
	}
	return filepath.Clean(eventPath) == filepath.Clean(target)
}

func (s *Service) schedule(side compare.Side, path string) {
	s.mu.Lock()
	if t, ok := s.notifyTimers[side]; ok {
		t.Stop()
	}
	delay := s.debounce
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		fn := s.onChange
		if cur, ok := s.notifyTimers[side]; ok && cur == t {
			delete(s.notifyTimers, side)
		}
		s.mu.Unlock()
		if fn != nil {
			fn(side, path)
		}
	})
	s.notifyTimers[side] = t
	s.mu.Unlock()
}
