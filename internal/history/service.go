package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/GOLDhjy/GCompare/internal/compare"
	"github.com/GOLDhjy/GCompare/internal/logging"
)

// Service owns the active history session: which slot supplies history, the
// fetched revision list, and the working copy saved before the first
// substitution so it can be restored.
type Service struct {
	mu       sync.Mutex
	registry *Registry
	engine   *compare.Engine
	log      logging.Logger

	provider Provider
	history  *FileHistory
	srcSide  compare.Side
	saved    *compare.Slot
}

func NewService(registry *Registry, engine *compare.Engine, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{registry: registry, engine: engine, log: logger}
}

// LoadForSide designates side as the history source and fetches its revision
// list. The side must hold a real file; virtual revisions cannot supply
// history again.
func (s *Service) LoadForSide(ctx context.Context, side compare.Side) (*FileHistory, error) {
	slot := s.engine.Slot(side)
	if slot.Source.Path == "" {
		return nil, fmt.Errorf("%s side has no file on disk", side)
	}
	provider, _, err := s.registry.Resolve(ctx, slot.Source.Path)
	if err != nil {
		return nil, err
	}
	h, err := provider.Log(ctx, slot.Source.Path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.provider = provider
	s.history = h
	s.srcSide = side
	s.saved = nil
	s.mu.Unlock()

	s.log.Info("history loaded", "provider", provider.Name(), "path", h.RelativePath, "entries", len(h.Entries))
	return h, nil
}

// Compare substitutes the history-source side with the given revision's
// content. The first substitution saves the working copy for later restore.
func (s *Service) Compare(ctx context.Context, revisionID string) error {
	s.mu.Lock()
	provider := s.provider
	h := s.history
	side := s.srcSide
	s.mu.Unlock()
	if provider == nil || h == nil {
		return fmt.Errorf("no history loaded")
	}

	content, err := provider.FileAt(ctx, h.RepoRoot, revisionID, h.RelativePath)
	if err != nil {
		return err
	}
	content = compare.Normalize(content)

	s.mu.Lock()
	if s.saved == nil {
		slot := s.engine.Slot(side)
		s.saved = &slot
	}
	s.mu.Unlock()

	s.engine.CompareRevision(side, content, Label(provider.Name(), revisionID, h.RelativePath))
	return nil
}

// Restore puts the saved working copy back on the history-source side.
func (s *Service) Restore() error {
	s.mu.Lock()
	saved := s.saved
	side := s.srcSide
	s.saved = nil
	s.mu.Unlock()
	if saved == nil {
		return fmt.Errorf("nothing to restore")
	}
	s.engine.SetSideContent(side, saved.Content, saved.Source)
	return nil
}

// ToggleSide moves the history session to the other slot: the current source
// side gets its working copy back, then the opposite side becomes the source.
// The new side must hold a real file, and the revision list is refetched for
// it.
func (s *Service) ToggleSide(ctx context.Context) (*FileHistory, error) {
	s.mu.Lock()
	if s.history == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("no history loaded")
	}
	other := s.srcSide.Other()
	s.mu.Unlock()

	if err := s.Restore(); err != nil {
		// No substitution had happened yet; nothing to put back.
		s.log.Debug("toggle without restore", "error", err)
	}
	return s.LoadForSide(ctx, other)
}

// Side reports which slot currently supplies history.
func (s *Service) Side() compare.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srcSide
}
