package recents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GOLDhjy/GCompare/internal/logging"
	"github.com/GOLDhjy/GCompare/internal/storage/catalog"
)

// maxEntries caps the recents list; older rows are pruned on insert.
const maxEntries = 20

// Service records finished slot assignments so the frontend can offer
// "recently compared" shortcuts.
type Service struct {
	repo   *catalog.Repository
	logger logging.Logger
}

func NewService(repo *catalog.Repository, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{repo: repo, logger: logger}
}

// Record remembers an opened file or pair. Virtual revisions never reach
// here; callers pass real paths only.
func (s *Service) Record(ctx context.Context, leftPath, rightPath string) error {
	if leftPath == "" && rightPath == "" {
		return errors.New("at least one path is required")
	}
	if leftPath == "" {
		leftPath, rightPath = rightPath, ""
	}
	if _, err := s.repo.UpsertRecent(ctx, leftPath, rightPath, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.repo.PruneRecents(ctx, maxEntries); err != nil {
		s.logger.Warn("prune recents failed", "error", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]catalog.RecentCompare, error) {
	return s.repo.ListRecents(ctx, maxEntries)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.DeleteRecent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("recent entry %s not found", id)
		}
		return err
	}
	return nil
}
