package history

import (
	"context"

	"github.com/GOLDhjy/GCompare/internal/compare"
	"github.com/GOLDhjy/GCompare/internal/logging"
)

// API exposes history browsing to the frontend via Wails binding.
type API struct {
	svc *Service
	log logging.Logger
}

func NewAPI(svc *Service, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{svc: svc, log: logger}
}

// LoadHistory fetches the revision list for one side (0 = original,
// 1 = modified) and marks it as the history source.
func (a *API) LoadHistory(side int) (*FileHistory, error) {
	return a.svc.LoadForSide(context.Background(), compare.Side(side))
}

// CompareRevision substitutes the history-source side with a revision.
func (a *API) CompareRevision(revisionID string) error {
	return a.svc.Compare(context.Background(), revisionID)
}

// RestoreWorkingCopy undoes the revision substitution.
func (a *API) RestoreWorkingCopy() error {
	return a.svc.Restore()
}

// ToggleHistorySide moves the history session to the other slot.
func (a *API) ToggleHistorySide() (*FileHistory, error) {
	return a.svc.ToggleSide(context.Background())
}
