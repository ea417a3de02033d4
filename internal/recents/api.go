package recents

import (
	"context"

	"github.com/GOLDhjy/GCompare/internal/logging"
	"github.com/GOLDhjy/GCompare/internal/storage/catalog"
)

// API exposes the recents list to the frontend via Wails binding.
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

func (a *API) ListRecents() ([]catalog.RecentCompare, error) {
	return a.svc.List(context.Background())
}

func (a *API) RemoveRecent(id string) error {
	return a.svc.Remove(context.Background(), id)
}
