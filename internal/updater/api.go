package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/GOLDhjy/GCompare/internal/logging"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// API exposes the update check to the frontend and the Help menu.
type API struct {
	svc    *Service
	ctxFn  func() context.Context
	status func(message string, timeout time.Duration)
	log    logging.Logger
}

func NewAPI(svc *Service, ctxProvider func() context.Context, status func(string, time.Duration), logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{svc: svc, ctxFn: ctxProvider, status: status, log: logger}
}

// CheckForUpdates runs a check and reports the outcome through the status
// sink; a newer release additionally raises gcompare://update-available.
func (a *API) CheckForUpdates() error {
	release, err := a.svc.Check(context.Background())
	if err != nil {
		if a.status != nil {
			a.status("Update check failed", 5*time.Second)
		}
		a.log.Warn("update check failed", "error", err)
		return nil
	}
	if release == nil {
		if a.status != nil {
			a.status("You're on the latest version", 4*time.Second)
		}
		return nil
	}
	if a.status != nil {
		a.status(fmt.Sprintf("Version %s is available", release.TagName), 8*time.Second)
	}
	if a.ctxFn != nil {
		if ctx := a.ctxFn(); ctx != nil {
			wailsruntime.EventsEmit(ctx, "gcompare://update-available", release)
		}
	}
	return nil
}
