package settings

import (
	"context"

	"github.com/GOLDhjy/GCompare/internal/logging"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// API exposes preferences to the frontend and re-broadcasts theme changes so
// the menu and every window region stay consistent.
type API struct {
	svc   *Service
	ctxFn func() context.Context
	log   logging.Logger
}

func NewAPI(svc *Service, ctxProvider func() context.Context, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{svc: svc, ctxFn: ctxProvider, log: logger}
}

func (a *API) GetTheme() (string, error) {
	return a.svc.Theme(context.Background())
}

func (a *API) SetTheme(theme string) error {
	if err := a.svc.SetTheme(context.Background(), theme); err != nil {
		return err
	}
	if a.ctxFn != nil {
		if ctx := a.ctxFn(); ctx != nil {
			wailsruntime.EventsEmit(ctx, "gcompare://set-theme", theme)
		}
	}
	return nil
}

func (a *API) GetBool(key string, fallback bool) (bool, error) {
	return a.svc.Bool(context.Background(), key, fallback)
}

func (a *API) SetBool(key string, value bool) error {
	return a.svc.SetBool(context.Background(), key, value)
}
