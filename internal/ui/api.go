package ui

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/GOLDhjy/GCompare/internal/logging"
)

// API carries window-level glue: file dialogs, the status-message sink and
// clipboard access.
type API struct {
	ctxFn func() context.Context
	log   logging.Logger
}

func NewAPI(ctxProvider func() context.Context, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{ctxFn: ctxProvider, log: logger}
}

func (a *API) ctx() (context.Context, error) {
	if a.ctxFn == nil {
		return nil, fmt.Errorf("application context not initialised")
	}
	ctx := a.ctxFn()
	if ctx == nil {
		return nil, fmt.Errorf("application context not initialised")
	}
	return ctx, nil
}

// StatusMessage is the payload of gcompare://status events. TimeoutMs tells
// the frontend when to auto-clear the banner.
type StatusMessage struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	TimeoutMs int64  `json:"timeoutMs"`
}

// Status emits a transient status message. Fire and forget; before the
// window context exists the message only reaches the log.
func (a *API) Status(message string, timeout time.Duration) {
	ctx, err := a.ctx()
	if err != nil {
		a.log.Info("status (no window)", "message", message)
		return
	}
	wailsruntime.EventsEmit(ctx, "gcompare://status", StatusMessage{
		ID:        uuid.NewString(),
		Message:   message,
		TimeoutMs: timeout.Milliseconds(),
	})
}

// SelectFile shows the open-file dialog for one side. Cancel returns an
// empty string and is not an error.
func (a *API) SelectFile(title string) (string, error) {
	ctx, err := a.ctx()
	if err != nil {
		return "", err
	}
	if title == "" {
		title = "Open file"
	}
	return wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{Title: title})
}

// SelectFiles shows a multi-select dialog for picking a comparison pair.
// Cancel returns an empty slice.
func (a *API) SelectFiles(title string) ([]string, error) {
	ctx, err := a.ctx()
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = "Open files to compare"
	}
	return wailsruntime.OpenMultipleFilesDialog(ctx, wailsruntime.OpenDialogOptions{Title: title})
}

// CopyToClipboard puts text on the system clipboard.
func (a *API) CopyToClipboard(text string) error {
	ctx, err := a.ctx()
	if err != nil {
		return err
	}
	return wailsruntime.ClipboardSetText(ctx, text)
}

// RevealInFileManager opens the file's containing directory with the
// platform file manager.
func (a *API) RevealInFileManager(path string) error {
	ctx, err := a.ctx()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dir)}
	wailsruntime.BrowserOpenURL(ctx, u.String())
	return nil
}
