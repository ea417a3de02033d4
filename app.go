package main

import (
	"context"
	"os"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/options"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/GOLDhjy/GCompare/internal/logging"
	"github.com/GOLDhjy/GCompare/internal/openqueue"
)

// App owns the window context and the OS-launch plumbing.
type App struct {
	mu    sync.Mutex
	ctx   context.Context
	boot  *logging.BootLog
	queue *openqueue.Queue
	log   logging.Logger
}

func NewApp(boot *logging.BootLog, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{boot: boot, log: logger}
}

// Context returns the window context once startup has run, nil before.
func (a *App) Context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// startup saves the window context and feeds any file arguments from this
// launch into the open queue.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	a.boot.Mark("startup")
	a.log.Info("startup")

	if paths := collectFileArgs(os.Args[1:]); len(paths) > 0 {
		a.queue.Enqueue(paths)
	}
}

// onSecondInstance handles a re-launch while this instance is running: the
// window is brought to front and the second launch's file arguments join the
// open queue.
func (a *App) onSecondInstance(data options.SecondInstanceData) {
	a.log.Info("second instance", "args", len(data.Args))
	ctx := a.Context()
	if ctx != nil {
		wailsruntime.WindowUnminimise(ctx)
		wailsruntime.Show(ctx)
	}
	if paths := collectFileArgs(data.Args); len(paths) > 0 {
		a.queue.Enqueue(paths)
	}
}

// collectFileArgs keeps only arguments naming existing regular files, so
// flags and stray tokens from the OS launcher are ignored.
func collectFileArgs(args []string) []string {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, arg)
	}
	return paths
}
