package main

import (
	"context"
	"embed"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/GOLDhjy/GCompare/internal/compare"
	"github.com/GOLDhjy/GCompare/internal/config"
	"github.com/GOLDhjy/GCompare/internal/history"
	"github.com/GOLDhjy/GCompare/internal/logging"
	"github.com/GOLDhjy/GCompare/internal/openqueue"
	"github.com/GOLDhjy/GCompare/internal/recents"
	"github.com/GOLDhjy/GCompare/internal/settings"
	"github.com/GOLDhjy/GCompare/internal/storage"
	"github.com/GOLDhjy/GCompare/internal/storage/catalog"
	"github.com/GOLDhjy/GCompare/internal/storage/migrate"
	"github.com/GOLDhjy/GCompare/internal/storage/sqlite"
	"github.com/GOLDhjy/GCompare/internal/ui"
	"github.com/GOLDhjy/GCompare/internal/updater"
	"github.com/GOLDhjy/GCompare/internal/watchers"
)

//go:embed all:frontend/dist
var assets embed.FS

// version is stamped at build time via -ldflags.
var version = "0.0.0-dev"

func main() {
	boot := logging.NewBootLog()
	boot.Mark("boot start")

	dataDir, err := storage.DataDir()
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, logCloser, err := logging.NewFile(dataDir, logging.ParseLevel(cfg.LogLevel), 0)
	if err != nil {
		logger = logging.NewText(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	}

	// Storage & services
	db, err := sqlite.Open(filepath.Join(dataDir, "catalog.db"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	if err := migrate.Up(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	repo := catalog.NewRepository(db)
	recentsSvc := recents.NewService(repo, logger)
	settingsSvc := settings.NewService(repo, logger)

	app := NewApp(boot, logger)

	// Slot engine + glue
	engine := compare.New(nil)
	engine.SetLogger(logger)

	uiAPI := ui.NewAPI(app.Context, logger)
	engine.SetStatus(uiAPI.Status)

	watcherSvc := watchers.New(nil)
	watcherSvc.SetLogger(logger)
	engine.SetLoadHook(watcherSvc.Point)

	compareAPI := compare.NewAPI(engine, recentsSvc, app.Context, logger)
	watcherSvc.SetEmitter(func(side compare.Side, path string) {
		if ctx := app.Context(); ctx != nil {
			wailsruntime.EventsEmit(ctx, "gcompare://file-changed", map[string]any{
				"side": int(side),
				"path": path,
			})
		}
	})

	queue := openqueue.New(compareAPI.OpenQueued, engine.ResetAlternation)
	queue.SetDelay(time.Duration(cfg.OpenDebounceMs) * time.Millisecond)
	queue.SetLogger(logger)
	app.queue = queue

	// History providers; the exec git provider answers first when the
	// binary exists, otherwise the pure-Go one takes over.
	registry := history.NewRegistry(
		history.NewGitProvider(cfg.GitBin),
		history.NewGoGitProvider(),
		history.NewP4Provider(cfg.P4Bin),
		history.NewSvnProvider(cfg.SvnBin),
	)
	historySvc := history.NewService(registry, engine, logger)
	historyAPI := history.NewAPI(historySvc, logger)

	recentsAPI := recents.NewAPI(recentsSvc, logger)
	settingsAPI := settings.NewAPI(settingsSvc, app.Context, logger)

	updSvc := updater.NewService(version, cfg.UpdateFeedURL, logger)
	updAPI := updater.NewAPI(updSvc, app.Context, uiAPI.Status, logger)

	appMenu := buildMenu(app, settingsAPI, updAPI)

	err = wails.Run(&options.App{
		Title:  "GCompare",
		Width:  1280,
		Height: 800,
		Linux: &linux.Options{
			WebviewGpuPolicy: linux.WebviewGpuPolicyAlways,
		},
		Mac: &mac.Options{
			OnFileOpen: func(path string) { queue.Enqueue([]string{path}) },
		},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 24, G: 24, B: 27, A: 1},
		Menu:             appMenu,
		DragAndDrop: &options.DragAndDrop{
			EnableFileDrop: true,
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               "com.goldhjy.gcompare",
			OnSecondInstanceLaunch: app.onSecondInstance,
		},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			// Backend drop handler; the window midpoint stands in when the
			// diff view has not reported its own bounds.
			wailsruntime.OnFileDrop(ctx, func(x, y int, paths []string) {
				w, _ := wailsruntime.WindowGetSize(ctx)
				compareAPI.OpenDropped(paths, float64(x), float64(w)/2)
			})
			if !cfg.DisableUpdates {
				go updAPI.CheckForUpdates()
			}
			boot.Mark("window ready")
		},
		OnShutdown: func(ctx context.Context) {
			watcherSvc.Stop()
			queue.Drain()
			if db != nil {
				_ = db.Close()
			}
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		Bind: []interface{}{compareAPI, historyAPI, recentsAPI, settingsAPI, uiAPI, updAPI},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}

// buildMenu assembles File / Theme / Help. Menu actions that need frontend
// state (dialogs, view focus) are forwarded as gcompare://menu events.
func buildMenu(app *App, settingsAPI *settings.API, updAPI *updater.API) *menu.Menu {
	emit := func(action string) {
		if ctx := app.Context(); ctx != nil {
			wailsruntime.EventsEmit(ctx, "gcompare://menu", action)
		}
	}

	appMenu := menu.NewMenu()

	fileMenu := appMenu.AddSubmenu("File")
	fileMenu.AddText("Open File…", keys.CmdOrCtrl("o"), func(*menu.CallbackData) { emit("open-single") })
	fileMenu.AddText("Open Two Files…", keys.Combo("o", keys.CmdOrCtrlKey, keys.ShiftKey), func(*menu.CallbackData) { emit("open-pair") })
	fileMenu.AddText("Save", keys.CmdOrCtrl("s"), func(*menu.CallbackData) { emit("save") })
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(*menu.CallbackData) {
		if ctx := app.Context(); ctx != nil {
			wailsruntime.Quit(ctx)
		}
	})

	themeMenu := appMenu.AddSubmenu("Theme")
	for _, t := range []struct{ id, label string }{
		{"system", "System"},
		{"light", "Light"},
		{"dark", "Dark"},
	} {
		id := t.id
		themeMenu.Append(menu.Radio(t.label, id == "system", nil, func(*menu.CallbackData) {
			_ = settingsAPI.SetTheme(id)
		}))
	}

	helpMenu := appMenu.AddSubmenu("Help")
	helpMenu.AddText("Check for Updates…", nil, func(*menu.CallbackData) {
		go func() { _ = updAPI.CheckForUpdates() }()
	})

	return appMenu
}
