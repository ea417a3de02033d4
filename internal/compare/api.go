package compare

import (
	"context"
	"fmt"
	"os"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/GOLDhjy/GCompare/internal/logging"
	"github.com/GOLDhjy/GCompare/internal/recents"
)

// API exposes slot operations to the frontend via Wails binding.
type API struct {
	engine  *Engine
	recents *recents.Service
	ctxFn   func() context.Context
	log     logging.Logger
}

func NewAPI(engine *Engine, recentsSvc *recents.Service, ctxProvider func() context.Context, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{engine: engine, recents: recentsSvc, ctxFn: ctxProvider, log: logger}
}

// SlotsDTO mirrors both sides for frontend binding.
type SlotsDTO struct {
	Original Slot `json:"original"`
	Modified Slot `json:"modified"`
}

func (a *API) GetSlots() SlotsDTO {
	left, right := a.engine.Slots()
	return SlotsDTO{Original: left, Modified: right}
}

// OpenPaths places manually picked paths (file dialog, recents shortcut).
// A single path goes through slot resolution; a pair fills left then right.
func (a *API) OpenPaths(paths []string) SlotsDTO {
	a.applyAndRecord(paths, OriginOpen, nil)
	return a.GetSlots()
}

// OpenDropped places dropped paths. A single path inside the diff view lands
// on the half it was dropped over; x and midpoint come from the frontend,
// midpoint <= 0 means the drop was outside the view and resolution applies.
func (a *API) OpenDropped(paths []string, x, midpoint float64) SlotsDTO {
	var preferred *Side
	if len(paths) == 1 && midpoint > 0 {
		side := ResolvePreferredSide(x, midpoint)
		preferred = &side
	}
	a.applyAndRecord(paths, OriginDrop, preferred)
	return a.GetSlots()
}

// OpenQueued is the flush target for the OS open-with queue.
func (a *API) OpenQueued(paths []string) {
	a.applyAndRecord(paths, OriginOpen, nil)
}

func (a *API) applyAndRecord(paths []string, origin Origin, preferred *Side) {
	result := a.engine.ApplyBatch(context.Background(), paths, origin, preferred)
	if result.Loaded > 0 && a.recents != nil {
		left, right := a.engine.Slots()
		if left.Source.Path != "" || right.Source.Path != "" {
			if err := a.recents.Record(context.Background(), left.Source.Path, right.Source.Path); err != nil {
				a.log.Warn("record recent failed", "error", err)
			}
		}
	}
	a.emitSlotsUpdated()
}

// UpdateContent tracks editor keystrokes for one side (0 = original,
// 1 = modified).
func (a *API) UpdateContent(side int, content string) {
	a.engine.UpdateContent(Side(side), content)
}

// ClearSide empties a side back to untitled.
func (a *API) ClearSide(side int) SlotsDTO {
	a.engine.SetSideContent(Side(side), "", SourceRef{})
	a.emitSlotsUpdated()
	return a.GetSlots()
}

// SaveSide writes a side's content back to its file. Only slots backed by a
// real path can be saved; virtual revisions and untitled slots cannot.
func (a *API) SaveSide(side int) error {
	slot := a.engine.Slot(Side(side))
	if slot.Source.Path == "" {
		return fmt.Errorf("%s side has no file to save to", Side(side))
	}
	if err := os.WriteFile(slot.Source.Path, []byte(slot.Content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", slot.Source.Display(), err)
	}
	return nil
}

// ReloadSide re-reads a side's file after an external change notice.
func (a *API) ReloadSide(side int) (SlotsDTO, error) {
	s := Side(side)
	slot := a.engine.Slot(s)
	if slot.Source.Path == "" {
		return a.GetSlots(), fmt.Errorf("%s side has no file to reload", s)
	}
	a.engine.ApplyBatch(context.Background(), []string{slot.Source.Path}, OriginOpen, &s)
	a.emitSlotsUpdated()
	return a.GetSlots(), nil
}

func (a *API) emitSlotsUpdated() {
	if a.ctxFn == nil {
		return
	}
	ctx := a.ctxFn()
	if ctx == nil {
		return
	}
	wailsruntime.EventsEmit(ctx, "gcompare://slots-updated", a.GetSlots())
}
