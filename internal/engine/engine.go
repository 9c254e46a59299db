// Package engine is the pointer-driven interaction state machine. It owns a
// single current gesture, turns pointer events into store commits, and keeps
// the store's geometric invariants by scheduling repair for the next turn
// after a commit rather than running it inline.
package engine

import (
	"montage-cli/internal/geom"
	"montage-cli/internal/model"
	"montage-cli/internal/selection"
	"montage-cli/internal/store"
)

// ReportFunc is the persistence/sync reporting hook: every committed
// mutation is reported through it exactly once. Preview frames are never
// reported.
type ReportFunc func(typ, entityID string, payload any)

type Engine struct {
	db  *store.DB
	sel *selection.Selection

	report        ReportFunc
	snapThreshold int64

	// gesture is the whole machine state: nil means Idle. Every pointer
	// event reads it anew; handlers never act on a value captured at
	// gesture start.
	gesture *gestureState

	// pendingCompact is flushed by Settle on the turn after the commit that
	// scheduled it, so the commit itself observes a consistent pre-repair
	// state.
	pendingCompact map[string]bool

	revision uint64
	dirty    bool
}

func New(db *store.DB, report ReportFunc) *Engine {
	if report == nil {
		report = func(string, string, any) {}
	}
	return &Engine{
		db:             db,
		sel:            selection.New(),
		report:         report,
		snapThreshold:  model.SnapThresholdMs,
		pendingCompact: map[string]bool{},
	}
}

func (e *Engine) DB() *store.DB { return e.db }

func (e *Engine) Selection() *selection.Selection { return e.sel }

// SetSnapThreshold overrides the default 50 ms snap window.
func (e *Engine) SetSnapThreshold(ms int64) {
	if ms > 0 {
		e.snapThreshold = ms
	}
}

// SetZoom clamps and applies the view scale. View state, not geometry: no
// event is reported.
func (e *Engine) SetZoom(z float64) {
	e.db.Zoom = geom.ClampZoom(z)
	e.bump()
}

// Active reports the current gesture kind, GestureNone when idle.
func (e *Engine) Active() GestureKind {
	if e.gesture == nil {
		return GestureNone
	}
	return e.gesture.kind
}

// scheduleCompact marks a track for repair on the next turn. Only video
// tracks ever need it.
func (e *Engine) scheduleCompact(trackID string) {
	if trackID == "" {
		return
	}
	if e.db.TrackType(trackID) == model.ClipVideo {
		e.pendingCompact[trackID] = true
	}
}

// ScheduleCompact marks a track for repair on the next Settle. The outer
// layer calls it after deletes that leave a gap behind.
func (e *Engine) ScheduleCompact(trackID string) {
	e.scheduleCompact(trackID)
}

// Settle flushes scheduled compaction. Callers run it once per turn, after
// the event handler that committed the triggering mutation has returned.
func (e *Engine) Settle() {
	if len(e.pendingCompact) == 0 {
		return
	}
	tracks := e.pendingCompact
	e.pendingCompact = map[string]bool{}
	for tid := range tracks {
		if store.CompactTrack(e.db, tid) {
			e.report("track.compact", tid, nil)
			e.markDirty()
		}
	}
}

// Dirty reports whether committed state changed since the last ClearDirty;
// the outer layer uses it to decide when to persist.
func (e *Engine) Dirty() bool { return e.dirty }

func (e *Engine) ClearDirty() { e.dirty = false }

func (e *Engine) markDirty() {
	e.dirty = true
	e.bump()
}

func (e *Engine) bump() { e.revision++ }
