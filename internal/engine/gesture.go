package engine

import (
	"montage-cli/internal/geom"
	"montage-cli/internal/perm"
	"montage-cli/internal/selection"
)

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureDrag
	GestureResize
	GestureFade
	GestureMarquee
	GestureScrub
)

func (k GestureKind) String() string {
	switch k {
	case GestureDrag:
		return "drag"
	case GestureResize:
		return "resize"
	case GestureFade:
		return "fade"
	case GestureMarquee:
		return "marquee"
	case GestureScrub:
		return "scrub"
	}
	return "idle"
}

// Pointer is a position in timeline content coordinates: x in pixels from
// t=0, y in pixels from the top of the first track lane.
type Pointer struct {
	X float64
	Y float64
}

// HitKind says what the renderer found under the pointer at press time. The
// renderer owns layout, so it resolves the hit; the engine only classifies.
type HitKind int

const (
	HitEmpty HitKind = iota
	HitClip
	HitClipLeftEdge
	HitClipRightEdge
	HitFadeInHandle
	HitFadeOutHandle
	HitRuler
)

type Hit struct {
	Kind   HitKind
	ClipID string
}

type Modifiers struct {
	// Additive toggles clip membership instead of replacing the selection.
	Additive bool
	// Marquee forces a rubber-band selection gesture regardless of hit.
	Marquee bool
}

type resizeEdge int

const (
	edgeLeft resizeEdge = iota
	edgeRight
)

type fadeHandle int

const (
	handleFadeIn fadeHandle = iota
	handleFadeOut
)

// gestureState is created once at pointer-down and discarded at pointer-up.
type gestureState struct {
	kind  GestureKind
	start Pointer
	last  Pointer

	// drag
	grabID     string
	origStart  map[string]int64
	origTrack  map[string]string
	dragDelta  int64
	trackDelta int

	// resize
	resizeID   string
	edge       resizeEdge
	preview    *clipPreview

	// fade
	fadeID   string
	handle   fadeHandle
	fadeBase int64
	moved    bool

	// marquee
	marqueeEnd Pointer
}

// clipPreview is an uncommitted resize frame. Readers see it through
// Snapshot; it never reaches the store or the report hook.
type clipPreview struct {
	start       int64
	duration    int64
	sourceStart int64
}

// classify maps a press to a gesture. One decision point; nothing downstream
// second-guesses it.
func classify(hit Hit, mods Modifiers) GestureKind {
	if mods.Marquee {
		return GestureMarquee
	}
	switch hit.Kind {
	case HitClip:
		return GestureDrag
	case HitClipLeftEdge, HitClipRightEdge:
		return GestureResize
	case HitFadeInHandle, HitFadeOutHandle:
		return GestureFade
	case HitRuler, HitEmpty:
		return GestureScrub
	}
	return GestureNone
}

// PointerDown starts a gesture. A press while another gesture is live is
// ignored: new gestures begin only from Idle. The returned intent tells the
// caller which detail panel, if any, the click should open.
func (e *Engine) PointerDown(p Pointer, hit Hit, mods Modifiers) selection.PanelIntent {
	if e.gesture != nil {
		return selection.PanelNone
	}

	kind := classify(hit, mods)

	// Mutating gestures on a locked track degrade to a plain click: the clip
	// is still selectable, it just will not move.
	if kind == GestureDrag || kind == GestureResize || kind == GestureFade {
		if c, ok := e.db.FindClip(hit.ClipID); ok && !perm.CanEditClip(e.db, c) {
			intent := e.sel.Click(*c, mods.Additive)
			e.bump()
			return intent
		}
	}

	// An additive press is pure selection editing; starting a drag from it
	// would move clips the user is still picking.
	if mods.Additive && kind == GestureDrag {
		if c, ok := e.db.FindClip(hit.ClipID); ok {
			intent := e.sel.Click(*c, true)
			e.bump()
			return intent
		}
		return selection.PanelNone
	}

	g := &gestureState{kind: kind, start: p, last: p}
	intent := selection.PanelNone

	switch kind {
	case GestureDrag:
		c, ok := e.db.FindClip(hit.ClipID)
		if !ok {
			return selection.PanelNone
		}
		e.sel.Ensure(*c)
		g.grabID = c.ID
		g.origStart = map[string]int64{}
		g.origTrack = map[string]string{}
		for _, id := range e.sel.IDs() {
			sc, ok := e.db.FindClip(id)
			if !ok {
				continue
			}
			g.origStart[id] = sc.Start
			g.origTrack[id] = sc.TrackID
		}
	case GestureResize:
		c, ok := e.db.FindClip(hit.ClipID)
		if !ok {
			return selection.PanelNone
		}
		intent = e.sel.Click(*c, false)
		g.resizeID = c.ID
		if hit.Kind == HitClipLeftEdge {
			g.edge = edgeLeft
		} else {
			g.edge = edgeRight
		}
		g.preview = &clipPreview{start: c.Start, duration: c.Duration, sourceStart: c.SourceStart}
	case GestureFade:
		c, ok := e.db.FindClip(hit.ClipID)
		if !ok || !c.Type.Fadeable() {
			return selection.PanelNone
		}
		intent = e.sel.Click(*c, false)
		g.fadeID = c.ID
		if hit.Kind == HitFadeInHandle {
			g.handle = handleFadeIn
		} else {
			g.handle = handleFadeOut
		}
	case GestureMarquee:
		g.marqueeEnd = p
	case GestureScrub:
		e.db.SetCurrentTime(geom.PixelToTime(p.X, e.db.Zoom))
		e.markDirty()
	default:
		return selection.PanelNone
	}

	e.gesture = g
	e.bump()
	return intent
}

// PointerMove advances the live gesture. The gesture kind is re-read here on
// every event; a stale classification can never keep steering.
func (e *Engine) PointerMove(p Pointer) {
	g := e.gesture
	if g == nil {
		return
	}
	g.last = p
	switch g.kind {
	case GestureDrag:
		e.dragMove(g, p)
	case GestureResize:
		e.resizeMove(g, p)
	case GestureFade:
		e.fadeMove(g, p)
	case GestureMarquee:
		g.marqueeEnd = p
	case GestureScrub:
		e.db.SetCurrentTime(geom.PixelToTime(p.X, e.db.Zoom))
		e.markDirty()
	}
	e.bump()
}

// PointerUp commits the gesture and returns the machine to Idle. Commit
// happens here and only here for drag and resize; fades commit per move and
// only report here.
func (e *Engine) PointerUp(p Pointer) {
	g := e.gesture
	if g == nil {
		return
	}
	g.last = p
	e.gesture = nil

	switch g.kind {
	case GestureDrag:
		e.dragCommit(g)
	case GestureResize:
		e.resizeCommit(g)
	case GestureFade:
		e.fadeCommit(g)
	case GestureMarquee:
		e.marqueeCommit(g)
	case GestureScrub:
		e.report("playhead.seek", "", map[string]any{"ms": e.db.CurrentTime})
	}
	e.bump()
}

// Cancel drops the live gesture without committing. Previews vanish; fades,
// which commit per move, keep whatever the last move wrote but report
// nothing further.
func (e *Engine) Cancel() {
	if e.gesture == nil {
		return
	}
	e.gesture = nil
	e.bump()
}

func (e *Engine) deltaMs(g *gestureState, p Pointer) int64 {
	return geom.PixelToTime(p.X, e.db.Zoom) - geom.PixelToTime(g.start.X, e.db.Zoom)
}
