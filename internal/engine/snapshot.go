package engine

import "montage-cli/internal/model"

// Snapshot is a render-ready copy of the timeline with any in-flight gesture
// preview already overlaid. Renderers read it instead of the store so a
// half-finished drag or resize looks live without ever being persisted.
type Snapshot struct {
	Revision    uint64
	CurrentTime int64
	Zoom        float64
	Gesture     GestureKind
	Tracks      []model.Track
	Clips       []model.Clip
	Selected    []string
	Primary     string
	Marquee     *Rect
}

func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Revision:    e.revision,
		CurrentTime: e.db.CurrentTime,
		Zoom:        e.db.Zoom,
		Gesture:     e.Active(),
		Tracks:      e.db.TracksOrdered(),
		Clips:       make([]model.Clip, len(e.db.Clips)),
		Selected:    e.sel.IDs(),
		Primary:     e.sel.Primary(),
	}
	copy(snap.Clips, e.db.Clips)

	g := e.gesture
	if g == nil {
		return snap
	}

	switch g.kind {
	case GestureDrag:
		for i := range snap.Clips {
			c := &snap.Clips[i]
			orig, ok := g.origStart[c.ID]
			if !ok {
				continue
			}
			c.Start = orig + g.dragDelta
			if c.Start < 0 {
				c.Start = 0
			}
			if g.trackDelta != 0 {
				if tid, ok := e.dragTargetTrack(g.origTrack[c.ID], g.trackDelta); ok {
					c.TrackID = tid
				}
			}
		}
	case GestureResize:
		for i := range snap.Clips {
			c := &snap.Clips[i]
			if c.ID != g.resizeID {
				continue
			}
			c.Start = g.preview.start
			c.Duration = g.preview.duration
			c.SourceStart = g.preview.sourceStart
			break
		}
	case GestureMarquee:
		r := normRect(g.start, g.marqueeEnd)
		snap.Marquee = &r
	}
	return snap
}
