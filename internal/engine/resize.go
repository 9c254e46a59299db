package engine

import (
	"montage-cli/internal/model"
	"montage-cli/internal/snap"
	"montage-cli/internal/store"
)

// resizeMove recomputes the preview from scratch against the authoritative
// clip, so clamping never accumulates across frames.
func (e *Engine) resizeMove(g *gestureState, p Pointer) {
	c, ok := e.db.FindClip(g.resizeID)
	if !ok {
		return
	}
	delta := e.deltaMs(g, p)

	if g.edge == edgeLeft {
		pos := e.snapEdge(g, c.Start+delta)
		delta = pos - c.Start
		delta = clampLeftResize(c, delta)
		g.preview.start = c.Start + delta
		g.preview.duration = c.Duration - delta
		g.preview.sourceStart = c.SourceStart
		if c.Type.Trimmable() {
			g.preview.sourceStart = c.SourceStart + delta
		}
		return
	}

	pos := e.snapEdge(g, c.End()+delta)
	delta = pos - c.End()
	dur := clampRightResize(c, c.Duration+delta)
	g.preview.start = c.Start
	g.preview.duration = dur
	g.preview.sourceStart = c.SourceStart
}

// snapEdge runs the resolver for a single moving edge.
func (e *Engine) snapEdge(g *gestureState, pos int64) int64 {
	exclude := map[string]bool{g.resizeID: true}
	cand := snap.Candidate{Left: pos, Right: pos}
	res := snap.Resolve(cand, snap.Edges(e.db.Clips, e.db.TrackOrder(), exclude), e.db.CurrentTime, e.snapThreshold)
	if res.Snapped {
		return res.Left
	}
	return pos
}

// clampLeftResize bounds a left-edge delta: the clip keeps its minimum
// duration, its start stays non-negative, and trimmable media never reads
// before the source's first frame or past its last trimmable one.
func clampLeftResize(c *model.Clip, delta int64) int64 {
	if min := c.Start; delta < -min {
		delta = -min
	}
	if max := c.Duration - model.MinClipDurationMs; delta > max {
		delta = max
	}
	if c.Type.Trimmable() {
		if min := -c.SourceStart; delta < min {
			delta = min
		}
		if max := c.OriginDuration - model.MinClipDurationMs - c.SourceStart; delta > max {
			delta = max
		}
	}
	return delta
}

// clampRightResize bounds a new duration from a right-edge pull.
func clampRightResize(c *model.Clip, dur int64) int64 {
	if dur < model.MinClipDurationMs {
		dur = model.MinClipDurationMs
	}
	if c.Type.Trimmable() {
		if max := c.OriginDuration - c.SourceStart; dur > max {
			dur = max
		}
	}
	return dur
}

// resizeCommit writes the final preview frame to the store in one update.
func (e *Engine) resizeCommit(g *gestureState) {
	c, ok := e.db.FindClip(g.resizeID)
	if !ok {
		return
	}
	pv := g.preview
	if pv.start == c.Start && pv.duration == c.Duration && pv.sourceStart == c.SourceStart {
		return
	}
	e.db.UpdateClip(c.ID, store.ClipPatch{
		Start:       &pv.start,
		Duration:    &pv.duration,
		SourceStart: &pv.sourceStart,
	})
	e.scheduleCompact(c.TrackID)
	e.markDirty()
	e.report("clip.resize", c.ID, map[string]any{
		"start":       pv.start,
		"duration":    pv.duration,
		"sourceStart": pv.sourceStart,
	})
}
