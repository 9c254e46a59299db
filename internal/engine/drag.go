package engine

import (
	"sort"

	"montage-cli/internal/geom"
	"montage-cli/internal/model"
	"montage-cli/internal/snap"
	"montage-cli/internal/store"
)

func (e *Engine) dragMove(g *gestureState, p Pointer) {
	grab, ok := e.db.FindClip(g.grabID)
	if !ok {
		return
	}

	delta := e.deltaMs(g, p)

	// The whole selection moves as one body, so the leftmost member pins the
	// lower bound.
	minOrig := g.origStart[g.grabID]
	for _, s := range g.origStart {
		if s < minOrig {
			minOrig = s
		}
	}
	if delta < -minOrig {
		delta = -minOrig
	}

	g.trackDelta = geom.TrackIndexDelta(p.Y - g.start.Y)

	// Snap the grabbed clip's edges; everyone else inherits its delta so the
	// selection never tears apart.
	cand := snap.Candidate{
		Left:  g.origStart[g.grabID] + delta,
		Right: g.origStart[g.grabID] + delta + grab.Duration,
	}
	res := snap.Resolve(cand, e.dragEdges(g), e.db.CurrentTime, e.snapThreshold)
	if res.Snapped {
		delta = res.Left - g.origStart[g.grabID]
		if delta < -minOrig {
			delta = -minOrig
		}
	}

	// A lone video clip dragged right cannot sail past the end of its
	// candidate track: that would open a gap compaction would immediately
	// close, making the pointer lie about where the clip lands.
	if e.sel.Len() == 1 && grab.Type == model.ClipVideo {
		if limit, ok := e.dragVideoLimit(g, grab); ok && g.origStart[g.grabID]+delta > limit {
			delta = limit - g.origStart[g.grabID]
		}
	}

	g.dragDelta = delta
}

// dragEdges collects snap targets from every clip outside the selection.
func (e *Engine) dragEdges(g *gestureState) []snap.Edge {
	exclude := map[string]bool{}
	for id := range g.origStart {
		exclude[id] = true
	}
	return snap.Edges(e.db.Clips, e.db.TrackOrder(), exclude)
}

// dragVideoLimit is the rightmost admissible start on the live candidate
// target track: the total duration of everything else on it.
func (e *Engine) dragVideoLimit(g *gestureState, grab *model.Clip) (int64, bool) {
	target, ok := e.dragTargetTrack(g.origTrack[g.grabID], g.trackDelta)
	if !ok {
		return 0, false
	}
	var total int64
	for i := range e.db.Clips {
		c := &e.db.Clips[i]
		if c.TrackID == target && c.ID != grab.ID {
			total += c.Duration
		}
	}
	return total, true
}

// dragTargetTrack maps an origin track plus a vertical lane delta to the
// candidate track id. False means the delta points past the last lane and a
// drop there would create a track.
func (e *Engine) dragTargetTrack(origTrackID string, trackDelta int) (string, bool) {
	if trackDelta == 0 {
		return origTrackID, true
	}
	tracks := e.db.TracksOrdered()
	idx := -1
	for i, t := range tracks {
		if t.ID == origTrackID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}
	target := idx + trackDelta
	if target < 0 {
		target = 0
	}
	if target >= len(tracks) {
		return "", false
	}
	return tracks[target].ID, true
}

func (e *Engine) dragCommit(g *gestureState) {
	if g.dragDelta == 0 && g.trackDelta == 0 {
		return
	}

	ids := e.sel.IDs()
	sort.Strings(ids)
	moving := map[string]bool{}
	for _, id := range ids {
		moving[id] = true
	}

	touched := map[string]bool{}
	moves := make([]map[string]any, 0, len(ids))
	// Forced track creation is shared across the selection so co-selected
	// clips of the same type land together instead of fanning out.
	created := map[model.ClipType]string{}

	for _, id := range ids {
		c, ok := e.db.FindClip(id)
		if !ok {
			continue
		}
		origTrack := g.origTrack[id]
		newStart := g.origStart[id] + g.dragDelta
		if newStart < 0 {
			newStart = 0
		}

		destTrack := e.resolveDestTrack(c, origTrack, g.trackDelta, newStart, created, moving)

		if destTrack != c.TrackID {
			e.db.ReassignTrack(id, destTrack)
			touched[origTrack] = true
		}
		e.db.UpdateClip(id, store.ClipPatch{Start: &newStart})
		touched[destTrack] = true

		moves = append(moves, map[string]any{
			"id":    id,
			"start": newStart,
			"track": destTrack,
		})

		if c.Type == model.ClipVideo {
			cc, _ := e.db.FindClip(id)
			store.MakeRoom(e.db, destTrack, cc.Start, cc.Duration, id)
		}
	}

	for tid := range touched {
		e.scheduleCompact(tid)
	}
	e.markDirty()
	e.report("clips.move", g.grabID, map[string]any{
		"deltaMs":    g.dragDelta,
		"trackDelta": g.trackDelta,
		"clips":      moves,
	})
}

// resolveDestTrack picks where a dropped clip lands. Drops past the last lane
// or onto a type-incompatible lane mint a fresh track; overlay types that
// would overlap get one too, since only video tracks make room.
func (e *Engine) resolveDestTrack(c *model.Clip, origTrack string, trackDelta int, newStart int64, created map[model.ClipType]string, moving map[string]bool) string {
	dest := origTrack
	if trackDelta != 0 {
		if id, ok := e.dragTargetTrack(origTrack, trackDelta); ok {
			dest = id
		} else {
			return e.forcedTrack(c.Type, created)
		}
	}

	if tt := e.db.TrackType(dest); tt != "" && tt != c.Type {
		return e.forcedTrack(c.Type, created)
	}

	// Co-selected clips move as one body and keep their spacing, so they are
	// never overlap candidates against each other.
	if c.Type != model.ClipVideo && e.overlapsOther(dest, moving, newStart, c.Duration) {
		return e.forcedTrack(c.Type, created)
	}
	return dest
}

func (e *Engine) forcedTrack(t model.ClipType, created map[model.ClipType]string) string {
	if id, ok := created[t]; ok {
		return id
	}
	nt := e.db.AddTrack(len(e.db.Tracks))
	created[t] = nt.ID
	return nt.ID
}

func (e *Engine) overlapsOther(trackID string, exclude map[string]bool, start, duration int64) bool {
	end := start + duration
	for i := range e.db.Clips {
		c := &e.db.Clips[i]
		if c.TrackID != trackID || exclude[c.ID] {
			continue
		}
		if c.Start < end && start < c.End() {
			return true
		}
	}
	return false
}
