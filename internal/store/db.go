package store

import (
	"sort"
	"strings"
	"time"

	"montage-cli/internal/model"
)

// ClipPatch is a partial update; nil fields are left untouched. UpdateClip
// applies the patch verbatim; invariant repair is a separate, explicit pass
// (see repair.go), invoked after gestures that could violate it.
type ClipPatch struct {
	Start       *int64
	Duration    *int64
	SourceStart *int64
	Speed       *float64
	Volume      *float64
	Muted       *bool
	FadeIn      *int64
	FadeOut     *int64
	Label       *string

	// MetadataSet merges keys into the clip's metadata bag.
	MetadataSet map[string]string
}

// RemoveClipResult reports the ids a cascade delete actually removed and
// which video tracks now need compaction.
type RemoveClipResult struct {
	Removed         []string
	CompactTrackIDs []string
}

// AddTrack inserts a new track at order index `at` (clamped to the current
// range) and renumbers the tracks behind it.
func (db *DB) AddTrack(at int) *model.Track {
	if at < 0 {
		at = 0
	}
	if at > len(db.Tracks) {
		at = len(db.Tracks)
	}
	for i := range db.Tracks {
		if db.Tracks[i].OrderIndex >= at {
			db.Tracks[i].OrderIndex++
		}
	}
	db.Tracks = append(db.Tracks, model.Track{
		ID:         NewID("trk"),
		OrderIndex: at,
		CreatedAt:  time.Now().UTC(),
	})
	return &db.Tracks[len(db.Tracks)-1]
}

// TrackPatch is a partial update for a track's presentation flags.
type TrackPatch struct {
	Hidden *bool
	Locked *bool
	Muted  *bool
}

// UpdateTrack applies a patch to a track. Missing id is a no-op (nil).
func (db *DB) UpdateTrack(id string, p TrackPatch) *model.Track {
	t, ok := db.FindTrack(id)
	if !ok {
		return nil
	}
	if p.Hidden != nil {
		t.Hidden = *p.Hidden
	}
	if p.Locked != nil {
		t.Locked = *p.Locked
	}
	if p.Muted != nil {
		t.Muted = *p.Muted
	}
	return t
}

// RemoveTrack removes a track only when it is empty. Returns false (no-op)
// otherwise.
func (db *DB) RemoveTrack(id string) bool {
	id = strings.TrimSpace(id)
	t, ok := db.FindTrack(id)
	if !ok {
		return false
	}
	if len(db.ClipsOnTrack(id)) > 0 {
		return false
	}
	removedOrder := t.OrderIndex
	out := db.Tracks[:0]
	for _, tr := range db.Tracks {
		if tr.ID == id {
			continue
		}
		if tr.OrderIndex > removedOrder {
			tr.OrderIndex--
		}
		out = append(out, tr)
	}
	db.Tracks = out
	db.invalidateIndexes()
	return true
}

// AddClip appends a clip to its track. The clip's id and timestamps are
// filled in when missing; start and duration are clamped to legal values.
// A missing track, or a type clashing with a non-empty track's type, makes
// this a no-op (nil).
func (db *DB) AddClip(c model.Clip) *model.Clip {
	if _, ok := db.FindTrack(c.TrackID); !ok {
		return nil
	}
	if tt := db.TrackType(c.TrackID); tt != "" && tt != c.Type {
		return nil
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = NewID("clip")
	}
	if c.Start < 0 {
		c.Start = 0
	}
	if c.Duration < model.MinClipDurationMs {
		c.Duration = model.MinClipDurationMs
	}
	if c.SourceStart < 0 {
		c.SourceStart = 0
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	db.Clips = append(db.Clips, c)
	db.invalidateIndexes()
	return &db.Clips[len(db.Clips)-1]
}

// RemoveClip deletes a clip and cascades: first to clips whose ParentClipID
// references it; absent any lineage, to subtitle clips whose current start
// falls within the deleted clip's span. Video tracks touched by a removal are
// reported for compaction rather than compacted inline.
func (db *DB) RemoveClip(id string) RemoveClipResult {
	id = strings.TrimSpace(id)
	root, ok := db.FindClip(id)
	if !ok {
		return RemoveClipResult{}
	}
	doomed := map[string]bool{id: true}

	hasLineage := false
	for i := range db.Clips {
		if db.Clips[i].ParentClipID == id {
			doomed[db.Clips[i].ID] = true
			hasLineage = true
		}
	}
	if !hasLineage {
		// Positional association: subtitles sitting inside the deleted span.
		for i := range db.Clips {
			c := &db.Clips[i]
			if c.Type == model.ClipSubtitle && !doomed[c.ID] && root.Contains(c.Start) {
				doomed[c.ID] = true
			}
		}
	}

	var res RemoveClipResult
	compact := map[string]bool{}
	out := db.Clips[:0]
	for _, c := range db.Clips {
		if doomed[c.ID] {
			res.Removed = append(res.Removed, c.ID)
			if c.Type.Compacted() {
				compact[c.TrackID] = true
			}
			continue
		}
		out = append(out, c)
	}
	db.Clips = out
	db.invalidateIndexes()

	for tid := range compact {
		res.CompactTrackIDs = append(res.CompactTrackIDs, tid)
	}
	sort.Strings(res.CompactTrackIDs)
	return res
}

// DeleteClipOnly removes a single clip with no cascade and no compaction
// scheduling. Merges use it: the absorbed clip's content lives on in its
// neighbor, so the span must not be treated as deleted.
func (db *DB) DeleteClipOnly(id string) bool {
	id = strings.TrimSpace(id)
	out := db.Clips[:0]
	found := false
	for _, c := range db.Clips {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	db.Clips = out
	if found {
		db.invalidateIndexes()
	}
	return found
}

// UpdateClip applies a partial patch. Missing id is a tolerated no-op (nil),
// so a gesture racing a concurrent delete falls through quietly.
func (db *DB) UpdateClip(id string, p ClipPatch) *model.Clip {
	c, ok := db.FindClip(id)
	if !ok {
		return nil
	}
	if p.Start != nil {
		c.Start = *p.Start
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.SourceStart != nil {
		c.SourceStart = *p.SourceStart
	}
	if p.Speed != nil {
		c.Speed = *p.Speed
	}
	if p.Volume != nil {
		c.Volume = *p.Volume
	}
	if p.Muted != nil {
		c.Muted = *p.Muted
	}
	if p.FadeIn != nil {
		c.FadeIn = *p.FadeIn
	}
	if p.FadeOut != nil {
		c.FadeOut = *p.FadeOut
	}
	if p.Label != nil {
		c.Label = *p.Label
	}
	if len(p.MetadataSet) > 0 {
		if c.Metadata == nil {
			c.Metadata = map[string]string{}
		}
		for k, v := range p.MetadataSet {
			c.Metadata[k] = v
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return c
}

// ReassignTrack moves a clip to another track. Missing clip or track no-ops.
func (db *DB) ReassignTrack(clipID, trackID string) *model.Clip {
	c, ok := db.FindClip(clipID)
	if !ok {
		return nil
	}
	if _, ok := db.FindTrack(trackID); !ok {
		return nil
	}
	c.TrackID = strings.TrimSpace(trackID)
	c.UpdatedAt = time.Now().UTC()
	db.invalidateIndexes()
	return c
}

// SetCurrentTime clamps the playhead to >= 0.
func (db *DB) SetCurrentTime(ms int64) {
	if ms < 0 {
		ms = 0
	}
	db.CurrentTime = ms
}
