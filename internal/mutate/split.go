package mutate

import (
	"strings"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

type SplitResult struct {
	Left         *model.Clip
	Right        *model.Clip
	Changed      bool
	EventPayload map[string]any
}

// SplitClip cuts a clip at an absolute timeline position. The right half is
// a new clip whose ParentClipID points at the original, so deleting the
// original later cascades to it. The cut point is clamped so both halves
// keep at least the minimum duration; a clip too short to split no-ops.
func SplitClip(db *store.DB, clipID string, atMs int64) SplitResult {
	c, ok := db.FindClip(strings.TrimSpace(clipID))
	if !ok {
		return SplitResult{}
	}
	if c.Duration < 2*model.MinClipDurationMs {
		return SplitResult{}
	}
	if atMs < c.Start+model.MinClipDurationMs {
		atMs = c.Start + model.MinClipDurationMs
	}
	if atMs > c.End()-model.MinClipDurationMs {
		atMs = c.End() - model.MinClipDurationMs
	}

	right := *c
	right.ID = ""
	right.ParentClipID = c.ID
	right.Start = atMs
	right.Duration = c.End() - atMs
	if c.Type.Trimmable() {
		right.SourceStart = c.SourceStart + (atMs - c.Start)
	}
	right.FadeIn = 0
	right.FadeOut = c.FadeOut

	c.Duration = atMs - c.Start
	c.FadeOut = 0

	added := db.AddClip(right)
	if added == nil {
		return SplitResult{}
	}
	left, _ := db.FindClip(clipID)
	return SplitResult{
		Left:    left,
		Right:   added,
		Changed: true,
		EventPayload: map[string]any{
			"at":      atMs,
			"leftId":  left.ID,
			"rightId": added.ID,
		},
	}
}

type DuplicateResult struct {
	Clip         *model.Clip
	Changed      bool
	EventPayload map[string]any
}

// DuplicateClip copies a clip onto its own track. The copy's ParentClipID
// points at the original. Video copies land at the end of the track (the
// compaction invariant leaves nowhere else); other types sit on top of the
// original, which their tracks allow.
func DuplicateClip(db *store.DB, clipID string) DuplicateResult {
	c, ok := db.FindClip(strings.TrimSpace(clipID))
	if !ok {
		return DuplicateResult{}
	}
	dup := *c
	dup.ID = ""
	dup.ParentClipID = c.ID
	if c.Type.Compacted() {
		var end int64
		for _, other := range db.ClipsOnTrack(c.TrackID) {
			if other.End() > end {
				end = other.End()
			}
		}
		dup.Start = end
	}
	added := db.AddClip(dup)
	if added == nil {
		return DuplicateResult{}
	}
	return DuplicateResult{
		Clip:    added,
		Changed: true,
		EventPayload: map[string]any{
			"sourceId": clipID,
			"start":    added.Start,
		},
	}
}
