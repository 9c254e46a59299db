package store

import (
	"sort"

	"montage-cli/internal/model"
)

// Invariant repair for video tracks. These passes run after a committed
// gesture (scheduled on the next turn, never inline in a move handler) and
// after bulk load. They are the only code allowed to fix geometry; the entry
// points in db.go apply patches verbatim.

// trackClipIdxs returns indices into db.Clips for a track, sorted by start.
func trackClipIdxs(db *DB, trackID string) []int {
	db.ensureIndexes()
	idxs := append([]int(nil), db.idxClipsByTrack[trackID]...)
	sort.SliceStable(idxs, func(a, b int) bool {
		return db.Clips[idxs[a]].Start < db.Clips[idxs[b]].Start
	})
	return idxs
}

// MakeRoom clears an insertion window on a track. The earliest clip whose
// overlap with the window exceeds the 1 ms tolerance is shifted to the end of
// the window, and the shift chains through any clip immediately following
// that would otherwise now overlap. Returns true when anything moved.
func MakeRoom(db *DB, trackID string, insertStart, insertDuration int64, excludeID string) bool {
	insertEnd := insertStart + insertDuration
	idxs := trackClipIdxs(db, trackID)

	first := -1
	for pos, i := range idxs {
		c := db.Clips[i]
		if c.ID == excludeID {
			continue
		}
		overlap := min64(c.End(), insertEnd) - max64(c.Start, insertStart)
		if overlap > model.OverlapToleranceMs {
			first = pos
			break
		}
	}
	if first < 0 {
		return false
	}

	db.Clips[idxs[first]].Start = insertEnd
	prevEnd := db.Clips[idxs[first]].End()
	for pos := first + 1; pos < len(idxs); pos++ {
		c := &db.Clips[idxs[pos]]
		if c.ID == excludeID {
			continue
		}
		if c.Start >= prevEnd {
			break
		}
		c.Start = prevEnd
		prevEnd = c.End()
	}
	return true
}

// CompactTrack slides a video track's clips left until they are gapless and
// start at 0. Subtitle clips whose old start fell within a moved clip's old
// span follow by the same delta. Association is positional, not by id, since
// subtitles are laid over the video rather than linked to it. Non-video
// tracks are left alone. Idempotent.
func CompactTrack(db *DB, trackID string) bool {
	if db.TrackType(trackID) != model.ClipVideo {
		return false
	}
	idxs := trackClipIdxs(db, trackID)
	if len(idxs) == 0 {
		return false
	}

	type moved struct {
		oldStart, oldEnd, delta int64
	}
	var moves []moved

	var cursor int64
	changed := false
	for _, i := range idxs {
		c := &db.Clips[i]
		if c.Start != cursor {
			moves = append(moves, moved{oldStart: c.Start, oldEnd: c.End(), delta: cursor - c.Start})
			c.Start = cursor
			changed = true
		}
		cursor += c.Duration
	}
	if len(moves) == 0 {
		return changed
	}

	for i := range db.Clips {
		s := &db.Clips[i]
		if s.Type != model.ClipSubtitle {
			continue
		}
		for _, mv := range moves {
			// Old spans are disjoint, so at most one can contain the start.
			if s.Start >= mv.oldStart && s.Start < mv.oldEnd {
				s.Start += mv.delta
				break
			}
		}
	}
	return changed
}

// CompactAllVideo compacts every track currently holding video clips.
func CompactAllVideo(db *DB) bool {
	changed := false
	for _, t := range db.TracksOrdered() {
		if db.TrackType(t.ID) == model.ClipVideo {
			if CompactTrack(db, t.ID) {
				changed = true
			}
		}
	}
	return changed
}

// ResolveOverlaps is the post-load sweep: on each video track, any
// clip starting before its predecessor's end is pushed forward just far
// enough to eliminate the overlap. It has no make-room insertion semantics,
// and it leaves the freely-overlapping track types alone.
func ResolveOverlaps(db *DB) bool {
	changed := false
	for _, t := range db.Tracks {
		if db.TrackType(t.ID) != model.ClipVideo {
			continue
		}
		idxs := trackClipIdxs(db, t.ID)
		var prevEnd int64 = -1
		for _, i := range idxs {
			c := &db.Clips[i]
			if prevEnd >= 0 && c.Start < prevEnd {
				c.Start = prevEnd
				changed = true
			}
			prevEnd = c.End()
		}
	}
	return changed
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
