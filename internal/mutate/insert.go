package mutate

import (
	"strings"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

type InsertResult struct {
	Clip *model.Clip
	// TrackCreated is set when placement had to open a new track.
	TrackCreated bool
	Changed      bool
	EventPayload map[string]any
}

// InsertAsset turns a dropped asset descriptor into a clip. Images get the
// default 3000 ms duration; everything else keeps the asset's own duration.
// Placement respects type-homogeneous tracks: the preferred track is used
// when it matches, otherwise the first compatible track, otherwise a new
// one. Video insertion makes room and compacts; other types open a new track
// instead of overlapping a same-type clip when avoidance is requested.
func InsertAsset(db *store.DB, desc model.AssetDescriptor, preferTrackID string, atMs int64, avoidOverlap bool) InsertResult {
	if atMs < 0 {
		atMs = 0
	}
	dur := desc.Duration
	if desc.Type == model.ClipImage || dur <= 0 {
		dur = model.DefaultImageDurationMs
	}
	if dur < model.MinClipDurationMs {
		dur = model.MinClipDurationMs
	}

	trackID, created := pickTrack(db, desc.Type, preferTrackID, atMs, dur, avoidOverlap)

	clip := model.Clip{
		TrackID:  trackID,
		Type:     desc.Type,
		Start:    atMs,
		Duration: dur,
		Speed:    1,
		Volume:   1,
		Label:    desc.Name,
	}
	if desc.Type.Trimmable() {
		clip.OriginDuration = desc.Duration
	}
	if clip.Label == "" {
		clip.Label = desc.ID
	}

	added := db.AddClip(clip)
	if added == nil {
		return InsertResult{}
	}
	if desc.Type.Compacted() {
		store.MakeRoom(db, trackID, added.Start, added.Duration, added.ID)
		store.CompactTrack(db, trackID)
		added, _ = db.FindClip(added.ID)
	}
	return InsertResult{
		Clip:         added,
		TrackCreated: created,
		Changed:      true,
		EventPayload: map[string]any{
			"assetId": desc.ID,
			"trackId": trackID,
			"start":   added.Start,
			"type":    string(desc.Type),
		},
	}
}

// pickTrack finds a home for a new clip of the given type. Returns the track
// id and whether a track was created.
func pickTrack(db *store.DB, t model.ClipType, prefer string, atMs, dur int64, avoidOverlap bool) (string, bool) {
	prefer = strings.TrimSpace(prefer)
	if prefer != "" {
		if _, ok := db.FindTrack(prefer); ok {
			tt := db.TrackType(prefer)
			if tt == "" || tt == t {
				if !needsNewTrack(db, prefer, t, atMs, dur, avoidOverlap) {
					return prefer, false
				}
			}
		}
	}
	for _, trk := range db.TracksOrdered() {
		tt := db.TrackType(trk.ID)
		if tt != "" && tt != t {
			continue
		}
		if needsNewTrack(db, trk.ID, t, atMs, dur, avoidOverlap) {
			continue
		}
		return trk.ID, false
	}
	trk := db.AddTrack(len(db.Tracks))
	return trk.ID, true
}

// needsNewTrack reports whether placing on this track would create a
// same-type overlap that avoidance forbids. Video tracks never need this:
// make-room clears the window instead.
func needsNewTrack(db *store.DB, trackID string, t model.ClipType, atMs, dur int64, avoidOverlap bool) bool {
	if !avoidOverlap || t.Compacted() {
		return false
	}
	end := atMs + dur
	for _, c := range db.ClipsOnTrack(trackID) {
		if c.Start < end && atMs < c.End() {
			return true
		}
	}
	return false
}
