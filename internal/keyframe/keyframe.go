// Package keyframe holds the per-clip, per-property timed value lists and
// their structural edits. Keyframe offsets are normalized to [0,1] within the
// clip's duration, so trimming a clip never invalidates its keyframes.
package keyframe

import (
	"math"
	"sort"
	"strings"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

type AddResult struct {
	Keyframe *model.Keyframe
	// Merged is true when an existing keyframe within MIN_DISTANCE absorbed
	// the write instead of a new entry being inserted.
	Merged       bool
	EventPayload map[string]any
}

type UpdateResult struct {
	Keyframe     *model.Keyframe
	Changed      bool
	EventPayload map[string]any
}

// Add clamps the offset to [0,1] and either merges into an existing keyframe
// within MIN_DISTANCE (last write wins) or inserts a new one, keeping the
// clip+property list sorted by offset. Missing or non-keyframeable clips
// no-op.
func Add(db *store.DB, clipID string, prop model.KeyframeProperty, offset float64, value []float64, easing model.Easing) AddResult {
	clip, ok := db.FindClip(clipID)
	if !ok || !clip.Type.Keyframeable() {
		return AddResult{}
	}
	offset = clampOffset(offset)
	if easing == "" {
		easing = model.EasingLinear
	}

	for i := range db.Keyframes {
		k := &db.Keyframes[i]
		if k.ClipID != clip.ID || k.Property != prop {
			continue
		}
		if math.Abs(k.Offset-offset) < model.KeyframeMinDistance {
			k.Value = append([]float64(nil), value...)
			k.Easing = easing
			return AddResult{
				Keyframe: k,
				Merged:   true,
				EventPayload: map[string]any{
					"property": string(prop),
					"offset":   k.Offset,
					"value":    k.Value,
					"merged":   true,
				},
			}
		}
	}

	db.Keyframes = append(db.Keyframes, model.Keyframe{
		ID:       store.NewID("kf"),
		ClipID:   clip.ID,
		Property: prop,
		Offset:   offset,
		Value:    append([]float64(nil), value...),
		Easing:   easing,
	})
	resort(db)
	k := find(db, clip.ID, prop, offset)
	return AddResult{
		Keyframe: k,
		EventPayload: map[string]any{
			"property": string(prop),
			"offset":   offset,
			"value":    value,
		},
	}
}

// Update edits one keyframe in place. Offset moves re-sort the list; a nil
// field leaves the current value. Missing id no-ops.
func Update(db *store.DB, id string, offset *float64, value []float64, easing *model.Easing) UpdateResult {
	id = strings.TrimSpace(id)
	idx := -1
	for i := range db.Keyframes {
		if db.Keyframes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return UpdateResult{}
	}
	k := &db.Keyframes[idx]
	changed := false
	if offset != nil {
		o := clampOffset(*offset)
		if o != k.Offset {
			k.Offset = o
			changed = true
		}
	}
	if value != nil {
		k.Value = append([]float64(nil), value...)
		changed = true
	}
	if easing != nil && *easing != k.Easing {
		k.Easing = *easing
		changed = true
	}
	if changed {
		resort(db)
		for i := range db.Keyframes {
			if db.Keyframes[i].ID == id {
				k = &db.Keyframes[i]
				break
			}
		}
	}
	return UpdateResult{
		Keyframe: k,
		Changed:  changed,
		EventPayload: map[string]any{
			"property": string(k.Property),
			"offset":   k.Offset,
		},
	}
}

// Delete removes one keyframe by id. Returns false for a missing id.
func Delete(db *store.DB, id string) bool {
	id = strings.TrimSpace(id)
	out := db.Keyframes[:0]
	found := false
	for _, k := range db.Keyframes {
		if k.ID == id {
			found = true
			continue
		}
		out = append(out, k)
	}
	db.Keyframes = out
	return found
}

// DeleteProperty removes every keyframe for one clip+property and reports
// how many were removed.
func DeleteProperty(db *store.DB, clipID string, prop model.KeyframeProperty) int {
	clipID = strings.TrimSpace(clipID)
	out := db.Keyframes[:0]
	n := 0
	for _, k := range db.Keyframes {
		if k.ClipID == clipID && k.Property == prop {
			n++
			continue
		}
		out = append(out, k)
	}
	db.Keyframes = out
	return n
}

// ClipKeyframes returns the ordered keyframes for a clip. With a property it
// returns that list; with prop == "" it returns all properties merged,
// globally sorted by offset.
func ClipKeyframes(db *store.DB, clipID string, prop model.KeyframeProperty) []model.Keyframe {
	clipID = strings.TrimSpace(clipID)
	var out []model.Keyframe
	for _, k := range db.Keyframes {
		if k.ClipID != clipID {
			continue
		}
		if prop != "" && k.Property != prop {
			continue
		}
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func clampOffset(o float64) float64 {
	if o < 0 {
		return 0
	}
	if o > 1 {
		return 1
	}
	return o
}

// resort keeps the flat list grouped by clip then property then offset so
// persistence and iteration stay deterministic.
func resort(db *store.DB) {
	sort.SliceStable(db.Keyframes, func(i, j int) bool {
		a, b := db.Keyframes[i], db.Keyframes[j]
		if a.ClipID != b.ClipID {
			return a.ClipID < b.ClipID
		}
		if a.Property != b.Property {
			return a.Property < b.Property
		}
		return a.Offset < b.Offset
	})
}

func find(db *store.DB, clipID string, prop model.KeyframeProperty, offset float64) *model.Keyframe {
	for i := range db.Keyframes {
		k := &db.Keyframes[i]
		if k.ClipID == clipID && k.Property == prop && k.Offset == offset {
			return k
		}
	}
	return nil
}
