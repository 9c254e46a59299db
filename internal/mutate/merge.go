package mutate

import (
	"sort"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

type MergeResult struct {
	// Merged maps each surviving clip id to the ids it absorbed.
	Merged       map[string][]string
	Changed      bool
	EventPayload map[string]any
}

// MergeAdjacentClips rejoins clips that are adjacent on the timeline and
// contiguous in their source material; the cleanup wizard calls this after
// deleting the cut-out pieces between the clips it kept. Only the given ids
// are considered. Trimmable clips additionally require the right piece's
// sourceStart to continue exactly where the left piece ends, so unrelated
// neighbors never fuse.
func MergeAdjacentClips(db *store.DB, keptIDs []string) MergeResult {
	kept := map[string]bool{}
	for _, id := range keptIDs {
		kept[id] = true
	}

	byTrack := map[string][]*model.Clip{}
	for i := range db.Clips {
		c := &db.Clips[i]
		if kept[c.ID] {
			byTrack[c.TrackID] = append(byTrack[c.TrackID], c)
		}
	}

	res := MergeResult{Merged: map[string][]string{}}
	var doomed []string

	for _, clips := range byTrack {
		sort.SliceStable(clips, func(i, j int) bool { return clips[i].Start < clips[j].Start })
		for i := 0; i+1 < len(clips); i++ {
			a, b := clips[i], clips[i+1]
			if a.Type != b.Type {
				continue
			}
			if abs64(b.Start-a.End()) > model.OverlapToleranceMs {
				continue
			}
			if a.Type.Trimmable() && b.SourceStart != a.SourceStart+a.Duration {
				continue
			}
			a.Duration += b.Duration
			a.FadeOut = b.FadeOut
			res.Merged[a.ID] = append(res.Merged[a.ID], b.ID)
			doomed = append(doomed, b.ID)
			// b is gone; let a try to absorb the next clip too.
			clips[i+1] = a
		}
	}

	for _, id := range doomed {
		db.DeleteClipOnly(id)
	}
	if len(doomed) > 0 {
		res.Changed = true
		res.EventPayload = map[string]any{"merged": res.Merged}
	}
	return res
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
