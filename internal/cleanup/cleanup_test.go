package cleanup

import (
	"testing"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

func planDB(t *testing.T) (*store.DB, string, [3]string) {
	t.Helper()
	db := store.NewDB()
	tr := db.AddTrack(0)
	var ids [3]string
	starts := []int64{0, 500, 1000}
	for i, s := range starts {
		c := db.AddClip(model.Clip{
			TrackID:        tr.ID,
			Type:           model.ClipVideo,
			Start:          s,
			Duration:       500,
			SourceStart:    s,
			OriginDuration: 5000,
		})
		if c == nil {
			t.Fatalf("AddClip at %d refused", s)
		}
		ids[i] = c.ID
	}
	return db, tr.ID, ids
}

func TestParsePlanRejectsUnknownAction(t *testing.T) {
	_, err := ParsePlan([]byte("clips:\n  - id: c1\n    action: obliterate\n"))
	if err == nil {
		t.Fatalf("expected parse error for unknown action")
	}
}

func TestApplyRemovesTagsAndMerges(t *testing.T) {
	db, trackID, ids := planDB(t)

	plan := Plan{
		Clips: []ClipDecision{
			{ID: ids[0], Action: ActionTag, Tags: []string{"intro", "keep"}},
			{ID: ids[1], Action: ActionKeep},
			{ID: ids[2], Action: ActionRemove},
		},
		Merges: [][]string{{ids[0], ids[1]}},
	}
	sum := Apply(db, plan)

	if len(sum.Removed) != 1 || sum.Removed[0] != ids[2] {
		t.Fatalf("removed = %v, want just %s", sum.Removed, ids[2])
	}
	if len(sum.Tagged) != 1 || sum.Tagged[0] != ids[0] {
		t.Fatalf("tagged = %v, want just %s", sum.Tagged, ids[0])
	}
	if absorbed := sum.Merged[ids[0]]; len(absorbed) != 1 || absorbed[0] != ids[1] {
		t.Fatalf("merged = %v, want %s absorbing %s", sum.Merged, ids[0], ids[1])
	}

	a, ok := db.FindClip(ids[0])
	if !ok {
		t.Fatalf("surviving clip missing")
	}
	if a.Start != 0 || a.Duration != 1000 {
		t.Fatalf("survivor = %d+%d, want 0+1000", a.Start, a.Duration)
	}
	if a.Metadata["tags"] != "intro,keep" {
		t.Fatalf("tags metadata = %q", a.Metadata["tags"])
	}
	if _, ok := db.FindClip(ids[1]); ok {
		t.Fatalf("absorbed clip still present")
	}
	if got := len(db.ClipsOnTrack(trackID)); got != 1 {
		t.Fatalf("track holds %d clips, want 1", got)
	}
}

func TestApplySkipsUnknownIDs(t *testing.T) {
	db, _, ids := planDB(t)

	sum := Apply(db, Plan{Clips: []ClipDecision{
		{ID: "clip-gone", Action: ActionRemove},
		{ID: ids[0], Action: ActionKeep},
	}})

	if len(sum.Skipped) != 1 || sum.Skipped[0] != "clip-gone" {
		t.Fatalf("skipped = %v, want clip-gone", sum.Skipped)
	}
	if len(sum.Removed) != 0 {
		t.Fatalf("removed = %v, want none", sum.Removed)
	}
}

func TestApplyEmptyMergeGroupUsesKeptClips(t *testing.T) {
	db, _, ids := planDB(t)

	sum := Apply(db, Plan{
		Clips: []ClipDecision{
			{ID: ids[0], Action: ActionKeep},
			{ID: ids[1], Action: ActionKeep},
			{ID: ids[2], Action: ActionKeep},
		},
		Merges: [][]string{{}},
	})

	if absorbed := sum.Merged[ids[0]]; len(absorbed) != 2 {
		t.Fatalf("merged = %v, want chain absorbing both followers", sum.Merged)
	}
}
