package store

import (
	"testing"

	"montage-cli/internal/model"
)

func TestAddClipFillsDefaultsAndClamps(t *testing.T) {
	db, tid := videoTrackDB(t)
	c := db.AddClip(model.Clip{TrackID: tid, Type: model.ClipVideo, Start: -50, Duration: 10})
	if c == nil {
		t.Fatalf("AddClip returned nil")
	}
	if c.ID == "" {
		t.Fatalf("expected generated id")
	}
	if c.Start != 0 {
		t.Fatalf("negative start must clamp to 0; got %d", c.Start)
	}
	if c.Duration != model.MinClipDurationMs {
		t.Fatalf("duration must clamp to %d; got %d", model.MinClipDurationMs, c.Duration)
	}
}

func TestAddClipRefusesMissingTrackAndTypeClash(t *testing.T) {
	db, tid := videoTrackDB(t)
	if c := db.AddClip(model.Clip{TrackID: "trk-nope", Type: model.ClipVideo, Duration: 500}); c != nil {
		t.Fatalf("expected nil for missing track")
	}
	mustAddClip(t, db, model.Clip{TrackID: tid, Type: model.ClipVideo, Duration: 500})
	if c := db.AddClip(model.Clip{TrackID: tid, Type: model.ClipAudio, Duration: 500}); c != nil {
		t.Fatalf("expected nil for type clash on non-empty track")
	}
}

func TestRemoveClipCascadesByLineage(t *testing.T) {
	db, tid := videoTrackDB(t)
	sub := db.AddTrack(1)
	mustAddClip(t, db, model.Clip{ID: "clip-v", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 2000})
	mustAddClip(t, db, model.Clip{ID: "clip-next", TrackID: tid, Type: model.ClipVideo, Start: 2000, Duration: 1000})
	mustAddClip(t, db, model.Clip{ID: "clip-s1", TrackID: sub.ID, Type: model.ClipSubtitle, Start: 100, Duration: 400, ParentClipID: "clip-v"})
	mustAddClip(t, db, model.Clip{ID: "clip-s2", TrackID: sub.ID, Type: model.ClipSubtitle, Start: 900, Duration: 400, ParentClipID: "clip-v"})

	res := db.RemoveClip("clip-v")
	if len(res.Removed) != 3 {
		t.Fatalf("expected 3 removed; got %d", len(res.Removed))
	}
	got := map[string]bool{}
	for _, id := range res.Removed {
		got[id] = true
	}
	for _, id := range []string{"clip-v", "clip-s1", "clip-s2"} {
		if !got[id] {
			t.Fatalf("removed ids missing %s; got %v", id, res.Removed)
		}
	}
	if _, ok := db.FindClip("clip-s1"); ok {
		t.Fatalf("lineage subtitle survived")
	}
	if len(res.CompactTrackIDs) != 1 || res.CompactTrackIDs[0] != tid {
		t.Fatalf("expected compaction scheduled for %s; got %v", tid, res.CompactTrackIDs)
	}

	// The cascade plus compaction slides the following clip left.
	for _, id := range res.CompactTrackIDs {
		CompactTrack(db, id)
	}
	next, _ := db.FindClip("clip-next")
	if next.Start != 0 {
		t.Fatalf("expected following clip at 0 after compaction; got %d", next.Start)
	}
}

func TestRemoveClipFallsBackToPositionalSubtitles(t *testing.T) {
	db, tid := videoTrackDB(t)
	sub := db.AddTrack(1)
	mustAddClip(t, db, model.Clip{ID: "clip-v", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 2000})
	mustAddClip(t, db, model.Clip{ID: "clip-in", TrackID: sub.ID, Type: model.ClipSubtitle, Start: 500, Duration: 300})
	mustAddClip(t, db, model.Clip{ID: "clip-edge", TrackID: sub.ID, Type: model.ClipSubtitle, Start: 2000, Duration: 300})

	res := db.RemoveClip("clip-v")
	if _, ok := db.FindClip("clip-in"); ok {
		t.Fatalf("contained subtitle should cascade")
	}
	// A subtitle exactly at the deleted clip's end belongs to the next clip.
	if _, ok := db.FindClip("clip-edge"); !ok {
		t.Fatalf("boundary subtitle should survive")
	}
	if len(res.Removed) != 2 {
		t.Fatalf("expected 2 removed; got %d", len(res.Removed))
	}
}

func TestRemoveClipMissingIDNoOps(t *testing.T) {
	db, _ := videoTrackDB(t)
	res := db.RemoveClip("clip-ghost")
	if len(res.Removed) != 0 || len(res.CompactTrackIDs) != 0 {
		t.Fatalf("expected a no-op; got %+v", res)
	}
}

func TestUpdateClipAppliesPatchVerbatim(t *testing.T) {
	db, tid := videoTrackDB(t)
	mustAddClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 1000})

	start := int64(250)
	label := "intro"
	c := db.UpdateClip("clip-a", ClipPatch{Start: &start, Label: &label, MetadataSet: map[string]string{"tag": "silence"}})
	if c == nil {
		t.Fatalf("UpdateClip returned nil")
	}
	if c.Start != 250 || c.Label != "intro" {
		t.Fatalf("patch not applied: %+v", c)
	}
	if c.Metadata["tag"] != "silence" {
		t.Fatalf("metadata not merged")
	}
	if db.UpdateClip("clip-ghost", ClipPatch{Start: &start}) != nil {
		t.Fatalf("missing clip must no-op")
	}
}

func TestRemoveTrackOnlyWhenEmpty(t *testing.T) {
	db, tid := videoTrackDB(t)
	mustAddClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo, Duration: 500})
	if db.RemoveTrack(tid) {
		t.Fatalf("non-empty track must not be removable")
	}
	db.RemoveClip("clip-a")
	if !db.RemoveTrack(tid) {
		t.Fatalf("empty track should be removable")
	}
}

func TestAddTrackRenumbersOrder(t *testing.T) {
	db := NewDB()
	a := db.AddTrack(0)
	b := db.AddTrack(1)
	mid := db.AddTrack(1)
	if a.OrderIndex != 0 || mid.OrderIndex != 1 {
		t.Fatalf("unexpected order: a=%d mid=%d", a.OrderIndex, mid.OrderIndex)
	}
	bb, _ := db.FindTrack(b.ID)
	if bb.OrderIndex != 2 {
		t.Fatalf("expected b pushed to 2; got %d", bb.OrderIndex)
	}

	ordered := db.TracksOrdered()
	for i, tr := range ordered {
		if tr.OrderIndex != i {
			t.Fatalf("order indexes not dense: %v", ordered)
		}
	}
}

func TestReassignTrack(t *testing.T) {
	db, tid := videoTrackDB(t)
	other := db.AddTrack(1)
	mustAddClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo, Duration: 500})

	if db.ReassignTrack("clip-a", "trk-ghost") != nil {
		t.Fatalf("missing track must no-op")
	}
	c := db.ReassignTrack("clip-a", other.ID)
	if c == nil || c.TrackID != other.ID {
		t.Fatalf("reassign failed: %+v", c)
	}
	if len(db.ClipsOnTrack(tid)) != 0 || len(db.ClipsOnTrack(other.ID)) != 1 {
		t.Fatalf("indexes stale after reassign")
	}
}

func TestSetCurrentTimeClamps(t *testing.T) {
	db := NewDB()
	db.SetCurrentTime(-100)
	if db.CurrentTime != 0 {
		t.Fatalf("expected clamp to 0; got %d", db.CurrentTime)
	}
	db.SetCurrentTime(1234)
	if db.CurrentTime != 1234 {
		t.Fatalf("expected 1234; got %d", db.CurrentTime)
	}
}
