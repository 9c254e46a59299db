package mutate

import (
	"testing"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

func timelineDB(t *testing.T) (*store.DB, string) {
	t.Helper()
	db := store.NewDB()
	trk := db.AddTrack(0)
	return db, trk.ID
}

func addClip(t *testing.T, db *store.DB, c model.Clip) *model.Clip {
	t.Helper()
	out := db.AddClip(c)
	if out == nil {
		t.Fatalf("AddClip refused %+v", c)
	}
	return out
}

func TestSplitClipProducesLineageChild(t *testing.T) {
	db, tid := timelineDB(t)
	addClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo,
		Start: 0, Duration: 2000, SourceStart: 500, OriginDuration: 10000})

	res := SplitClip(db, "clip-a", 800)
	if !res.Changed {
		t.Fatalf("expected split")
	}
	if res.Left.Duration != 800 {
		t.Fatalf("left duration: got %d", res.Left.Duration)
	}
	if res.Right.Start != 800 || res.Right.Duration != 1200 {
		t.Fatalf("right geometry wrong: %+v", res.Right)
	}
	if res.Right.SourceStart != 1300 {
		t.Fatalf("right sourceStart should advance by cut offset; got %d", res.Right.SourceStart)
	}
	if res.Right.ParentClipID != "clip-a" {
		t.Fatalf("right must carry lineage to the original")
	}
}

func TestSplitClipClampsCutPoint(t *testing.T) {
	db, tid := timelineDB(t)
	addClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 1000})

	// Cutting 10 ms in clamps to the minimum-duration boundary.
	res := SplitClip(db, "clip-a", 10)
	if !res.Changed || res.Left.Duration != model.MinClipDurationMs {
		t.Fatalf("expected clamped cut; got %+v", res.Left)
	}
}

func TestSplitClipTooShortNoOps(t *testing.T) {
	db, tid := timelineDB(t)
	addClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 150})
	if res := SplitClip(db, "clip-a", 75); res.Changed {
		t.Fatalf("a clip shorter than two minimums must not split")
	}
	if res := SplitClip(db, "clip-ghost", 75); res.Changed {
		t.Fatalf("missing clip must no-op")
	}
}

func TestDuplicateVideoLandsAtTrackEnd(t *testing.T) {
	db, tid := timelineDB(t)
	addClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 1000})
	addClip(t, db, model.Clip{ID: "clip-b", TrackID: tid, Type: model.ClipVideo, Start: 1000, Duration: 500})

	res := DuplicateClip(db, "clip-a")
	if !res.Changed {
		t.Fatalf("expected duplicate")
	}
	if res.Clip.Start != 1500 {
		t.Fatalf("video duplicate must land at track end; got %d", res.Clip.Start)
	}
	if res.Clip.ParentClipID != "clip-a" {
		t.Fatalf("duplicate must carry lineage")
	}
}

func TestDuplicateOverlayStaysPut(t *testing.T) {
	db := store.NewDB()
	trk := db.AddTrack(0)
	addClip(t, db, model.Clip{ID: "clip-s", TrackID: trk.ID, Type: model.ClipSticker, Start: 700, Duration: 500})

	res := DuplicateClip(db, "clip-s")
	if res.Clip.Start != 700 {
		t.Fatalf("overlay duplicate keeps its start; got %d", res.Clip.Start)
	}
}

func TestMergeAdjacentClipsRejoinsContiguousSource(t *testing.T) {
	db, tid := timelineDB(t)
	// Three contiguous pieces of the same source, as the cleanup wizard
	// leaves them after cutting silence in between and compacting.
	addClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo,
		Start: 0, Duration: 500, SourceStart: 0, OriginDuration: 10000})
	addClip(t, db, model.Clip{ID: "clip-b", TrackID: tid, Type: model.ClipVideo,
		Start: 500, Duration: 300, SourceStart: 500, OriginDuration: 10000})
	addClip(t, db, model.Clip{ID: "clip-c", TrackID: tid, Type: model.ClipVideo,
		Start: 800, Duration: 200, SourceStart: 800, OriginDuration: 10000})

	res := MergeAdjacentClips(db, []string{"clip-a", "clip-b", "clip-c"})
	if !res.Changed {
		t.Fatalf("expected merge")
	}
	a, ok := db.FindClip("clip-a")
	if !ok || a.Duration != 1000 {
		t.Fatalf("expected one 1000 ms clip; got %+v", a)
	}
	if _, ok := db.FindClip("clip-b"); ok {
		t.Fatalf("absorbed clip must be gone")
	}
	if got := len(res.Merged["clip-a"]); got != 2 {
		t.Fatalf("expected clip-a to absorb 2; got %d", got)
	}
}

func TestMergeSkipsNonContiguousSource(t *testing.T) {
	db, tid := timelineDB(t)
	addClip(t, db, model.Clip{ID: "clip-a", TrackID: tid, Type: model.ClipVideo,
		Start: 0, Duration: 500, SourceStart: 0, OriginDuration: 10000})
	// Adjacent on the timeline but from a different part of the source.
	addClip(t, db, model.Clip{ID: "clip-b", TrackID: tid, Type: model.ClipVideo,
		Start: 500, Duration: 300, SourceStart: 4000, OriginDuration: 10000})

	res := MergeAdjacentClips(db, []string{"clip-a", "clip-b"})
	if res.Changed {
		t.Fatalf("unrelated neighbors must not fuse")
	}
}

func TestInsertAssetImageGetsDefaultDuration(t *testing.T) {
	db, _ := timelineDB(t)
	res := InsertAsset(db, model.AssetDescriptor{ID: "asset-1", Type: model.ClipImage, Duration: 0, Name: "logo.png"}, "", 0, true)
	if !res.Changed {
		t.Fatalf("expected insert")
	}
	if res.Clip.Duration != model.DefaultImageDurationMs {
		t.Fatalf("image default duration: got %d", res.Clip.Duration)
	}
	if res.Clip.Label != "logo.png" {
		t.Fatalf("label should come from asset name")
	}
}

func TestInsertAssetVideoMakesRoomAndCompacts(t *testing.T) {
	db, tid := timelineDB(t)
	addClip(t, db, model.Clip{ID: "clip-c", TrackID: tid, Type: model.ClipVideo, Start: 0, Duration: 1000})

	res := InsertAsset(db, model.AssetDescriptor{ID: "asset-v", Type: model.ClipVideo, Duration: 500}, tid, 200, true)
	if !res.Changed {
		t.Fatalf("expected insert")
	}
	clips := db.ClipsOnTrack(tid)
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips; got %d", len(clips))
	}
	if clips[0].Start != 0 {
		t.Fatalf("track must stay compacted from 0")
	}
	for i := 1; i < len(clips); i++ {
		if clips[i].Start != clips[i-1].End() {
			t.Fatalf("residual gap after insert+compact: %+v", clips)
		}
	}
}

func TestInsertAssetOverlayOpensNewTrackOnOverlap(t *testing.T) {
	db := store.NewDB()
	trk := db.AddTrack(0)
	addClip(t, db, model.Clip{ID: "clip-s", TrackID: trk.ID, Type: model.ClipSticker, Start: 0, Duration: 3000})

	res := InsertAsset(db, model.AssetDescriptor{ID: "asset-s", Type: model.ClipSticker, Duration: 2000}, trk.ID, 1000, true)
	if !res.TrackCreated {
		t.Fatalf("avoidance requested: expected a new track")
	}
	if res.Clip.TrackID == trk.ID {
		t.Fatalf("clip must not land on the overlapping track")
	}

	// Without avoidance the overlap is allowed in place.
	res2 := InsertAsset(db, model.AssetDescriptor{ID: "asset-s2", Type: model.ClipSticker, Duration: 2000}, trk.ID, 1000, false)
	if res2.TrackCreated || res2.Clip.TrackID != trk.ID {
		t.Fatalf("overlap should be allowed when avoidance is off: %+v", res2)
	}
}
