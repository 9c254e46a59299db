package store

import (
	"testing"

	"montage-cli/internal/model"
)

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	db := NewDB()
	db.Zoom = 2.5
	db.SetCurrentTime(4200)
	trk := db.AddTrack(0)
	clip := db.AddClip(model.Clip{
		TrackID:        trk.ID,
		Type:           model.ClipVideo,
		Start:          0,
		Duration:       1500,
		SourceStart:    200,
		OriginDuration: 60000,
		Speed:          1,
		Volume:         0.8,
		FadeIn:         120,
		Label:          "intro.mp4",
		Metadata:       map[string]string{"tag": "silence"},
	})
	db.Keyframes = append(db.Keyframes, model.Keyframe{
		ID:       NewID("kf"),
		ClipID:   clip.ID,
		Property: model.PropOpacity,
		Offset:   0.5,
		Value:    []float64{0.7},
		Easing:   model.EasingLinear,
	})

	if err := s.Save(db); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Zoom != 2.5 || got.CurrentTime != 4200 {
		t.Fatalf("meta mismatch: zoom=%v time=%d", got.Zoom, got.CurrentTime)
	}
	if len(got.Tracks) != 1 || len(got.Clips) != 1 || len(got.Keyframes) != 1 {
		t.Fatalf("entity counts mismatch: %d/%d/%d", len(got.Tracks), len(got.Clips), len(got.Keyframes))
	}
	c := got.Clips[0]
	if c.ID != clip.ID || c.SourceStart != 200 || c.OriginDuration != 60000 || c.Label != "intro.mp4" {
		t.Fatalf("clip mismatch: %+v", c)
	}
	if c.Metadata["tag"] != "silence" {
		t.Fatalf("metadata lost")
	}
	k := got.Keyframes[0]
	if k.Property != model.PropOpacity || len(k.Value) != 1 || k.Value[0] != 0.7 {
		t.Fatalf("keyframe mismatch: %+v", k)
	}
}

func TestLoadEmptyStoreYieldsFreshDB(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if db.Version != 1 || db.Zoom != 1 {
		t.Fatalf("fresh DB defaults wrong: %+v", db)
	}
}

func TestLoadSelfHealsOverlappingVideo(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	db := NewDB()
	trk := db.AddTrack(0)
	db.AddClip(model.Clip{ID: "clip-a", TrackID: trk.ID, Type: model.ClipVideo, Start: 300, Duration: 1000})
	db.AddClip(model.Clip{ID: "clip-b", TrackID: trk.ID, Type: model.ClipVideo, Start: 800, Duration: 500})
	if err := s.Save(db); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	assertCompacted(t, got, trk.ID)
}

func TestAppendAndReadEvents(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}

	before := AppendEventCount()
	if err := s.AppendEvent("clip.add", "clip-1", map[string]any{"start": 0}); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	if err := s.AppendEvent("clip.remove", "clip-1", nil); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	if AppendEventCount() != before+2 {
		t.Fatalf("append counter not bumped")
	}

	evs, err := ReadEvents(dir, 0)
	if err != nil {
		t.Fatalf("ReadEvents error: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events; got %d", len(evs))
	}
	if evs[0].Type != "clip.add" || evs[1].Type != "clip.remove" {
		t.Fatalf("order wrong: %+v", evs)
	}

	tail, err := ReadEventsTail(dir, 1)
	if err != nil {
		t.Fatalf("ReadEventsTail error: %v", err)
	}
	if len(tail) != 1 || tail[0].Type != "clip.remove" {
		t.Fatalf("tail wrong: %+v", tail)
	}

	byEntity, err := ReadEventsForEntity(dir, "clip-1", 0)
	if err != nil {
		t.Fatalf("ReadEventsForEntity error: %v", err)
	}
	if len(byEntity) != 2 {
		t.Fatalf("expected 2 entity events; got %d", len(byEntity))
	}
}
