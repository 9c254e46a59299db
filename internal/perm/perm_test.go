package perm

import (
	"testing"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

func TestLockedTrackRefusesEdits(t *testing.T) {
	db := store.NewDB()
	tr := db.AddTrack(0)
	c := db.AddClip(model.Clip{TrackID: tr.ID, Type: model.ClipVideo, Duration: 1000})

	if !CanEditClip(db, c) {
		t.Fatalf("unlocked track should allow edits")
	}

	locked := true
	db.UpdateTrack(tr.ID, store.TrackPatch{Locked: &locked})
	if CanEditClip(db, c) {
		t.Fatalf("locked track should refuse edits")
	}
	if CanEditTrack(db, tr.ID) {
		t.Fatalf("locked track should refuse edits")
	}

	t.Setenv("MONTAGE_IGNORE_LOCKS", "1")
	if !CanEditClip(db, c) {
		t.Fatalf("MONTAGE_IGNORE_LOCKS should bypass the lock")
	}
}

func TestUnknownTrackStaysEditable(t *testing.T) {
	db := store.NewDB()
	if !CanEditTrack(db, "trk-missing") {
		t.Fatalf("unknown track must not trip the permission check")
	}
	if CanEditClip(db, nil) {
		t.Fatalf("nil clip is never editable")
	}
}
