package perm

import (
	"os"
	"strconv"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

// ignoreLocks reports whether MONTAGE_IGNORE_LOCKS is set truthy. Repair
// tooling sets it to edit through a lock.
func ignoreLocks() bool {
	v, err := strconv.ParseBool(os.Getenv("MONTAGE_IGNORE_LOCKS"))
	return err == nil && v
}

// CanEditTrack reports whether mutations may touch clips on a track. A
// locked track refuses edits; its clips stay selectable and scrubbing is
// unaffected. Unknown tracks are editable, so callers get their usual
// missing-id no-op instead of a permission error.
func CanEditTrack(db *store.DB, trackID string) bool {
	if db == nil {
		return false
	}
	t, ok := db.FindTrack(trackID)
	if !ok {
		return true
	}
	if !t.Locked {
		return true
	}
	return ignoreLocks()
}

// CanEditClip reports whether a clip may be mutated.
func CanEditClip(db *store.DB, c *model.Clip) bool {
	if db == nil || c == nil {
		return false
	}
	return CanEditTrack(db, c.TrackID)
}
