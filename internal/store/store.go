package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"montage-cli/internal/model"
)

// DirName is the per-project store directory.
const DirName = ".montage"

// DB is the authoritative in-memory timeline state. All mutation goes through
// the entry points on *DB; nothing outside this package writes fields
// directly, so the geometric invariants can only be broken transiently inside
// one gesture-commit step.
type DB struct {
	Version int `json:"version"`

	// CurrentTime is the playhead position (ms). Zoom is the view scale.
	CurrentTime int64   `json:"currentTime"`
	Zoom        float64 `json:"zoom"`

	Tracks    []model.Track    `json:"tracks"`
	Clips     []model.Clip     `json:"clips"`
	Keyframes []model.Keyframe `json:"keyframes"`

	// Derived per-track clip index for the TUI and repair passes. Not persisted.
	idxBuilt        bool             `json:"-"`
	idxClipsByTrack map[string][]int `json:"-"`
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, DirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, DirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Load reads the project from SQLite and self-heals structural invariants
// before handing the DB out: overlaps are swept forward, then every video
// track is compacted. A project that fails its invariants is repaired, never
// refused.
func (s Store) Load() (*DB, error) {
	db, err := s.LoadSQLite(context.Background())
	if err != nil {
		return nil, err
	}
	ResolveOverlaps(db)
	CompactAllVideo(db)
	return db, nil
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

func NewDB() *DB {
	return &DB{Version: 1, Zoom: 1}
}

func (db *DB) FindTrack(id string) (*model.Track, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Tracks {
		if db.Tracks[i].ID == id {
			return &db.Tracks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindClip(id string) (*model.Clip, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Clips {
		if db.Clips[i].ID == id {
			return &db.Clips[i], true
		}
	}
	return nil, false
}

// TracksOrdered returns tracks sorted by order index (render back-to-front).
func (db *DB) TracksOrdered() []model.Track {
	out := make([]model.Track, len(db.Tracks))
	copy(out, db.Tracks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// TrackOrder maps track id -> order index, for snap-edge ordering.
func (db *DB) TrackOrder() map[string]int {
	out := make(map[string]int, len(db.Tracks))
	for _, t := range db.Tracks {
		out[t.ID] = t.OrderIndex
	}
	return out
}

// ClipsOnTrack returns copies of the track's clips sorted by start.
func (db *DB) ClipsOnTrack(trackID string) []model.Clip {
	db.ensureIndexes()
	idxs := db.idxClipsByTrack[strings.TrimSpace(trackID)]
	out := make([]model.Clip, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, db.Clips[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// TrackType returns the clip type a track holds, or "" when empty.
func (db *DB) TrackType(trackID string) model.ClipType {
	db.ensureIndexes()
	idxs := db.idxClipsByTrack[strings.TrimSpace(trackID)]
	if len(idxs) == 0 {
		return ""
	}
	return db.Clips[idxs[0]].Type
}

func (db *DB) ensureIndexes() {
	if db == nil || db.idxBuilt {
		return
	}
	db.idxClipsByTrack = map[string][]int{}
	for i := range db.Clips {
		tid := db.Clips[i].TrackID
		db.idxClipsByTrack[tid] = append(db.idxClipsByTrack[tid], i)
	}
	db.idxBuilt = true
}

// invalidateIndexes must be called by every entry point that changes clip
// membership or track assignment.
func (db *DB) invalidateIndexes() {
	db.idxBuilt = false
	db.idxClipsByTrack = nil
}
