package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"montage-cli/internal/config"
	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

func testModel(t *testing.T) (*timelineModel, string) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	db := store.NewDB()
	tr := db.AddTrack(0)
	c := db.AddClip(model.Clip{
		TrackID:        tr.ID,
		Type:           model.ClipVideo,
		Duration:       1000,
		OriginDuration: 5000,
		Label:          "intro",
	})
	if c == nil {
		t.Fatalf("seed clip refused")
	}
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}
	m := newTimelineModel(s, db, config.Default())
	m.width = 120
	m.height = 30
	return m, c.ID
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestMouseDragResizesThroughUpdate(t *testing.T) {
	m, clipID := testModel(t)
	laneRow := lanesTop()

	// Grab the right edge at column 9 and pull to column 14 (+500 ms).
	m.Update(mouse(tea.MouseActionPress, 9, laneRow))
	m.Update(mouse(tea.MouseActionMotion, 14, laneRow))

	mid, _ := m.db.FindClip(clipID)
	if mid.Duration != 1000 {
		t.Fatalf("duration = %d mid-drag, preview leaked into the store", mid.Duration)
	}

	m.Update(mouse(tea.MouseActionRelease, 14, laneRow))
	done, _ := m.db.FindClip(clipID)
	if done.Duration != 1500 {
		t.Fatalf("duration = %d after release, want 1500", done.Duration)
	}
}

func TestReleaseSchedulesSettle(t *testing.T) {
	m, _ := testModel(t)
	_, cmd := m.Update(mouse(tea.MouseActionRelease, 5, lanesTop()))
	if cmd == nil {
		t.Fatalf("release must hand back a settle command")
	}
	if _, ok := cmd().(settleMsg); !ok {
		t.Fatalf("release command = %T, want settleMsg", cmd())
	}
}

func TestKeyAddsTrackAndZooms(t *testing.T) {
	m, _ := testModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if len(m.db.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(m.db.Tracks))
	}

	before := m.db.Zoom
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if m.db.Zoom <= before {
		t.Fatalf("zoom = %v, want > %v", m.db.Zoom, before)
	}
}

func TestSplitKeyUsesPlayhead(t *testing.T) {
	m, clipID := testModel(t)
	m.db.SetCurrentTime(400)
	m.eng.Selection().Replace([]string{clipID})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	left, ok := m.db.FindClip(clipID)
	if !ok || left.Duration != 400 {
		t.Fatalf("left half duration = %d, want 400", left.Duration)
	}
	if len(m.db.Clips) != 2 {
		t.Fatalf("clips = %d, want split pair", len(m.db.Clips))
	}
}

func TestViewRendersClipLabelAndPlayhead(t *testing.T) {
	m, _ := testModel(t)
	out := m.View()
	if !strings.Contains(out, "intro") {
		t.Fatalf("view missing clip label:\n%s", out)
	}
	if !strings.Contains(out, "▼") {
		t.Fatalf("view missing playhead marker")
	}
	if !strings.Contains(out, "Montage") {
		t.Fatalf("view missing header")
	}
}

func TestHelpOverlayTogglesOnAnyKey(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.showHelp {
		t.Fatalf("help did not open")
	}
	if !strings.Contains(m.View(), "split") {
		t.Fatalf("help view missing key table")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.showHelp {
		t.Fatalf("help did not close")
	}
}

func TestDeleteDefersCompactionToSettle(t *testing.T) {
	m, clipID := testModel(t)
	second := m.db.AddClip(model.Clip{
		TrackID:  m.db.Tracks[0].ID,
		Type:     model.ClipVideo,
		Start:    1000,
		Duration: 1000,
		Label:    "outro",
	})
	if second == nil {
		t.Fatalf("second clip refused")
	}

	m.eng.Selection().Replace([]string{clipID})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	if _, ok := m.db.FindClip(clipID); ok {
		t.Fatalf("deleted clip still in store")
	}
	if m.eng.Selection().Has(clipID) {
		t.Fatalf("deleted clip still selected")
	}
	mid, _ := m.db.FindClip(second.ID)
	if mid.Start != 1000 {
		t.Fatalf("compaction ran inline, second clip at %d", mid.Start)
	}

	if cmd == nil {
		t.Fatalf("delete must hand back a settle command")
	}
	m.Update(cmd())
	done, _ := m.db.FindClip(second.ID)
	if done.Start != 0 {
		t.Fatalf("second clip at %d after settle, want 0", done.Start)
	}
}
