package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"montage-cli/internal/config"
	"montage-cli/internal/engine"
	"montage-cli/internal/geom"
	"montage-cli/internal/mutate"
	"montage-cli/internal/store"
)

// settleMsg runs deferred compaction on the turn after the commit that
// scheduled it.
type settleMsg struct{}

// storeChangedMsg arrives when another process wrote the project database.
type storeChangedMsg struct{}

type timelineModel struct {
	s   store.Store
	db  *store.DB
	cfg config.Config
	eng *engine.Engine
	th  theme

	width  int
	height int

	// scrollCells is the horizontal scroll offset in terminal cells.
	scrollCells int

	showHelp bool
	help     viewport.Model
	status   string

	watcher *storeWatcher
}

func newTimelineModel(s store.Store, db *store.DB, cfg config.Config) *timelineModel {
	eng := engine.New(db, func(typ, entityID string, payload any) {
		_ = s.AppendEvent(typ, entityID, payload)
	})
	eng.SetSnapThreshold(cfg.SnapThresholdMs)
	return &timelineModel{
		s:   s,
		db:  db,
		cfg: cfg,
		eng: eng,
		th:  newTheme(cfg.Theme),
	}
}

func (m *timelineModel) Init() tea.Cmd {
	m.watcher = watchStoreDir(m.s.Dir)
	return m.watcher.wait()
}

func (m *timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showHelp {
			m.openHelp()
		}
		return m, nil

	case settleMsg:
		m.eng.Settle()
		m.persistIfDirty()
		return m, nil

	case storeChangedMsg:
		// Skip mid-gesture; the reload would yank state out from under the
		// pointer. The watcher keeps firing, so a later notice catches up.
		if m.eng.Active() == engine.GestureNone && !m.eng.Dirty() {
			m.reloadFromDisk()
		}
		return m, m.watcher.wait()

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *timelineModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			m.eng.SetZoom(m.db.Zoom * 1.25)
		} else {
			m.scrollCells -= 4
			if m.scrollCells < 0 {
				m.scrollCells = 0
			}
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			m.eng.SetZoom(m.db.Zoom / 1.25)
		} else {
			m.scrollCells += 4
		}
		return m, nil
	}

	p := m.pointerFor(msg)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		hit := hitTest(m.db, msg.X, msg.Y, m.scrollCells, m.db.Zoom, msg.Alt)
		m.eng.PointerDown(p, hit, engine.Modifiers{
			Additive: msg.Shift,
			Marquee:  msg.Ctrl,
		})
		return m, nil
	case tea.MouseActionMotion:
		m.eng.PointerMove(p)
		return m, nil
	case tea.MouseActionRelease:
		m.eng.PointerUp(p)
		m.persistIfDirty()
		// Compaction runs next turn, not inside the release handler.
		return m, func() tea.Msg { return settleMsg{} }
	}
	return m, nil
}

// pointerFor maps a terminal mouse position to engine content coordinates.
// Rows below the last lane map one lane past it, so dragging below the
// timeline reads as a drop onto a new track.
func (m *timelineModel) pointerFor(msg tea.MouseMsg) engine.Pointer {
	lane := (msg.Y - lanesTop()) / laneRows
	if lane < 0 {
		lane = 0
	}
	if n := len(m.db.Tracks); lane > n {
		lane = n
	}
	return engine.Pointer{
		X: colToPx(msg.X, m.scrollCells),
		Y: laneToY(lane),
	}
}

func (m *timelineModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.openHelp()
		return m, nil
	case "r":
		m.reloadFromDisk()
		return m, nil
	case "esc":
		m.eng.Cancel()
		m.eng.Selection().Clear()
		return m, nil
	case "+", "=":
		m.eng.SetZoom(m.db.Zoom * 1.25)
		return m, nil
	case "-":
		m.eng.SetZoom(m.db.Zoom / 1.25)
		return m, nil
	case "left":
		m.db.SetCurrentTime(m.db.CurrentTime - m.nudgeMs())
		return m, nil
	case "right":
		m.db.SetCurrentTime(m.db.CurrentTime + m.nudgeMs())
		return m, nil
	case "s":
		return m, m.splitAtPlayhead()
	case "d", "delete", "backspace":
		return m, m.deleteSelection()
	case "D":
		return m, m.duplicatePrimary()
	case "M":
		return m, m.mergeSelection()
	case "t":
		t := m.db.AddTrack(len(m.db.Tracks))
		m.persist("track.add", t.ID, t)
		return m, nil
	}
	return m, nil
}

// nudgeMs is one terminal cell of time at the current zoom.
func (m *timelineModel) nudgeMs() int64 {
	return geom.PixelToTime(cellPx, m.db.Zoom)
}

func (m *timelineModel) splitAtPlayhead() tea.Cmd {
	id := m.eng.Selection().Primary()
	if id == "" {
		m.status = "nothing selected to split"
		return nil
	}
	res := mutate.SplitClip(m.db, id, m.db.CurrentTime)
	if !res.Changed {
		m.status = "clip too short to split here"
		return nil
	}
	m.persist("clip.split", id, res.EventPayload)
	return nil
}

func (m *timelineModel) deleteSelection() tea.Cmd {
	ids := m.eng.Selection().IDs()
	if len(ids) == 0 {
		return nil
	}
	removed := []string{}
	for _, id := range ids {
		res := m.db.RemoveClip(id)
		removed = append(removed, res.Removed...)
		for _, tid := range res.CompactTrackIDs {
			m.eng.ScheduleCompact(tid)
		}
	}
	m.eng.Selection().Drop(removed)
	m.persist("clips.remove", "", map[string]any{"removed": removed})
	return func() tea.Msg { return settleMsg{} }
}

func (m *timelineModel) duplicatePrimary() tea.Cmd {
	id := m.eng.Selection().Primary()
	if id == "" {
		return nil
	}
	res := mutate.DuplicateClip(m.db, id)
	if !res.Changed {
		return nil
	}
	m.persist("clip.duplicate", res.Clip.ID, res.EventPayload)
	return nil
}

func (m *timelineModel) mergeSelection() tea.Cmd {
	ids := m.eng.Selection().IDs()
	if len(ids) < 2 {
		m.status = "select at least two clips to merge"
		return nil
	}
	res := mutate.MergeAdjacentClips(m.db, ids)
	if !res.Changed {
		m.status = "selection is not source-contiguous"
		return nil
	}
	gone := []string{}
	for _, absorbed := range res.Merged {
		gone = append(gone, absorbed...)
	}
	m.eng.Selection().Drop(gone)
	m.persist("clips.merge", "", res.EventPayload)
	return nil
}

func (m *timelineModel) persist(typ, entityID string, payload any) {
	if err := m.s.Save(m.db); err != nil {
		m.status = err.Error()
		return
	}
	_ = m.s.AppendEvent(typ, entityID, payload)
}

func (m *timelineModel) persistIfDirty() {
	if !m.eng.Dirty() {
		return
	}
	if err := m.s.Save(m.db); err != nil {
		m.status = err.Error()
		return
	}
	m.eng.ClearDirty()
}

func (m *timelineModel) reloadFromDisk() {
	db, err := m.s.Load()
	if err != nil {
		m.status = err.Error()
		return
	}
	ids := []string{}
	for _, c := range db.Clips {
		ids = append(ids, c.ID)
	}
	m.db = db
	prev := m.eng.Selection()
	m.eng = engine.New(db, func(typ, entityID string, payload any) {
		_ = m.s.AppendEvent(typ, entityID, payload)
	})
	m.eng.SetSnapThreshold(m.cfg.SnapThresholdMs)
	m.eng.Selection().Replace(intersect(prev.IDs(), ids))
	m.status = "reloaded"
}

func intersect(want, have []string) []string {
	set := map[string]bool{}
	for _, id := range have {
		set[id] = true
	}
	out := []string{}
	for _, id := range want {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
