package tui

import (
	"fmt"
	"sort"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"montage-cli/internal/engine"
	"montage-cli/internal/geom"
	"montage-cli/internal/model"
)

func (m *timelineModel) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	snap := m.eng.Snapshot()

	var b strings.Builder
	b.WriteString(m.headerView(snap))
	b.WriteString("\n\n")
	b.WriteString(m.rulerView(snap))
	b.WriteString("\n")
	for lane, t := range snap.Tracks {
		b.WriteString(m.laneView(snap, lane, t))
		b.WriteString("\n")
		b.WriteString(m.th.laneName.Render(laneLabel(snap, t)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.footerView(snap))
	return b.String()
}

func (m *timelineModel) headerView(snap engine.Snapshot) string {
	left := m.th.header.Render(fmt.Sprintf("Montage  %s", m.s.Dir))
	right := fmt.Sprintf("t=%s  zoom=%.2fx  %s", fmtMs(snap.CurrentTime), snap.Zoom, gestureLabel(snap.Gesture))
	pad := m.width - xansi.StringWidth(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func gestureLabel(g engine.GestureKind) string {
	if g == engine.GestureNone {
		return ""
	}
	return "[" + g.String() + "]"
}

// rulerView draws second ticks plus the playhead marker.
func (m *timelineModel) rulerView(snap engine.Snapshot) string {
	cells := make([]rune, m.width)
	for i := range cells {
		cells[i] = '·'
	}
	for sec := 0; ; sec++ {
		col := pxToCol(geom.TimeToPixel(int64(sec)*1000, snap.Zoom), m.scrollCells)
		if col >= m.width {
			break
		}
		if col < 0 {
			continue
		}
		label := []rune(fmt.Sprintf("|%d", sec))
		for i, r := range label {
			if col+i < m.width {
				cells[col+i] = r
			}
		}
	}

	line := m.th.ruler.Render(string(cells))
	phCol := pxToCol(geom.TimeToPixel(snap.CurrentTime, snap.Zoom), m.scrollCells)
	if phCol >= 0 && phCol < m.width {
		marker := m.th.playhead.Render("▼")
		line = xansi.Cut(line, 0, phCol) + marker + xansi.Cut(line, phCol+1, m.width)
	}
	return line
}

// laneView renders one track's clips as colored blocks. Preview geometry is
// already folded into the snapshot, so a mid-gesture drag just renders where
// the pointer has taken it.
func (m *timelineModel) laneView(snap engine.Snapshot, lane int, t model.Track) string {
	selected := map[string]bool{}
	for _, id := range snap.Selected {
		selected[id] = true
	}

	clips := []model.Clip{}
	for _, c := range snap.Clips {
		if c.TrackID == t.ID {
			clips = append(clips, c)
		}
	}
	sortClipsByStart(clips)

	var b strings.Builder
	cursor := 0
	for _, c := range clips {
		c0 := pxToCol(geom.TimeToPixel(c.Start, snap.Zoom), m.scrollCells)
		c1 := pxToCol(geom.TimeToPixel(c.End(), snap.Zoom), m.scrollCells)
		if c1 <= 0 || c0 >= m.width {
			continue
		}
		if c0 < cursor {
			c0 = cursor
		}
		if c1 > m.width {
			c1 = m.width
		}
		w := c1 - c0
		if w <= 0 {
			continue
		}
		b.WriteString(strings.Repeat(" ", c0-cursor))
		b.WriteString(m.th.clipStyle(c.Type, selected[c.ID]).Render(clipCell(c, w)))
		cursor = c1
	}
	if cursor < m.width {
		b.WriteString(strings.Repeat(" ", m.width-cursor))
	}
	return b.String()
}

// clipCell fits a clip's label into w cells, width-aware.
func clipCell(c model.Clip, w int) string {
	label := c.Label
	if label == "" {
		label = string(c.Type)
	}
	if xansi.StringWidth(label) > w {
		if w <= 1 {
			return strings.Repeat("▒", w)
		}
		label = xansi.Cut(label, 0, w-1) + "…"
	}
	pad := w - xansi.StringWidth(label)
	return label + strings.Repeat(" ", pad)
}

func laneLabel(snap engine.Snapshot, t model.Track) string {
	typ := "empty"
	for _, c := range snap.Clips {
		if c.TrackID == t.ID {
			typ = string(c.Type)
			break
		}
	}
	flags := ""
	if t.Hidden {
		flags += " hidden"
	}
	if t.Locked {
		flags += " locked"
	}
	if t.Muted {
		flags += " muted"
	}
	return fmt.Sprintf("  %s%s", typ, flags)
}

func (m *timelineModel) footerView(snap engine.Snapshot) string {
	parts := []string{}
	if m.status != "" {
		parts = append(parts, m.th.status.Render(m.status))
	}
	if snap.Marquee != nil {
		parts = append(parts, m.th.status.Render("selecting..."))
	}
	if len(snap.Selected) > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", len(snap.Selected)))
	}
	parts = append(parts, m.th.footer.Render("drag: move  edges: trim  shift: add  ctrl-drag: marquee  s: split  d: delete  M: merge  ?: help  q: quit"))
	return strings.Join(parts, "  ")
}

func fmtMs(ms int64) string {
	return fmt.Sprintf("%d.%03ds", ms/1000, ms%1000)
}

func sortClipsByStart(clips []model.Clip) {
	sort.Slice(clips, func(i, j int) bool { return clips[i].Start < clips[j].Start })
}
