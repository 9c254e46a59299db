package tui

import (
	"montage-cli/internal/engine"
	"montage-cli/internal/geom"
	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

// Terminal layout. The engine thinks in content pixels; one terminal cell is
// cellPx pixels wide, so at zoom 1 a second of timeline is ten cells. Each
// track lane is laneRows rows tall and maps onto the engine's fixed pixel
// lane height.
const (
	cellPx   = 6
	laneRows = 2

	headerRows = 2
	rulerRows  = 1
)

func lanesTop() int { return headerRows + rulerRows }

// colToPx converts a terminal column plus horizontal scroll to a content x.
func colToPx(col, scrollCells int) float64 {
	return float64(col+scrollCells) * cellPx
}

func pxToCol(px float64, scrollCells int) int {
	return int(px/cellPx) - scrollCells
}

// rowToLane maps a terminal row to a lane index; false when the row is
// outside the lane area.
func rowToLane(row, laneCount int) (int, bool) {
	r := row - lanesTop()
	if r < 0 {
		return 0, false
	}
	lane := r / laneRows
	if lane >= laneCount {
		return 0, false
	}
	return lane, true
}

// laneToY gives the engine pointer y for a lane: the vertical center of the
// engine's pixel lane, so lane deltas round cleanly.
func laneToY(lane int) float64 {
	return float64(lane)*geom.TrackHeight + geom.TrackHeight/2
}

// hitTest resolves what sits under a press. Alt turns clip-edge presses into
// fade-handle presses; the terminal has no room for separate pixel handles.
func hitTest(db *store.DB, col, row, scrollCells int, zoom float64, alt bool) engine.Hit {
	if row >= headerRows && row < lanesTop() {
		return engine.Hit{Kind: engine.HitRuler}
	}

	tracks := db.TracksOrdered()
	lane, ok := rowToLane(row, len(tracks))
	if !ok {
		return engine.Hit{Kind: engine.HitEmpty}
	}

	t := geom.PixelToTime(colToPx(col, scrollCells), zoom)
	for _, c := range db.ClipsOnTrack(tracks[lane].ID) {
		if !c.Contains(t) {
			continue
		}
		return clipHit(c, col, scrollCells, zoom, alt)
	}
	return engine.Hit{Kind: engine.HitEmpty}
}

func clipHit(c model.Clip, col, scrollCells int, zoom float64, alt bool) engine.Hit {
	leftCol := pxToCol(geom.TimeToPixel(c.Start, zoom), scrollCells)
	rightCol := pxToCol(geom.TimeToPixel(c.End(), zoom), scrollCells) - 1

	switch {
	case col <= leftCol:
		if alt && c.Type.Fadeable() {
			return engine.Hit{Kind: engine.HitFadeInHandle, ClipID: c.ID}
		}
		return engine.Hit{Kind: engine.HitClipLeftEdge, ClipID: c.ID}
	case col >= rightCol:
		if alt && c.Type.Fadeable() {
			return engine.Hit{Kind: engine.HitFadeOutHandle, ClipID: c.ID}
		}
		return engine.Hit{Kind: engine.HitClipRightEdge, ClipID: c.ID}
	default:
		return engine.Hit{Kind: engine.HitClip, ClipID: c.ID}
	}
}
