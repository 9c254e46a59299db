package engine

import (
	"sort"

	"montage-cli/internal/geom"
)

// Rect is an axis-aligned region in content pixels, normalized so X0 <= X1
// and Y0 <= Y1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func normRect(a, b Pointer) Rect {
	r := Rect{X0: a.X, Y0: a.Y, X1: b.X, Y1: b.Y}
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// marqueeCommit replaces the selection with every clip whose rendered box
// intersects the rubber band. Intersection, not containment: grazing a clip
// selects it.
func (e *Engine) marqueeCommit(g *gestureState) {
	r := normRect(g.start, g.marqueeEnd)
	tracks := e.db.TracksOrdered()

	type hit struct {
		id    string
		lane  int
		start int64
	}
	var hits []hit
	for lane, t := range tracks {
		y0 := float64(lane) * geom.TrackHeight
		y1 := y0 + geom.TrackHeight
		if y1 <= r.Y0 || y0 >= r.Y1 {
			continue
		}
		for i := range e.db.Clips {
			c := &e.db.Clips[i]
			if c.TrackID != t.ID {
				continue
			}
			x0 := geom.TimeToPixel(c.Start, e.db.Zoom)
			x1 := geom.TimeToPixel(c.End(), e.db.Zoom)
			if x1 <= r.X0 || x0 >= r.X1 {
				continue
			}
			hits = append(hits, hit{id: c.ID, lane: lane, start: c.Start})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].lane != hits[j].lane {
			return hits[i].lane < hits[j].lane
		}
		return hits[i].start < hits[j].start
	})
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	e.sel.Replace(ids)
}
