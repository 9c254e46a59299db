package engine

import (
	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

// fadeMove commits on every move. A fade only changes how one clip renders,
// never where anything sits, so there is no layout to protect with a preview.
func (e *Engine) fadeMove(g *gestureState, p Pointer) {
	c, ok := e.db.FindClip(g.fadeID)
	if !ok {
		return
	}

	// The in handle grows rightward, the out handle grows leftward.
	delta := e.deltaMs(g, p)
	if g.handle == handleFadeOut {
		delta = -delta
	}

	var base int64
	if g.handle == handleFadeIn {
		base = c.FadeIn
	} else {
		base = c.FadeOut
	}
	if !g.moved {
		g.fadeBase = base
		g.moved = true
	}

	val := clampFade(c, g.fadeBase+delta)
	if g.handle == handleFadeIn {
		if val == c.FadeIn {
			return
		}
		e.db.UpdateClip(c.ID, store.ClipPatch{FadeIn: &val})
	} else {
		if val == c.FadeOut {
			return
		}
		e.db.UpdateClip(c.ID, store.ClipPatch{FadeOut: &val})
	}
	e.markDirty()
}

func clampFade(c *model.Clip, v int64) int64 {
	if v < 0 {
		v = 0
	}
	if max := c.Duration / 2; v > max {
		v = max
	}
	if v > model.MaxFadeMs {
		v = model.MaxFadeMs
	}
	return v
}

// fadeCommit reports the gesture's net result once. The per-move store
// writes already happened.
func (e *Engine) fadeCommit(g *gestureState) {
	if !g.moved {
		return
	}
	c, ok := e.db.FindClip(g.fadeID)
	if !ok {
		return
	}
	e.report("clip.fade", c.ID, map[string]any{
		"fadeIn":  c.FadeIn,
		"fadeOut": c.FadeOut,
	})
}
