// Package snap computes magnetic alignment for a candidate clip window
// against other clips' edges and the playhead.
package snap

import (
	"sort"

	"montage-cli/internal/model"
)

// Candidate is the in-flight window being dragged or resized. For a
// single-edge gesture (resize) set both fields to the moving edge.
type Candidate struct {
	Left  int64
	Right int64
}

// Edge is one other clip's window, in the track-then-start order the
// resolver scans.
type Edge struct {
	ClipID string
	Left   int64
	Right  int64

	trackOrder int
}

// Result reports where the candidate's left edge landed and what it stuck to.
type Result struct {
	Left    int64
	Snapped bool
	// Target is the clip id snapped to, or "playhead".
	Target string
}

// Edges collects the windows of every clip not in exclude, ordered by track
// order index then start. The scan order decides which snap wins on a tie.
func Edges(clips []model.Clip, trackOrder map[string]int, exclude map[string]bool) []Edge {
	out := make([]Edge, 0, len(clips))
	for _, c := range clips {
		if exclude[c.ID] {
			continue
		}
		out = append(out, Edge{
			ClipID:     c.ID,
			Left:       c.Start,
			Right:      c.End(),
			trackOrder: trackOrder[c.TrackID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].trackOrder != out[j].trackOrder {
			return out[i].trackOrder < out[j].trackOrder
		}
		return out[i].Left < out[j].Left
	})
	return out
}

// Resolve checks, per other clip, four alignments (candidate-left against
// other-right, candidate-right against other-left, left/left, right/right)
// and takes the first within threshold. The playhead (either candidate edge)
// is checked afterward and overrides a clip snap only when it resolves
// closer. Returns the candidate's left edge unchanged when nothing matched.
func Resolve(c Candidate, others []Edge, playhead int64, threshold int64) Result {
	if threshold <= 0 {
		threshold = model.SnapThresholdMs
	}
	width := c.Right - c.Left

	best := Result{Left: c.Left}
	bestDist := int64(-1)

	for _, e := range others {
		pairs := [4][2]int64{
			{c.Left, e.Right},
			{c.Right, e.Left},
			{c.Left, e.Left},
			{c.Right, e.Right},
		}
		for i, p := range pairs {
			d := abs(p[0] - p[1])
			if d > threshold {
				continue
			}
			// Shift the whole candidate so the matching edge aligns.
			left := p[1]
			if i == 1 || i == 3 { // candidate-right alignments
				left = p[1] - width
			}
			best = Result{Left: left, Snapped: true, Target: e.ClipID}
			bestDist = d
			break
		}
		if best.Snapped {
			break
		}
	}

	// Playhead alignment can override a clip snap when it is closer.
	if playhead >= 0 {
		if d := abs(c.Left - playhead); d <= threshold && (bestDist < 0 || d < bestDist) {
			best = Result{Left: playhead, Snapped: true, Target: "playhead"}
			bestDist = d
		}
		if d := abs(c.Right - playhead); d <= threshold && (bestDist < 0 || d < bestDist) {
			best = Result{Left: playhead - width, Snapped: true, Target: "playhead"}
		}
	}

	return best
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
