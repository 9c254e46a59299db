// Package geom is the pure time<->pixel mapping used by every renderer and
// by the interaction engine when translating pointer positions into times.
package geom

import "math"

const (
	// BaseTickWidth is the pixel width of one second at zoom 1.
	BaseTickWidth float64 = 60

	MinZoom float64 = 0.1
	MaxZoom float64 = 10

	// TrackHeight is the fixed lane height; vertical pointer deltas divide by
	// this (rounded) to produce track-index deltas while dragging.
	TrackHeight float64 = 28
)

func ClampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// TimeToPixel converts a timeline position (ms) to a content-space x pixel.
func TimeToPixel(ms int64, zoom float64) float64 {
	return float64(ms) / 1000 * BaseTickWidth * ClampZoom(zoom)
}

// PixelToTime is the inverse of TimeToPixel.
func PixelToTime(px float64, zoom float64) int64 {
	return int64(math.Round(px / (BaseTickWidth * ClampZoom(zoom)) * 1000))
}

// TrackIndexDelta converts a vertical pixel delta to a whole-lane delta.
func TrackIndexDelta(dy float64) int {
	return int(math.Round(dy / TrackHeight))
}
