package geom

import "testing"

func TestTimeToPixelRoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 100, 1000, 90_000, 3_600_000} {
		for _, zoom := range []float64{MinZoom, 0.5, 1, 2.5, MaxZoom} {
			px := TimeToPixel(ms, zoom)
			back := PixelToTime(px, zoom)
			if back != ms {
				t.Fatalf("round trip ms=%d zoom=%v: got %d", ms, zoom, back)
			}
		}
	}
}

func TestTimeToPixelScale(t *testing.T) {
	// One second at zoom 1 is exactly one base tick.
	if got := TimeToPixel(1000, 1); got != BaseTickWidth {
		t.Fatalf("expected %v; got %v", BaseTickWidth, got)
	}
	if got := TimeToPixel(1000, 2); got != 2*BaseTickWidth {
		t.Fatalf("expected %v; got %v", 2*BaseTickWidth, got)
	}
}

func TestClampZoom(t *testing.T) {
	if got := ClampZoom(0); got != MinZoom {
		t.Fatalf("expected clamp to MinZoom; got %v", got)
	}
	if got := ClampZoom(1000); got != MaxZoom {
		t.Fatalf("expected clamp to MaxZoom; got %v", got)
	}
	// Out-of-range zooms are clamped inside the conversion too.
	if TimeToPixel(1000, 0) != TimeToPixel(1000, MinZoom) {
		t.Fatalf("TimeToPixel should clamp zoom")
	}
}

func TestTrackIndexDelta(t *testing.T) {
	if got := TrackIndexDelta(0); got != 0 {
		t.Fatalf("expected 0; got %d", got)
	}
	if got := TrackIndexDelta(TrackHeight); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
	if got := TrackIndexDelta(-TrackHeight * 2.4); got != -2 {
		t.Fatalf("expected -2; got %d", got)
	}
	// Half a lane rounds to the nearest lane.
	if got := TrackIndexDelta(TrackHeight * 0.6); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
}
