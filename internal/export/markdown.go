package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

type RenderOptions struct {
	IncludeHidden    bool
	IncludeKeyframes bool
}

// RenderTimelineMarkdown renders the whole project as a single markdown
// document: one section per track, clips in start order.
func RenderTimelineMarkdown(db *store.DB, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Timeline")
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- Tracks: " + fmt.Sprint(len(db.Tracks)))
	writeLn("- Clips: " + fmt.Sprint(len(db.Clips)))
	writeLn("- Duration: " + fmtMs(timelineEnd(db)))
	writeLn("- Playhead: " + fmtMs(db.CurrentTime))
	writeLn("- Exported: " + time.Now().UTC().Format(time.RFC3339))

	for _, t := range db.TracksOrdered() {
		if t.Hidden && !opt.IncludeHidden {
			continue
		}
		writeLn("")
		writeLn("## " + trackHeading(db, t))
		writeLn("")
		clips := db.ClipsOnTrack(t.ID)
		if len(clips) == 0 {
			writeLn("_empty_")
			continue
		}
		sort.SliceStable(clips, func(i, j int) bool { return clips[i].Start < clips[j].Start })
		for _, c := range clips {
			writeLn(clipLine(c))
		}
	}
	return buf.String(), nil
}

// RenderClipMarkdown renders one clip as its own page.
func RenderClipMarkdown(db *store.DB, clipID string, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	c, ok := db.FindClip(strings.TrimSpace(clipID))
	if !ok {
		return "", fmt.Errorf("clip not found: %s", clipID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + clipTitle(*c))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + c.ID)
	writeLn("- Track: " + c.TrackID)
	writeLn("- Type: " + string(c.Type))
	writeLn("- Start: " + fmtMs(c.Start))
	writeLn("- Duration: " + fmtMs(c.Duration))
	if c.Type.Trimmable() {
		writeLn("- Source window: " + fmtMs(c.SourceStart) + " .. " + fmtMs(c.SourceStart+c.Duration) + " of " + fmtMs(c.OriginDuration))
	}
	if c.FadeIn > 0 {
		writeLn("- Fade in: " + fmtMs(c.FadeIn))
	}
	if c.FadeOut > 0 {
		writeLn("- Fade out: " + fmtMs(c.FadeOut))
	}
	if c.Muted {
		writeLn("- Muted: true")
	}
	if c.Speed != 0 && c.Speed != 1 {
		writeLn("- Speed: " + fmt.Sprintf("%g", c.Speed))
	}
	if len(c.Metadata) > 0 {
		keys := make([]string, 0, len(c.Metadata))
		for k := range c.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeLn("- " + k + ": " + c.Metadata[k])
		}
	}
	writeLn("- Created: " + c.CreatedAt.UTC().Format(time.RFC3339))
	writeLn("- Updated: " + c.UpdatedAt.UTC().Format(time.RFC3339))

	if opt.IncludeKeyframes {
		ks := keyframesForClip(db, c.ID)
		if len(ks) > 0 {
			writeLn("")
			writeLn("## Keyframes")
			writeLn("")
			for _, k := range ks {
				writeLn(fmt.Sprintf("- %s @ %.3f = %v (%s)", k.Property, k.Offset, k.Value, k.Easing))
			}
		}
	}
	return buf.String(), nil
}

func trackHeading(db *store.DB, t model.Track) string {
	tt := db.TrackType(t.ID)
	label := "Track " + fmt.Sprint(t.OrderIndex+1)
	if tt != "" {
		label += " (" + string(tt) + ")"
	}
	flags := []string{}
	if t.Locked {
		flags = append(flags, "locked")
	}
	if t.Muted {
		flags = append(flags, "muted")
	}
	if t.Hidden {
		flags = append(flags, "hidden")
	}
	if len(flags) > 0 {
		label += " [" + strings.Join(flags, ", ") + "]"
	}
	return label
}

func clipLine(c model.Clip) string {
	title := clipTitle(c)
	line := fmt.Sprintf("- [%s](clips/%s.md) %s .. %s", title, c.ID, fmtMs(c.Start), fmtMs(c.End()))
	if c.FadeIn > 0 || c.FadeOut > 0 {
		line += fmt.Sprintf(" (fade %s/%s)", fmtMs(c.FadeIn), fmtMs(c.FadeOut))
	}
	return line
}

func clipTitle(c model.Clip) string {
	if l := strings.TrimSpace(c.Label); l != "" {
		return l
	}
	return string(c.Type)
}

func keyframesForClip(db *store.DB, clipID string) []model.Keyframe {
	out := make([]model.Keyframe, 0)
	for _, k := range db.Keyframes {
		if k.ClipID != clipID {
			continue
		}
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Property != out[j].Property {
			return out[i].Property < out[j].Property
		}
		return out[i].Offset < out[j].Offset
	})
	return out
}

func timelineEnd(db *store.DB) int64 {
	var end int64
	for _, c := range db.Clips {
		if e := c.End(); e > end {
			end = e
		}
	}
	return end
}

func fmtMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	return fmt.Sprintf("%d:%02d.%03d", s/60, s%60, ms%1000)
}
