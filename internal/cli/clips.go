package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"montage-cli/internal/model"
	"montage-cli/internal/mutate"
	"montage-cli/internal/perm"
	"montage-cli/internal/store"
)

func newClipsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clips",
		Short: "Manage clips on the timeline",
	}

	cmd.AddCommand(newClipsLsCmd(app))
	cmd.AddCommand(newClipsShowCmd(app))
	cmd.AddCommand(newClipsAddCmd(app))
	cmd.AddCommand(newClipsRmCmd(app))
	cmd.AddCommand(newClipsMvCmd(app))
	cmd.AddCommand(newClipsResizeCmd(app))
	cmd.AddCommand(newClipsSplitCmd(app))
	cmd.AddCommand(newClipsMergeCmd(app))
	cmd.AddCommand(newClipsDuplicateCmd(app))
	cmd.AddCommand(newClipsFadeCmd(app))
	cmd.AddCommand(newClipsSetCmd(app))
	return cmd
}

func newClipsLsCmd(app *App) *cobra.Command {
	var trackID string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List clips (optionally one track), track order then start order",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			clips := []model.Clip{}
			for _, t := range db.TracksOrdered() {
				if trackID != "" && t.ID != trackID {
					continue
				}
				clips = append(clips, db.ClipsOnTrack(t.ID)...)
			}
			return writeOut(cmd, app, map[string]any{"data": clips})
		},
	}
	cmd.Flags().StringVar(&trackID, "track", "", "Only clips on this track")
	return cmd
}

func newClipsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <clip-id>",
		Short: "Show one clip with its keyframes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			c, ok := db.FindClip(id)
			if !ok {
				return writeErr(cmd, errNotFound("clip", id))
			}
			ks := []model.Keyframe{}
			for _, k := range db.Keyframes {
				if k.ClipID == id {
					ks = append(ks, k)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"clip":      c,
				"keyframes": ks,
			}})
		},
	}
	return cmd
}

func newClipsAddCmd(app *App) *cobra.Command {
	var (
		trackID  string
		typ      string
		start    int64
		duration int64
		origin   int64
		label    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a clip to a track",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ct, err := model.ParseClipType(typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !perm.CanEditTrack(db, trackID) {
				return writeErr(cmd, errLocked(trackID))
			}
			c := db.AddClip(model.Clip{
				TrackID:        trackID,
				Type:           ct,
				Start:          start,
				Duration:       duration,
				OriginDuration: origin,
				Label:          label,
			})
			if c == nil {
				return writeErr(cmd, errNotFound("compatible track", trackID))
			}
			if ct == model.ClipVideo {
				store.MakeRoom(db, trackID, c.Start, c.Duration, c.ID)
				store.CompactTrack(db, trackID)
				c, _ = db.FindClip(c.ID)
			}
			if err := commit(s, db, "clip.add", c.ID, c); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().StringVar(&trackID, "track", "", "Target track id (required)")
	cmd.Flags().StringVar(&typ, "type", "video", "Clip type")
	cmd.Flags().Int64Var(&start, "start", 0, "Start (ms)")
	cmd.Flags().Int64Var(&duration, "duration", 1000, "Duration (ms)")
	cmd.Flags().Int64Var(&origin, "origin-duration", 0, "Source media duration (ms, trimmable types)")
	cmd.Flags().StringVar(&label, "label", "", "Display label")
	_ = cmd.MarkFlagRequired("track")
	return cmd
}

func newClipsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <clip-id>",
		Short: "Remove a clip (cascades to derived clips, closes video gaps)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			c, ok := db.FindClip(id)
			if !ok {
				return writeErr(cmd, errNotFound("clip", id))
			}
			if !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}
			res := db.RemoveClip(id)
			for _, tid := range res.CompactTrackIDs {
				store.CompactTrack(db, tid)
			}
			if err := commit(s, db, "clip.remove", id, map[string]any{"removed": res.Removed}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": res.Removed}})
		},
	}
	return cmd
}

func newClipsMvCmd(app *App) *cobra.Command {
	var (
		start   int64
		trackID string
	)
	cmd := &cobra.Command{
		Use:   "mv <clip-id>",
		Short: "Move a clip in time and/or to another track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			c, ok := db.FindClip(id)
			if !ok {
				return writeErr(cmd, errNotFound("clip", id))
			}
			if !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}
			origTrack := c.TrackID

			if trackID != "" && trackID != origTrack {
				if tt := db.TrackType(trackID); tt != "" && tt != c.Type {
					return writeErr(cmd, errNotFound("compatible track", trackID))
				}
				if db.ReassignTrack(id, trackID) == nil {
					return writeErr(cmd, errNotFound("track", trackID))
				}
			}
			if cmd.Flags().Changed("start") {
				if start < 0 {
					start = 0
				}
				db.UpdateClip(id, store.ClipPatch{Start: &start})
			}

			c, _ = db.FindClip(id)
			if c.Type == model.ClipVideo {
				store.MakeRoom(db, c.TrackID, c.Start, c.Duration, c.ID)
				store.CompactTrack(db, c.TrackID)
				if origTrack != c.TrackID {
					store.CompactTrack(db, origTrack)
				}
				c, _ = db.FindClip(id)
			}
			if err := commit(s, db, "clip.move", id, c); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().Int64Var(&start, "start", 0, "New start (ms)")
	cmd.Flags().StringVar(&trackID, "track", "", "New track id")
	return cmd
}

func newClipsResizeCmd(app *App) *cobra.Command {
	var (
		duration    int64
		sourceStart int64
	)
	cmd := &cobra.Command{
		Use:   "resize <clip-id>",
		Short: "Change a clip's duration and source window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			c, ok := db.FindClip(id)
			if !ok {
				return writeErr(cmd, errNotFound("clip", id))
			}
			if !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}

			p := store.ClipPatch{}
			if cmd.Flags().Changed("duration") {
				d := clampDuration(c, duration)
				p.Duration = &d
			}
			if cmd.Flags().Changed("source-start") && c.Type.Trimmable() {
				ss := sourceStart
				if ss < 0 {
					ss = 0
				}
				if max := c.OriginDuration - model.MinClipDurationMs; ss > max {
					ss = max
				}
				p.SourceStart = &ss
			}
			c = db.UpdateClip(id, p)
			if c.Type == model.ClipVideo {
				store.CompactTrack(db, c.TrackID)
				c, _ = db.FindClip(id)
			}
			if err := commit(s, db, "clip.resize", id, c); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().Int64Var(&duration, "duration", 0, "New duration (ms)")
	cmd.Flags().Int64Var(&sourceStart, "source-start", 0, "New source offset (ms, trimmable types)")
	return cmd
}

func clampDuration(c *model.Clip, d int64) int64 {
	if d < model.MinClipDurationMs {
		d = model.MinClipDurationMs
	}
	if c.Type.Trimmable() {
		if max := c.OriginDuration - c.SourceStart; d > max {
			d = max
		}
	}
	return d
}

func newClipsSplitCmd(app *App) *cobra.Command {
	var at int64
	cmd := &cobra.Command{
		Use:   "split <clip-id>",
		Short: "Split a clip at a timeline position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if c, ok := db.FindClip(id); ok && !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}
			res := mutate.SplitClip(db, id, at)
			if !res.Changed {
				return writeErr(cmd, errNotFound("splittable clip", id))
			}
			if err := commit(s, db, "clip.split", id, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"left":  res.Left,
				"right": res.Right,
			}})
		},
	}
	cmd.Flags().Int64Var(&at, "at", 0, "Cut position (ms, timeline time)")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newClipsMergeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <clip-id>...",
		Short: "Merge adjacent, source-contiguous clips",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if c, ok := db.FindClip(strings.TrimSpace(args[0])); ok && !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(args[0]))
			}
			res := mutate.MergeAdjacentClips(db, args)
			if !res.Changed {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"merged": map[string][]string{}}})
			}
			if err := commit(s, db, "clips.merge", args[0], res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"merged": res.Merged}})
		},
	}
	return cmd
}

func newClipsDuplicateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicate <clip-id>",
		Short: "Duplicate a clip (video appends to its track)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if c, ok := db.FindClip(id); ok && !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}
			res := mutate.DuplicateClip(db, id)
			if !res.Changed {
				return writeErr(cmd, errNotFound("clip", id))
			}
			if err := commit(s, db, "clip.duplicate", res.Clip.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Clip})
		},
	}
	return cmd
}

func newClipsFadeCmd(app *App) *cobra.Command {
	var fadeIn, fadeOut int64
	cmd := &cobra.Command{
		Use:   "fade <clip-id>",
		Short: "Set fade-in/out durations on an audio-bearing clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			c, ok := db.FindClip(id)
			if !ok || !c.Type.Fadeable() {
				return writeErr(cmd, errNotFound("fadeable clip", id))
			}
			if !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}

			p := store.ClipPatch{}
			if cmd.Flags().Changed("in") {
				v := clampFadeValue(c, fadeIn)
				p.FadeIn = &v
			}
			if cmd.Flags().Changed("out") {
				v := clampFadeValue(c, fadeOut)
				p.FadeOut = &v
			}
			c = db.UpdateClip(id, p)
			if err := commit(s, db, "clip.fade", id, map[string]any{"fadeIn": c.FadeIn, "fadeOut": c.FadeOut}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().Int64Var(&fadeIn, "in", 0, "Fade-in (ms)")
	cmd.Flags().Int64Var(&fadeOut, "out", 0, "Fade-out (ms)")
	return cmd
}

func clampFadeValue(c *model.Clip, v int64) int64 {
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

func newClipsSetCmd(app *App) *cobra.Command {
	var (
		label  string
		volume float64
		speed  float64
		muted  bool
	)
	cmd := &cobra.Command{
		Use:   "set <clip-id>",
		Short: "Set clip presentation fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			c, ok := db.FindClip(id)
			if !ok {
				return writeErr(cmd, errNotFound("clip", id))
			}
			if !perm.CanEditClip(db, c) {
				return writeErr(cmd, errLocked(id))
			}

			p := store.ClipPatch{}
			if cmd.Flags().Changed("label") {
				p.Label = &label
			}
			if cmd.Flags().Changed("volume") {
				p.Volume = &volume
			}
			if cmd.Flags().Changed("speed") {
				p.Speed = &speed
			}
			if cmd.Flags().Changed("muted") {
				p.Muted = &muted
			}
			c = db.UpdateClip(id, p)
			if err := commit(s, db, "clip.update", id, c); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Display label")
	cmd.Flags().Float64Var(&volume, "volume", 1, "Volume (0..1)")
	cmd.Flags().Float64Var(&speed, "speed", 1, "Playback speed")
	cmd.Flags().BoolVar(&muted, "muted", false, "Mute the clip")
	return cmd
}
