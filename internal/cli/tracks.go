package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"montage-cli/internal/store"
)

func newTracksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Manage timeline tracks",
	}

	listCmd := &cobra.Command{
		Use:   "ls",
		Short: "List tracks in render order",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			type trackRow struct {
				ID         string `json:"id"`
				OrderIndex int    `json:"orderIndex"`
				Type       string `json:"type"`
				Clips      int    `json:"clips"`
				Hidden     bool   `json:"hidden"`
				Locked     bool   `json:"locked"`
				Muted      bool   `json:"muted"`
			}
			rows := []trackRow{}
			for _, t := range db.TracksOrdered() {
				rows = append(rows, trackRow{
					ID:         t.ID,
					OrderIndex: t.OrderIndex,
					Type:       string(db.TrackType(t.ID)),
					Clips:      len(db.ClipsOnTrack(t.ID)),
					Hidden:     t.Hidden,
					Locked:     t.Locked,
					Muted:      t.Muted,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}

	var at int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an empty track",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := db.AddTrack(at)
			if err := commit(s, db, "track.add", t.ID, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	addCmd.Flags().IntVar(&at, "at", 1<<30, "Insertion index (default: append)")

	var (
		hidden bool
		locked bool
		muted  bool
	)
	setCmd := &cobra.Command{
		Use:   "set <track-id>",
		Short: "Set track flags (hidden, locked, muted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			p := store.TrackPatch{}
			if cmd.Flags().Changed("hidden") {
				p.Hidden = &hidden
			}
			if cmd.Flags().Changed("locked") {
				p.Locked = &locked
			}
			if cmd.Flags().Changed("muted") {
				p.Muted = &muted
			}
			t := db.UpdateTrack(id, p)
			if t == nil {
				return writeErr(cmd, errNotFound("track", id))
			}
			if err := commit(s, db, "track.update", id, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	setCmd.Flags().BoolVar(&hidden, "hidden", false, "Hide the track in views")
	setCmd.Flags().BoolVar(&locked, "locked", false, "Refuse edits to the track's clips")
	setCmd.Flags().BoolVar(&muted, "muted", false, "Mute the track")

	rmCmd := &cobra.Command{
		Use:   "rm <track-id>",
		Short: "Remove an empty track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !db.RemoveTrack(id) {
				return writeErr(cmd, errNotFound("empty track", id))
			}
			if err := commit(s, db, "track.remove", id, nil); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": id}})
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(setCmd)
	cmd.AddCommand(rmCmd)
	return cmd
}
