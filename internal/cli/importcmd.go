package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"montage-cli/internal/model"
	"montage-cli/internal/mutate"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		trackID string
		at      int64
		overlap bool
	)
	cmd := &cobra.Command{
		Use:   "import <asset.json>",
		Short: "Insert a clip from an asset descriptor file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var desc model.AssetDescriptor
			if err := json.Unmarshal(data, &desc); err != nil {
				return writeErr(cmd, err)
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := mutate.InsertAsset(db, desc, trackID, at, !overlap)
			if !res.Changed {
				return writeErr(cmd, errNotFound("insertable asset type", string(desc.Type)))
			}
			if err := commit(s, db, "clip.insert", res.Clip.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Clip,
				"meta": map[string]any{"trackCreated": res.TrackCreated},
			})
		},
	}
	cmd.Flags().StringVar(&trackID, "track", "", "Preferred target track")
	cmd.Flags().Int64Var(&at, "at", 0, "Insertion time (ms)")
	cmd.Flags().BoolVar(&overlap, "allow-overlap", false, "Place overlay clips on top of existing ones instead of a new track")
	return cmd
}
