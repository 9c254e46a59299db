package cli

import (
	"github.com/spf13/cobra"

	"montage-cli/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		toDir     string
		hidden    bool
		keyframes bool
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the timeline as markdown pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := export.WriteTimeline(db, toDir, export.WriteOptions{
				IncludeHidden:    hidden,
				IncludeKeyframes: keyframes,
				Overwrite:        overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&hidden, "include-hidden", false, "Include hidden tracks")
	cmd.Flags().BoolVar(&keyframes, "include-keyframes", false, "Include keyframe sections on clip pages")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
