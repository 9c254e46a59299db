package cli

import (
	"github.com/spf13/cobra"

	"montage-cli/internal/store"
)

func newDoctorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Repair timeline invariants (overlaps, video gaps)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			// Load() already self-heals; run the repairs explicitly so we can
			// report whether anything was off.
			ctx := cmd.Context()
			db, err := s.LoadSQLite(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			overlapsFixed := store.ResolveOverlaps(db)
			gapsClosed := store.CompactAllVideo(db)
			if overlapsFixed || gapsClosed {
				if err := commit(s, db, "doctor.repair", "", map[string]any{
					"overlapsFixed": overlapsFixed,
					"gapsClosed":    gapsClosed,
				}); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"overlapsFixed": overlapsFixed,
				"gapsClosed":    gapsClosed,
			}})
		},
	}
	return cmd
}
