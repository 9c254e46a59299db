package cli

import (
	"github.com/spf13/cobra"

	"montage-cli/internal/cleanup"
)

func newCleanupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Apply wizard-generated cleanup plans",
	}

	applyCmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Apply a cleanup plan (tags, removals, merges)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := cleanup.LoadPlan(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sum := cleanup.Apply(db, plan)
			if err := commit(s, db, "cleanup.apply", "", map[string]any{
				"removed": sum.Removed,
				"tagged":  sum.Tagged,
				"merged":  sum.Merged,
				"skipped": sum.Skipped,
			}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sum})
		},
	}

	cmd.AddCommand(applyCmd)
	return cmd
}
