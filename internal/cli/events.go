package cli

import (
	"github.com/spf13/cobra"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

func newEventsCmd(app *App) *cobra.Command {
	var (
		limit  int
		tail   bool
		entity string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local event log (for future sync)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var evs []model.Event
			switch {
			case entity != "":
				evs, err = store.ReadEventsForEntity(s.Dir, entity, limit)
			case tail:
				evs, err = store.ReadEventsTail(s.Dir, limit)
			default:
				evs, err = store.ReadEvents(s.Dir, limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().BoolVar(&tail, "tail", false, "Return the newest events instead of the oldest")
	listCmd.Flags().StringVar(&entity, "entity", "", "Only events for this entity id")

	cmd.AddCommand(listCmd)
	return cmd
}
