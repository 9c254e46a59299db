package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"montage-cli/internal/config"
	"montage-cli/internal/format"
	"montage-cli/internal/store"
	"montage-cli/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "montage",
		Short:        "Montage (local-first) timeline editor CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive timeline TUI
  montage

  # Scriptable commands
  montage clips ls
  montage clips split clip-3f2a --at 4200
  montage import voiceover.json --at 0

  # Inspect what happened
  montage events list --tail --limit 20
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("MONTAGE_DIR", ""), "Path to the .montage store dir (default: discovered from the working directory)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTracksCmd(app))
	cmd.AddCommand(newClipsCmd(app))
	cmd.AddCommand(newKeyframesCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newCleanupCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	cfg, err := config.Load(s.Dir)
	if err != nil {
		return err
	}
	return tui.Run(s, db, cfg)
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, s, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// commit persists the db and appends one event for the mutation that the
// calling command just performed.
func commit(s store.Store, db *store.DB, typ, entityID string, payload any) error {
	if err := s.Save(db); err != nil {
		return err
	}
	return s.AppendEvent(typ, entityID, payload)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
