package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"montage-cli/internal/store"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a project store in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.Dir
			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return writeErr(cmd, err)
				}
				dir = filepath.Join(cwd, store.DirName)
				app.Dir = dir
			}

			s := store.Store{Dir: dir}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"dir": dir}})
		},
	}
	return cmd
}
