package cli

import (
	"github.com/spf13/cobra"

	"montage-cli/internal/config"
	"montage-cli/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the read-only timeline snapshot over HTTP + websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := config.Load(s.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if addr == "" {
				addr = cfg.WebAddr
			}
			return web.NewServer(s, addr, cfg.LogPath).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config web_addr)")
	return cmd
}
