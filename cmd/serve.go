package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/server"
	"github.com/PolarWolf314/strongroom/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API on localhost",
	Long: `Starts the JSON API on the loopback address from config.toml
(127.0.0.1:5000 by default). Clients log in with the master passphrase and
receive a session cookie. Stop the server with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting serve command")

		config, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(config, Logger)
		fmt.Fprintln(cmd.OutOrStdout(), ui.Tick()+" Serving on "+ui.Path.Sprint("http://"+srv.Addr()))
		return srv.ListenAndServe(ctx)
	},
}
