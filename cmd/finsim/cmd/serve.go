package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/invest-sim-go/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запускает HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		port := a.cfg.Port
		if servePort > 0 {
			port = servePort
		}
		return server.New(a.registry, a.logger).ListenAndServe(ctx, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "порт (по умолчанию PORT)")
	rootCmd.AddCommand(serveCmd)
}
