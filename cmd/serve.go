package cmd

import (
	"github.com/spf13/cobra"

	"github.com/productr/catalog-system/internal/server"
	"github.com/productr/catalog-system/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the Productr HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		log := logger.Get()

		srv, err := server.New(cmd.Context(), cfg)
		if err != nil {
			log.Error().Err(err).Msg("failed to start server")
			return err
		}
		if err := srv.Start(cmd.Context()); err != nil {
			log.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
