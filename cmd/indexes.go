package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	mongodb "github.com/productr/catalog-system/internal/infrastructure/db/mongo"
	"github.com/productr/catalog-system/pkg/logger"
)

// indexesCmd creates the MongoDB indexes without starting the API, for
// deployments that run schema steps separately.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		client, db, err := mongodb.Connect(cmd.Context(), mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		if err := mongodb.EnsureIndexes(cmd.Context(), db); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		logger.Get().Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
