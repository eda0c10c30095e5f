package cmd

import (
	"tailorshop-backend/config"
	"tailorshop-backend/models"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB(cfg.Database)
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}
		log.Info().Msg("Database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
