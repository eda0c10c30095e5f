package cmd

import (
	"tailorshop-backend/config"
	"tailorshop-backend/models"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo garment schema, units, tailors and stock",
	Long: `Migrates the schema, then fills every empty table with demo data.
Tables that already hold rows are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB(cfg.Database)
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}
		if err := models.Seed(db); err != nil {
			return err
		}
		log.Info().Msg("Demo data seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
