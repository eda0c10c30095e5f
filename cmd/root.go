package cmd

import (
	"tailorshop-backend/config"
	"tailorshop-backend/metrics"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tailorshop",
	Short: "Backend for a tailoring shop",
	Long: `Takes customer orders with garment measurements, tracks them through
the workshop until pickup, and keeps the shop's staff, stock, vendors and
expenses.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config.SetupLogger(cfg.Logging, debug)
		metrics.InitMetrics(cfg.Metrics.Prefix)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file or directory (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
