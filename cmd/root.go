package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "audit-cli",
	Short: "Packed and shipped vs. ordered quantity audit",
	Long:  "Aggregates packed and shipped lines, matches them to customer orders exactly and by fuzzy PO, flags quantity variances and summarizes match quality per customer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
