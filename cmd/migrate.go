package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/warehouse"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply run history and warehouse audit schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("migrate"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		_ = st.Close()

		pool, err := connectWarehouse(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := warehouse.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "migrate warehouse")
		}
		zap.L().Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
