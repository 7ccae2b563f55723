package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"billsplit/internal/export"
	"billsplit/internal/storage"
	"billsplit/internal/storage/sqlite"
	"billsplit/pkg/logging"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every ledger record as CSV for database recovery",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Setup(cfg.LogLevel)

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open ledger: %w", err)
		}
		defer store.Close()

		generation, err := store.Generation(cmd.Context())
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		bills, err := store.ListBills(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagExportOut != "" {
			f, err := os.Create(flagExportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", flagExportOut, err)
			}
			defer f.Close()
			out = f
		}

		if err := export.Write(out, generation, bills); err != nil {
			return err
		}
		if flagExportOut != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Database entries exported to %s!\n", flagExportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Write CSV to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
