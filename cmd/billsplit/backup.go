package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"billsplit/internal/backup"
	"billsplit/pkg/logging"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the ledger database to the backup directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Setup(cfg.LogLevel)

		fmt.Fprintln(cmd.OutOrStdout(), "Backing up database...")
		dst, err := backup.Backup(cfg.DBPath, cfg.BackupDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database has successfully been backed up to %s.\n", dst)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the ledger database from the backup directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Setup(cfg.LogLevel)

		fmt.Fprintln(cmd.OutOrStdout(), "Restoring database from backup...")
		if err := backup.Restore(cfg.DBPath, cfg.BackupDir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database restored to %s.\n", cfg.DBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
