package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"billsplit/internal/config"
	"billsplit/internal/service"
	"billsplit/internal/session"
	"billsplit/internal/storage"
	"billsplit/internal/storage/sqlite"
	"billsplit/pkg/logging"
)

var (
	flagDebug bool
	flagDB    string
)

var rootCmd = &cobra.Command{
	Use:   "billsplit",
	Short: "billsplit tracks shared utility bills between two people",
	Long: `billsplit keeps a ledger of shared utility bills, records how much
each of the two parties owes, and lets either mark their share paid through
an interactive session.`,
	RunE: runSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Ledger database path (overrides BILLSPLIT_DB)")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "Run against a seeded in-memory ledger")
}

// loadConfig reads the environment and applies the --db override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	return cfg, nil
}

// openStore opens the durable ledger, or a seeded in-memory one in debug mode.
func openStore(cmd *cobra.Command, cfg *config.Config) (storage.Store, error) {
	if flagDebug {
		store, err := sqlite.New(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to open in-memory ledger: %w", err)
		}
		if err := service.Seed(cmd.Context(), store); err != nil {
			store.Close()
			return nil, err
		}
		slog.Info("debug mode: seeded in-memory ledger")
		return store, nil
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	slog.Info("ledger opened", "database", cfg.DBPath)
	return store, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)

	store, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctl := session.New(cmd.InOrStdin(), cmd.OutOrStdout())
	app := service.New(store, ctl)
	return app.Run(cmd.Context())
}
