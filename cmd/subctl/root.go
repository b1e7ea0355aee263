package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subledger/internal/cli"
	"subledger/internal/config"
	"subledger/internal/ledger"
	"subledger/internal/log"
)

var (
	flagBackend string
	flagDataDir string
	flagSlot    string
	flagServer  string
)

var rootCmd = &cobra.Command{
	Use:           "subctl",
	Short:         "Manage the subscription ledger from the terminal",
	Long: `Inspect and edit the subscription ledger stored in the configured slot.

add and remove write the slot directly, which is only safe while no subledger
server is running: a running server keeps its own copy and would overwrite the
change on its next mutation. Pass --server (or set SUBLEDGER_URL) to send them
through the running server instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend (file, sqlite, memory); defaults to DATA_BACKEND")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory; defaults to SUBLEDGER_DATA_DIR")
	rootCmd.PersistentFlags().StringVar(&flagSlot, "slot", "", "Storage slot name; defaults to SUBLEDGER_SLOT")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", os.Getenv("SUBLEDGER_URL"), "Base URL of a running subledger server for add and remove")
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cli.LoadEnvFile()
	cfg := config.Load()
	if flagBackend != "" {
		cfg.DataBackend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagSlot != "" {
		cfg.Slot = flagSlot
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLedger is the shared loading path used by all commands. Change events
// are published when AMQP_URL is set so a running worker picks up CLI edits.
func openLedger(ctx context.Context) (*config.Config, *ledger.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := cli.SetupLogger().WithComponent(log.ComponentCLI)
	store, cleanup, err := cli.OpenLedger(ctx, logger, cfg, cli.ConnectPublisher(logger, cfg))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, cleanup, nil
}
