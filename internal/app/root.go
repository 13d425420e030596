package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	verbose    bool
	timeoutSec int

	// RootCmd is the root command for lui
	RootCmd = &cobra.Command{
		Use:   "lui",
		Short: "Universal installer for Linux application packages",
		Long: `lui installs Linux application packages of any common format through
one command: .deb, .AppImage, .tar.gz/.tgz/.tar.xz, .snap, .flatpak,
.run and .bin.

Each file is classified by extension and handed to the matching install
strategy. Privileged steps go through a single pkexec prompt, every
external command runs under a hard timeout, and every attempt, success
or failure, lands in a local history ledger.

Quick Start:
  1. lui doctor                     # check which package tools are available
  2. lui install ./app.deb          # install one file
  3. lui install ~/Downloads/*.deb  # install a batch, one at a time
  4. lui history                    # review past attempts

Examples:
  # Install a single package
  lui install ./slack-desktop-4.36.140-amd64.deb

  # Batch install with a progress bar
  lui queue ~/Downloads/a.AppImage ~/Downloads/b.flatpak

  # Watch the downloads folder and auto-enqueue new packages
  lui watch --dir ~/Downloads --daemon

  # Show the install ledger
  lui history`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("lui: universal installer for Linux application packages")
			fmt.Println()
			fmt.Println("Run 'lui install <file>' to install a package.")
			fmt.Println("Run 'lui doctor' to check which package tools are available.")
			fmt.Println("Run 'lui --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default: ~/.lui/history.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/lui/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	RootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 0, "per-command timeout in seconds (overrides config)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(installCmd)
	RootCmd.AddCommand(queueCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the history database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	dir, err := luiDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// getDefaultPIDFile returns the default watch daemon PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := luiDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultLogFile returns the default watch daemon log file path
func getDefaultLogFile() (string, error) {
	dir, err := luiDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}

// luiDir returns ~/.lui, creating it if needed.
func luiDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".lui")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}
