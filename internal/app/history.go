package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/output"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/store"
)

var (
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show the installation ledger",
		Long: `Show every recorded installation attempt, oldest first.

The ledger is append-only: successes, failures, timeouts and cancellations
all land here and are never rewritten. It survives restarts, so it is the
authoritative answer to "did that install actually happen?".`,
		Example: `  # Full ledger
  lui history

  # Wipe it
  lui history clear`,
		RunE: runHistory,
	}

	historyClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded history",
		RunE:  runHistoryClear,
	}
)

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.History()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	fmt.Print(output.RenderHistoryTable(records))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	db, err := openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := db.Count()
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}
	if count == 0 {
		fmt.Println("History is already empty.")
		return nil
	}

	if err := db.ClearHistory(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d history record(s).\n", count)
	return nil
}

// openLedger opens the history database without assembling the full engine;
// read-side commands don't need strategies or a runner.
func openLedger() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history database: %w", err)
	}
	return db, nil
}
