package app

import (
	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue <file>...",
	Short: "Install a batch of files through the sequential queue",
	Long: `Enqueue package files and drain the queue strictly first-in, first-out.

Exactly one install runs at any moment; each file waits for the previous
outcome before starting. If a direct install is holding the lock, the drain
pauses and resumes when it frees. Every attempt is recorded in the history
ledger, failures included, and a failed item never stops the rest of the
batch.`,
	Example: `  # Install everything downloaded today, one at a time
  lui queue ~/Downloads/app.AppImage ~/Downloads/tool.deb ~/Downloads/game.snap`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueue,
}

func init() {
	addRequestFlags(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	return installBatch(e, args)
}
