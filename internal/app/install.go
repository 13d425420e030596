package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/engine"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/output"
)

var (
	optElevate    bool
	optSystemWide bool
	optRunScripts bool

	installCmd = &cobra.Command{
		Use:   "install <file>...",
		Short: "Install one or more package files",
		Long: `Install package files of any supported format.

The file's format is detected from its name and dispatched to the matching
strategy:
  .deb                    dpkg -i, then apt-get -f to resolve dependencies
  .AppImage               copied into the install directory and made executable
  .tar.gz/.tgz/.tar.xz    extracted into its own install directory subfolder
  .snap                   snap install --dangerous
  .flatpak                flatpak install (user-level unless --system)
  .run/.bin               made executable and run directly

Steps that need privileges raise a single pkexec prompt. With several files
the batch runs through the queue, strictly one install at a time.`,
		Example: `  # Single package
  lui install ./slack-desktop-4.36.140-amd64.deb

  # System-wide flatpak
  lui install --system ./org.gimp.GIMP.flatpak

  # Tarball whose install.sh should be executed
  lui install --run-scripts ./tool-2.1-linux-x64.tar.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInstall,
	}
)

func init() {
	addRequestFlags(installCmd)
}

// addRequestFlags registers the per-request option flags shared by install
// and queue.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&optElevate, "elevate", false, "run .run/.bin installers with privileges")
	cmd.Flags().BoolVar(&optSystemWide, "system", false, "install flatpaks system-wide instead of per-user")
	cmd.Flags().BoolVar(&optRunScripts, "run-scripts", false, "execute install.sh found inside extracted tarballs")
}

func runInstall(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if len(args) == 1 {
		return installOne(e, args[0])
	}
	return installBatch(e, args)
}

// cancelOnSignal aborts the in-flight install on SIGINT/SIGTERM instead of
// letting the process die with the child still running. The engine's Cancel
// kills the process tree and the attempt is recorded as cancelled; for
// batches, cancelDrain also stops the queue before the next item. The
// returned stop function restores default signal handling.
func cancelOnSignal(e *env, cancelDrain context.CancelFunc) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "\nreceived %v, aborting...\n", sig)
			if cancelDrain != nil {
				cancelDrain()
			}
			e.engine.Cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// installOne submits a single file directly to the engine.
func installOne(e *env, path string) error {
	opts := requestOptions(e.settings)

	stop := cancelOnSignal(e, nil)
	defer stop()

	spinner := output.NewSpinner(fmt.Sprintf("Installing %s", filepath.Base(path)), installTimeout(e.settings))
	e.engine.OnProgress(func(p engine.Progress) {
		if p.Stage == "installing" {
			spinner.UpdateMessage(p.Message)
		}
	})
	spinner.Start()

	outcome, err := e.engine.Submit(context.Background(), path, opts)
	spinner.Stop()

	if errors.Is(err, engine.ErrBusy) {
		return fmt.Errorf("another installation is in progress; try again shortly")
	}
	if err != nil {
		return err
	}

	fmt.Print(output.RenderOutcome(outcome))
	if outcome.Status != installer.StatusSuccess {
		return fmt.Errorf("installation %s", outcome.Status)
	}
	return nil
}

// installBatch enqueues every file and drains the queue sequentially.
func installBatch(e *env, paths []string) error {
	opts := requestOptions(e.settings)
	for _, p := range paths {
		e.queue.Enqueue(p, opts)
	}

	drainCtx, cancelDrain := context.WithCancel(context.Background())
	defer cancelDrain()
	stop := cancelOnSignal(e, cancelDrain)
	defer stop()

	bar := output.NewProgress(len(paths), "starting batch")
	done := 0
	e.engine.OnProgress(func(p engine.Progress) {
		if p.Stage == "done" {
			done++
			bar.Advance(fmt.Sprintf("%s (%d/%d)", p.Message, done, len(paths)))
		}
	})

	err := e.queue.Drain(drainCtx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("drain queue: %w", err)
	}
	bar.Finish()

	fmt.Println()
	fmt.Print(output.RenderQueueTable(e.queue.Items()))

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("batch aborted; %d item(s) left pending", e.queue.PendingCount())
	}

	failed := 0
	for _, item := range e.queue.Items() {
		if item.Outcome != nil && item.Outcome.Status != installer.StatusSuccess {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d installs did not succeed", failed, len(paths))
	}
	return nil
}
