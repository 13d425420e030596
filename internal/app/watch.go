package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/output"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/watcher"
)

var (
	watchDir         string
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and auto-enqueue new package files",
		Long: `Monitor a directory (typically the browser downloads folder) for new
package files and enqueue them automatically.

A file is picked up once its name matches a supported format and its writes
have settled, so a half-finished download is never installed. With
auto_start_queue enabled in the config, the queue drains as files arrive;
otherwise they accumulate until 'lui queue' or 'lui install' runs.

Watch modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: run as a detached background process
  • Stop: stop a running daemon`,
		Example: `  # Watch the downloads folder in the foreground
  lui watch --dir ~/Downloads

  # Run as a background daemon
  lui watch --dir ~/Downloads --daemon

  # Stop the daemon
  lui watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default: watch_dir from config, else ~/Downloads)")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.lui/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.lui/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}

	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopWatchDaemon()
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	dir, err := resolveWatchDir(e)
	if err != nil {
		return err
	}

	w, err := watcher.New(dir, e.queue, requestOptions(e.settings), e.log)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.SetAutoDrain(e.settings.AutoStartQueue)

	if watchDaemon {
		return startWatchDaemon(w, dir)
	}
	if watchDaemonChild {
		// Output is redirected to the log file; run until signalled.
		return w.RunDaemon(watchPIDFile)
	}
	return runWatchForeground(w, dir, e.settings.AutoStartQueue)
}

// resolveWatchDir picks the directory to watch: flag, then config, then
// ~/Downloads.
func resolveWatchDir(e *env) (string, error) {
	if watchDir != "" {
		return watchDir, nil
	}

	dir, err := e.settings.ResolvedWatchDir()
	if err != nil {
		return "", err
	}
	if dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

func stopWatchDaemon() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Println("Watch daemon is not running")
		return nil
	}

	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	fmt.Println("✓ Watch daemon stopped")
	return nil
}

// daemonExtraArgs carries the parent's global flags over to the daemon
// child so it runs against the same config and database.
func daemonExtraArgs() []string {
	var args []string
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	if dbPath != "" {
		args = append(args, "--db", dbPath)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	if timeoutSec > 0 {
		args = append(args, "--timeout", strconv.Itoa(timeoutSec))
	}
	return args
}

func startWatchDaemon(w *watcher.Watcher, dir string) error {
	spinner := output.NewSpinner("Starting watch daemon...", 0)
	spinner.Start()
	if err := w.StartDaemon(watchPIDFile, watchLogFile, daemonExtraArgs()...); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Watch daemon started")

	fmt.Printf("\nWatching %s for package files\n", dir)
	fmt.Printf("  PID file: %s\n", watchPIDFile)
	fmt.Printf("  Log file: %s\n", watchLogFile)
	fmt.Printf("\nTo stop: lui watch --stop\n")
	return nil
}

func runWatchForeground(w *watcher.Watcher, dir string, autoDrain bool) error {
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("Watching %s for package files (press Ctrl+C to stop)\n", dir)
	if autoDrain {
		fmt.Println("New packages install automatically as they arrive.")
	} else {
		fmt.Println("New packages are queued; enable auto_start_queue in the config to install them on arrival.")
	}
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	fmt.Printf("\nReceived signal %v, shutting down...\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	fmt.Println("✓ Watcher stopped")
	return nil
}
