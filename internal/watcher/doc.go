// Package watcher monitors a downloads directory for freshly written
// installer files and feeds them into the batch queue.
//
// The Watcher subscribes to filesystem events on a single directory. A file
// becomes a candidate when its name classifies as a supported installer
// format. Because downloads arrive as a stream of write events, each
// candidate is held until its writes settle before it is enqueued; a partial
// download never reaches the engine.
//
// Key features:
//   - fsnotify-based directory monitoring (no polling)
//   - Write-settle debounce per candidate file
//   - Optional automatic queue drain after enqueue
//   - Daemon mode with PID file management
//   - Graceful shutdown with SIGTERM/SIGINT handling
//
// Example usage:
//
//	q := queue.New(eng, log)
//	w, err := watcher.New(downloadsDir, q, installer.Options{}, log)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Watch in the foreground
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
//
//	// Or as a daemon
//	if err := w.StartDaemon("/tmp/lui.pid", "/tmp/lui.log"); err != nil {
//		log.Fatal(err)
//	}
package watcher
