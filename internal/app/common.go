package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/config"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/engine"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/logging"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/queue"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/runner"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/store"
)

// env bundles the wired-up core every command works against: settings,
// logger, history ledger, and the installation engine.
type env struct {
	settings *config.Settings
	log      *zap.Logger
	db       *store.Store
	engine   *engine.Engine
	queue    *queue.Queue
}

// newEnv loads settings, opens the ledger, and assembles the engine.
// Callers must Close().
func newEnv() (*env, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	log := logging.NewDefault(verbose || settings.VerboseLogging)

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

	installDir, err := settings.ResolvedInstallDir()
	if err != nil {
		db.Close()
		return nil, err
	}

	run := runner.New(installTimeout(settings), log)
	strategies := installer.Strategies(installer.Deps{
		Runner:     run,
		InstallDir: installDir,
		Log:        log,
	})
	eng := engine.New(strategies, db, log)

	return &env{
		settings: settings,
		log:      log,
		db:       db,
		engine:   eng,
		queue:    queue.New(eng, log),
	}, nil
}

func (e *env) Close() {
	e.log.Sync()
	e.db.Close()
}

// loadSettings reads the config file named by --config, or the default
// location when the flag is unset.
func loadSettings() (*config.Settings, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadDefault()
}

// installTimeout applies the --timeout flag over the configured value.
func installTimeout(settings *config.Settings) time.Duration {
	if timeoutSec > 0 {
		return time.Duration(timeoutSec) * time.Second
	}
	return settings.Timeout()
}

// requestOptions assembles per-request switches from install command flags.
func requestOptions(settings *config.Settings) installer.Options {
	return installer.Options{
		Elevate:    optElevate,
		SystemWide: optSystemWide,
		RunScripts: optRunScripts || settings.RunInstallScripts,
	}
}
