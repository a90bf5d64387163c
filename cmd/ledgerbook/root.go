package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerbook/ledgerbook/internal/backup"
	"github.com/ledgerbook/ledgerbook/internal/paths"
	"github.com/ledgerbook/ledgerbook/internal/registry"
	"github.com/ledgerbook/ledgerbook/internal/settings"
	"github.com/ledgerbook/ledgerbook/internal/sqlite"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// engine holds the wired storage components for the running command.
type engine struct {
	logger   *zap.Logger
	store    *sqlite.Store
	registry *registry.Registry
	log      *backup.Log
	settings *settings.Manager
	orch     *backup.Orchestrator
}

var eng *engine

var rootCmd = &cobra.Command{
	Use:   "ledgerbook",
	Short: "Ledgerbook is a personal-finance record keeper",
	Long: `Ledgerbook keeps a personal expense ledger across one or more local
databases, with scheduled backup sweeps and restore under a chosen
duplicate-handling policy.`,
	SilenceUsage:      true,
	PersistentPreRunE: initEngine,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeEngine()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory holding database files and backups")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// initEngine wires the store, registry, backup log, settings, and
// orchestrator, opens the primary database, and runs a scheduled sweep if one
// is due.
func initEngine(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg := settings.NewManager(configDir)
	loaded, err := cfg.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.DataDir())
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewStore(dataDir, logger)
	reg := registry.New(dataDir)
	blog := backup.NewLog(dataDir, logger)
	orch := backup.NewOrchestrator(store, reg, blog, cfg, dataDir, logger)

	if err := store.Switch(loaded.PrimaryDatabase); err != nil {
		return fmt.Errorf("open primary database: %w", err)
	}
	if err := reg.Touch(loaded.PrimaryDatabase); err != nil {
		logger.Warn("registering primary database", zap.Error(err))
	}

	eng = &engine{
		logger:   logger,
		store:    store,
		registry: reg,
		log:      blog,
		settings: cfg,
		orch:     orch,
	}

	// The scheduled path: a due sweep runs on startup, best effort.
	if summary, ran, err := orch.RunScheduled(time.Now()); err != nil {
		logger.Warn("scheduled backup sweep failed", zap.Error(err))
	} else if ran {
		logger.Info("scheduled backup sweep ran",
			zap.Int("created", summary.Created), zap.Int("failed", summary.Failed))
	}

	return nil
}

// closeEngine releases the active database handle.
func closeEngine() error {
	if eng == nil {
		return nil
	}
	err := eng.store.Close()
	_ = eng.logger.Sync()
	return err
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
