package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerbook/ledgerbook/internal/backup"
	"github.com/ledgerbook/ledgerbook/internal/registry"
	"github.com/ledgerbook/ledgerbook/internal/settings"
	"github.com/ledgerbook/ledgerbook/internal/sqlite"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

func newTestEngine(t *testing.T) *engine {
	t.Helper()
	dataDir := t.TempDir()
	logger := zap.NewNop()

	store := sqlite.NewStore(dataDir, logger)
	require.NoError(t, store.Switch(types.DefaultDatabaseFile))
	t.Cleanup(func() { store.Close() })

	cfg := settings.NewManager(t.TempDir())
	_, err := cfg.Load()
	require.NoError(t, err)

	reg := registry.New(dataDir)
	blog := backup.NewLog(dataDir, logger)
	return &engine{
		logger:   logger,
		store:    store,
		registry: reg,
		log:      blog,
		settings: cfg,
		orch:     backup.NewOrchestrator(store, reg, blog, cfg, dataDir, logger),
	}
}

func TestSwitchCommandMakesDatabaseSweepable(t *testing.T) {
	eng = newTestEngine(t)

	require.NoError(t, dbSwitchCmd.RunE(dbSwitchCmd, []string{"personal.db"}))
	_, err := eng.store.Insert(types.ExpenseRecord{
		Date: "2024-03-01", Description: "Coffee", Category: "Food", Merchant: "Cafe", Expense: 3,
	})
	require.NoError(t, err)

	known, err := eng.registry.List()
	require.NoError(t, err)
	require.Len(t, known, 1)
	assert.Equal(t, "personal.db", known[0].FileID)

	summary, err := eng.orch.RunSweep("Manual")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)

	entries, err := eng.log.List()
	require.NoError(t, err)
	sources := map[string]int{}
	for _, e := range entries {
		sources[e.SourceDB] = e.RecordCount
	}
	assert.Equal(t, 1, sources["personal.db"], "the working database must be backed up")
}

func TestSwitchCommandKeepsRegisteredName(t *testing.T) {
	eng = newTestEngine(t)

	require.NoError(t, eng.registry.Register("My Money", "personal.db"))
	require.NoError(t, dbSwitchCmd.RunE(dbSwitchCmd, []string{"personal.db"}))

	known, err := eng.registry.List()
	require.NoError(t, err)
	require.Len(t, known, 1)
	assert.Equal(t, "My Money", known[0].Name)
}
