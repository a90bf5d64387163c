package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerbook/ledgerbook/internal/paths"
	"github.com/ledgerbook/ledgerbook/internal/registry"
	"github.com/ledgerbook/ledgerbook/internal/settings"
	"github.com/ledgerbook/ledgerbook/internal/sqlite"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

type fixture struct {
	dataDir string
	store   *sqlite.Store
	reg     *registry.Registry
	log     *Log
	cfg     *settings.Manager
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
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
	log := NewLog(dataDir, logger)
	return &fixture{
		dataDir: dataDir,
		store:   store,
		reg:     reg,
		log:     log,
		cfg:     cfg,
		orch:    NewOrchestrator(store, reg, log, cfg, dataDir, logger),
	}
}

// seed inserts records into the named database and switches back to the
// database that was active before.
func (f *fixture) seed(t *testing.T, fileID string, records []types.ExpenseRecord) {
	t.Helper()
	previous := f.store.CurrentFileID()
	require.NoError(t, f.store.Switch(fileID))
	for _, r := range records {
		_, err := f.store.Insert(r)
		require.NoError(t, err)
	}
	require.NoError(t, f.store.Switch(previous))
}

func TestRunSweepBacksUpEveryKnownDatabase(t *testing.T) {
	f := newFixture(t)

	f.seed(t, types.DefaultDatabaseFile, []types.ExpenseRecord{
		{Date: "2024-03-05", Description: "Coffee", Category: "Food", Merchant: "Cafe", Expense: 4.50},
	})
	require.NoError(t, f.reg.Register("Biz", "biz.db"))
	f.seed(t, "biz.db", []types.ExpenseRecord{
		{Date: "2024-03-01", Description: "Hosting", Category: "Infra", Merchant: "Cloudy", Expense: 20},
		{Date: "2024-03-02", Description: "Domain", Category: "Infra", Merchant: "Registrar", Expense: 12},
	})

	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Failed)
	assert.Len(t, summary.Results, 2)
	assert.Equal(t, types.DefaultDatabaseFile, f.store.CurrentFileID(),
		"sweep must leave the original database active")

	entries, err := f.log.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	sources := map[string]int{}
	for _, e := range entries {
		sources[e.SourceDB] = e.RecordCount
		assert.FileExists(t, e.FilePath)
		assert.Contains(t, e.Name, "Manual")
	}
	assert.Equal(t, 1, sources[types.DefaultDatabaseFile])
	assert.Equal(t, 2, sources["biz.db"])
}

func TestRunSweepContinuesPastFailures(t *testing.T) {
	f := newFixture(t)

	// A directory where a database file should be makes the switch fail.
	require.NoError(t, os.MkdirAll(paths.DatabasePath(f.dataDir, "broken.db"), 0o755))
	require.NoError(t, f.reg.Register("Broken", "broken.db"))
	require.NoError(t, f.reg.Register("Biz", "biz.db"))

	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created, "default and biz should still back up")
	assert.Equal(t, 1, summary.Failed)

	var failed *SweepResult
	for i := range summary.Results {
		if summary.Results[i].Err != nil {
			failed = &summary.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "broken.db", failed.Database.FileID)
	assert.Nil(t, failed.Backup)

	assert.Equal(t, types.DefaultDatabaseFile, f.store.CurrentFileID(),
		"original database must be active again even after partial failure")
}

func TestRunSweepDeduplicatesDefault(t *testing.T) {
	f := newFixture(t)

	// The default database registered explicitly must not be swept twice.
	require.NoError(t, f.reg.Register("Main", types.DefaultDatabaseFile))

	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)
}

func TestRestoreSkipDuplicates(t *testing.T) {
	f := newFixture(t)

	overlap := []types.ExpenseRecord{
		{Date: "2024-03-01", Description: "Rent", Category: "Housing", Merchant: "Landlord", Expense: 900},
		{Date: "2024-03-02", Description: "Groceries", Category: "Food", Merchant: "Market", Expense: 55.20},
	}
	fresh := []types.ExpenseRecord{
		{Date: "2024-03-03", Description: "Gas", Category: "Transport", Merchant: "Station", Expense: 40},
		{Date: "2024-03-04", Description: "Cinema", Category: "Fun", Merchant: "Plaza", Expense: 15},
		{Date: "2024-03-05", Description: "Books", Category: "Fun", Merchant: "Pages", Expense: 22},
	}

	// Source database holds everything; take its backup.
	f.seed(t, "source.db", append(append([]types.ExpenseRecord{}, overlap...), fresh...))
	require.NoError(t, f.reg.Register("Source", "source.db"))
	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)
	require.Equal(t, 2, summary.Created)

	var backup types.BackupDescriptor
	entries, err := f.log.List()
	require.NoError(t, err)
	for _, e := range entries {
		if e.SourceDB == "source.db" {
			backup = e
		}
	}
	require.NotEmpty(t, backup.ID)
	require.Equal(t, 5, backup.RecordCount)

	// Target database already holds the overlapping records.
	f.seed(t, "target.db", overlap)

	inserted, err := f.orch.Restore(backup.ID, "target.db", types.MergeSkipDuplicates)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	require.NoError(t, f.store.Switch("target.db"))
	n, err := f.store.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n, "2 existing + (5 - 2 overlap) restored")

	records, err := f.store.List(types.Filter{})
	require.NoError(t, err)
	restored := 0
	for _, r := range records {
		if r.ReportName == "Restored: "+backup.Name {
			restored++
		}
	}
	assert.Equal(t, 3, restored, "restored rows carry the backup-derived provenance label")
}

func TestRestoreKeepAll(t *testing.T) {
	f := newFixture(t)

	records := []types.ExpenseRecord{
		{Date: "2024-03-01", Description: "Rent", Category: "Housing", Merchant: "Landlord", Expense: 900},
	}
	f.seed(t, types.DefaultDatabaseFile, records)
	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Created)
	entries, err := f.log.List()
	require.NoError(t, err)

	inserted, err := f.orch.Restore(entries[0].ID, types.DefaultDatabaseFile, types.MergeKeepAll)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	n, err := f.store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "keepAll restores duplicates too")
}

func TestRestoreSwitchesBackToPreviousActive(t *testing.T) {
	f := newFixture(t)

	f.seed(t, types.DefaultDatabaseFile, []types.ExpenseRecord{
		{Date: "2024-03-01", Description: "Coffee", Expense: 3},
	})
	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Created)
	entries, err := f.log.List()
	require.NoError(t, err)

	_, err = f.orch.Restore(entries[0].ID, "elsewhere.db", types.MergeKeepAll)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDatabaseFile, f.store.CurrentFileID())
}

func TestRestoreRegistersTargetForLaterSweeps(t *testing.T) {
	f := newFixture(t)

	f.seed(t, types.DefaultDatabaseFile, []types.ExpenseRecord{
		{Date: "2024-03-01", Description: "Rent", Category: "Housing", Merchant: "Landlord", Expense: 900},
	})
	summary, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Created)
	entries, err := f.log.List()
	require.NoError(t, err)

	_, err = f.orch.Restore(entries[0].ID, "fresh.db", types.MergeKeepAll)
	require.NoError(t, err)

	known, err := f.reg.List()
	require.NoError(t, err)
	require.Len(t, known, 1)
	assert.Equal(t, "fresh.db", known[0].FileID)

	// The restored-into database is now a sweep candidate.
	summary, err = f.orch.RunSweep("Manual")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)

	entries, err = f.log.List()
	require.NoError(t, err)
	sources := map[string]bool{}
	for _, e := range entries {
		sources[e.SourceDB] = true
	}
	assert.True(t, sources["fresh.db"], "second sweep must back up the restore target")
}

func TestSweepRejectsOverlappingInvocations(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.reg.Register("Biz", "biz.db"))

	// The sweep's own switch notification is the overlap window: a subscriber
	// reacting to it must not be able to start a second sweep or a restore.
	var sweepErr, restoreErr error
	fired := false
	unsubscribe := f.store.Subscribe(func() {
		if fired {
			return
		}
		fired = true
		_, sweepErr = f.orch.RunSweep("Nested")
		_, restoreErr = f.orch.Restore("any", "biz.db", types.MergeKeepAll)
	})
	defer unsubscribe()

	_, err := f.orch.RunSweep("Manual")
	require.NoError(t, err)

	require.True(t, fired, "the sweep's switch must have notified")
	assert.ErrorIs(t, sweepErr, types.ErrBusy)
	assert.ErrorIs(t, restoreErr, types.ErrBusy)

	// With the sweep finished the orchestrator accepts work again.
	_, err = f.orch.RunSweep("Manual")
	assert.NoError(t, err)
}

func TestRestoreValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Restore("any", "target.db", types.MergeStrategy("merge"))
	assert.ErrorIs(t, err, types.ErrUnknownStrategy)

	_, err = f.orch.Restore("ghost", "target.db", types.MergeKeepAll)
	assert.ErrorIs(t, err, types.ErrBackupNotFound)
}

func TestRestoreRejectsMalformedSnapshot(t *testing.T) {
	f := newFixture(t)

	path := filepath.Join(f.dataDir, "mangled.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	require.NoError(t, f.log.Append(types.BackupDescriptor{
		ID: "mangled", Name: "Mangled", SourceDB: types.DefaultDatabaseFile,
		CreatedAt: time.Now().UTC(), FilePath: path,
	}))

	_, err := f.orch.Restore("mangled", types.DefaultDatabaseFile, types.MergeKeepAll)
	assert.ErrorIs(t, err, types.ErrMalformedBackup)
	assert.Equal(t, types.DefaultDatabaseFile, f.store.CurrentFileID())
}

func TestRunScheduled(t *testing.T) {
	f := newFixture(t)

	// Scheduling disabled: nothing runs.
	_, ran, err := f.orch.RunScheduled(time.Now())
	require.NoError(t, err)
	assert.False(t, ran)

	s := f.cfg.Settings()
	s.BackupEnabled = true
	s.BackupFrequency = types.FrequencyDaily
	s.BackupTime = "00:00"
	require.NoError(t, f.cfg.Save(s))

	now := time.Date(2024, 3, 2, 0, 5, 0, 0, time.UTC)
	summary, ran, err := f.orch.RunScheduled(now)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, summary.Created)
	assert.True(t, f.cfg.Settings().BackupLastRun.Equal(now),
		"last run must advance after the sweep returns")

	// Immediately after, nothing is due.
	_, ran, err = f.orch.RunScheduled(now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ran)
}
