package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerbook/ledgerbook/internal/jsonl"
	"github.com/ledgerbook/ledgerbook/internal/paths"
	"github.com/ledgerbook/ledgerbook/internal/registry"
	"github.com/ledgerbook/ledgerbook/internal/settings"
	"github.com/ledgerbook/ledgerbook/internal/sqlite"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// SweepResult is the tagged outcome of one database's backup during a sweep.
type SweepResult struct {
	Database types.DatabaseDescriptor
	Backup   *types.BackupDescriptor
	Err      error
}

// SweepSummary reports a whole sweep. Created plus Failed equals the number
// of candidate databases.
type SweepSummary struct {
	Created int
	Failed  int
	Results []SweepResult
}

// Orchestrator drives backup sweeps and restores. At most one sweep or
// restore is in flight at a time; overlapping invocations fail fast with
// ErrBusy rather than racing the active-handle state.
type Orchestrator struct {
	store     *sqlite.Store
	registry  *registry.Registry
	log       *Log
	settings  *settings.Manager
	backupDir string
	logger    *zap.Logger
	busy      atomic.Bool

	// now is swappable in tests.
	now func() time.Time
}

// NewOrchestrator wires the orchestrator over its collaborators. Snapshot
// files land in the backup subdirectory of dataDir.
func NewOrchestrator(store *sqlite.Store, reg *registry.Registry, log *Log, cfg *settings.Manager, dataDir string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		registry:  reg,
		log:       log,
		settings:  cfg,
		backupDir: paths.BackupDir(dataDir),
		logger:    logger,
		now:       time.Now,
	}
}

// RunSweep backs up every known database: the implicit default plus every
// registry entry, deduplicated by file identifier. Each candidate is switched
// to, snapshotted, and logged; a per-database failure is counted and the
// sweep continues. Afterward the originally active database is switched back;
// if that fails the store falls back to the default database.
func (o *Orchestrator) RunSweep(labelPrefix string) (SweepSummary, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return SweepSummary{}, types.ErrBusy
	}
	defer o.busy.Store(false)

	original := o.store.CurrentFileID()

	entries, err := o.registry.List()
	if err != nil {
		return SweepSummary{}, fmt.Errorf("listing registry for sweep: %w", err)
	}
	candidates := []types.DatabaseDescriptor{{
		Name:   types.DefaultDatabaseName,
		FileID: types.DefaultDatabaseFile,
	}}
	seen := map[string]bool{types.DefaultDatabaseFile: true}
	for _, e := range entries {
		if seen[e.FileID] {
			continue
		}
		seen[e.FileID] = true
		candidates = append(candidates, e)
	}

	var summary SweepSummary
	for _, c := range candidates {
		result := SweepResult{Database: c}

		if o.store.CurrentFileID() != c.FileID {
			if err := o.store.Switch(c.FileID); err != nil {
				result.Err = fmt.Errorf("switching to %s: %w", c.FileID, err)
				o.logger.Error("sweep candidate failed", zap.String("file", c.FileID), zap.Error(result.Err))
				summary.Failed++
				summary.Results = append(summary.Results, result)
				continue
			}
		}

		desc, err := o.snapshot(c, labelPrefix)
		if err == nil {
			err = o.log.Append(desc)
		}
		if err != nil {
			result.Err = err
			o.logger.Error("sweep candidate failed", zap.String("file", c.FileID), zap.Error(err))
			summary.Failed++
		} else {
			result.Backup = &desc
			summary.Created++
		}
		summary.Results = append(summary.Results, result)
	}

	o.restoreActive(original)
	return summary, nil
}

// RunScheduled runs a sweep if one is due per the current settings. The
// returned bool reports whether a sweep ran. The last-run stamp advances
// after the sweep returns regardless of per-database failures; a partially
// failed sweep still advances the schedule.
func (o *Orchestrator) RunScheduled(now time.Time) (SweepSummary, bool, error) {
	if !IsScheduledBackupDue(now, o.settings.Settings()) {
		return SweepSummary{}, false, nil
	}

	summary, err := o.RunSweep("Scheduled")
	if err != nil {
		return summary, true, err
	}
	if err := o.settings.SetLastRun(now); err != nil {
		o.logger.Warn("recording scheduled run", zap.Error(err))
	}
	return summary, true, nil
}

// Restore imports the records of a logged backup into the target database
// under the given merge strategy, returning the count actually inserted.
// When the target differs from the active database the store switches over
// for the import and switches back afterward, import outcome regardless.
// The target becomes a known database: it is registered so later sweeps
// include it.
func (o *Orchestrator) Restore(backupID, targetDB string, strategy types.MergeStrategy) (int, error) {
	if strategy != types.MergeKeepAll && strategy != types.MergeSkipDuplicates {
		return 0, types.ErrUnknownStrategy
	}
	if !o.busy.CompareAndSwap(false, true) {
		return 0, types.ErrBusy
	}
	defer o.busy.Store(false)

	desc, err := o.log.Get(backupID)
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(desc.FilePath)
	if err != nil {
		return 0, fmt.Errorf("reading backup file: %w", err)
	}
	var records []types.ExpenseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrMalformedBackup, err)
	}

	previous := o.store.CurrentFileID()
	switched := false
	if targetDB != previous {
		if err := o.store.Switch(targetDB); err != nil {
			return 0, fmt.Errorf("switching to restore target %s: %w", targetDB, err)
		}
		switched = true
	}

	if err := o.registry.Touch(targetDB); err != nil {
		o.logger.Warn("registering restore target", zap.String("file", targetDB), zap.Error(err))
	}

	label := "Restored: " + desc.Name
	inserted, importErr := o.store.ImportRecords(records, label, strategy == types.MergeSkipDuplicates)

	if switched {
		o.restoreActive(previous)
	}
	return inserted, importErr
}

// snapshot serializes every record of the currently active database into a
// structured backup file and returns its descriptor. The snapshot is a JSON
// array of records, the lossless form Restore accepts.
func (o *Orchestrator) snapshot(db types.DatabaseDescriptor, labelPrefix string) (types.BackupDescriptor, error) {
	records, err := o.store.List(types.Filter{})
	if err != nil {
		return types.BackupDescriptor{}, fmt.Errorf("reading records for snapshot: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return types.BackupDescriptor{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	id := newBackupID()
	now := o.now().UTC()
	path := filepath.Join(o.backupDir, "backup_"+id+".json")
	if err := jsonl.WriteFileAtomic(path, data); err != nil {
		return types.BackupDescriptor{}, fmt.Errorf("writing snapshot: %w", err)
	}

	return types.BackupDescriptor{
		ID:          id,
		Name:        fmt.Sprintf("%s | %s %s", db.Name, labelPrefix, now.Format(types.DateLayout)),
		SourceDB:    db.FileID,
		CreatedAt:   now,
		RecordCount: len(records),
		FilePath:    path,
	}, nil
}

// restoreActive switches the store back to the database active before an
// orchestrator operation. A failed switch-back falls back to the default
// database; if that fails too, the store stays closed and the failure is
// logged. An empty original also resolves to the default database.
func (o *Orchestrator) restoreActive(original string) {
	if original == "" {
		original = types.DefaultDatabaseFile
	}
	if o.store.CurrentFileID() == original {
		return
	}
	err := o.store.Switch(original)
	if err == nil {
		return
	}
	o.logger.Error("restoring active database", zap.String("file", original), zap.Error(err))
	if original != types.DefaultDatabaseFile {
		if err := o.store.Switch(types.DefaultDatabaseFile); err != nil {
			o.logger.Error("falling back to default database", zap.Error(err))
		}
	}
}

// newBackupID generates a time-ordered UUID v7 so backup identifiers sort by
// creation time. Falls back to v4 if v7 generation fails.
func newBackupID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
