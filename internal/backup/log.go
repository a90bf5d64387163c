// Package backup implements the backup log, the schedule due-ness
// computation, and the backup/restore orchestrator.
package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ledgerbook/ledgerbook/internal/jsonl"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// LogFileName is the backup log file inside the data directory.
const LogFileName = "backup_log.jsonl"

// Log is the append-ordered durable list of backup descriptors. An entry and
// its snapshot file live and die together: List prunes entries whose file
// vanished, Remove deletes both.
type Log struct {
	path   string
	logger *zap.Logger
}

// NewLog returns a Log stored in the given data directory.
func NewLog(dataDir string, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		path:   filepath.Join(dataDir, LogFileName),
		logger: logger,
	}
}

// Append inserts a descriptor at the head of the log and persists it.
func (l *Log) Append(desc types.BackupDescriptor) error {
	entries, err := l.read()
	if err != nil {
		return err
	}
	entries = append([]types.BackupDescriptor{desc}, entries...)
	return l.write(entries)
}

// List returns the log newest first, dropping entries whose snapshot file no
// longer exists. When any entry is dropped the persisted log is rewritten, so
// the drift self-heals.
func (l *Log) List() ([]types.BackupDescriptor, error) {
	entries, err := l.read()
	if err != nil {
		return nil, err
	}

	survivors := make([]types.BackupDescriptor, 0, len(entries))
	pruned := 0
	for _, e := range entries {
		if _, err := os.Stat(e.FilePath); err != nil {
			if os.IsNotExist(err) {
				pruned++
				l.logger.Debug("pruning backup entry with missing file",
					zap.String("backup", e.ID), zap.String("file", e.FilePath))
				continue
			}
			return nil, fmt.Errorf("checking backup file %s: %w", e.FilePath, err)
		}
		survivors = append(survivors, e)
	}

	if pruned > 0 {
		if err := l.write(survivors); err != nil {
			return nil, err
		}
	}
	return survivors, nil
}

// Get returns the descriptor with the given identifier, after pruning.
func (l *Log) Get(id string) (types.BackupDescriptor, error) {
	entries, err := l.List()
	if err != nil {
		return types.BackupDescriptor{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return types.BackupDescriptor{}, types.ErrBackupNotFound
}

// Remove deletes the log entry and its snapshot file. Deleting an already-
// absent file is not an error.
func (l *Log) Remove(id string) error {
	entries, err := l.read()
	if err != nil {
		return err
	}

	found := false
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
			continue
		}
		found = true
		if err := os.Remove(e.FilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting backup file %s: %w", e.FilePath, err)
		}
	}
	if !found {
		return types.ErrBackupNotFound
	}
	return l.write(kept)
}

func (l *Log) read() ([]types.BackupDescriptor, error) {
	records, err := jsonl.Read(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading backup log: %w", err)
	}
	return jsonl.Unmarshal[types.BackupDescriptor](records), nil
}

func (l *Log) write(entries []types.BackupDescriptor) error {
	records, err := jsonl.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding backup log: %w", err)
	}
	if err := jsonl.Write(l.path, records); err != nil {
		return fmt.Errorf("writing backup log: %w", err)
	}
	return nil
}
