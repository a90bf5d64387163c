package types

import "time"

// DefaultDatabaseFile is the file identifier of the implicit default
// database. It exists even when absent from the registry.
const DefaultDatabaseFile = "default.db"

// DefaultDatabaseName is the display name of the implicit default database.
const DefaultDatabaseName = "Default"

// RegistryLimit caps the database registry at this many entries,
// most-recently-used first.
const RegistryLimit = 10

// DatabaseDescriptor names one known database file in the registry.
type DatabaseDescriptor struct {
	Name      string    `json:"name"`
	FileID    string    `json:"file_id"`
	EnteredAt time.Time `json:"entered_at"`
}

// BackupDescriptor describes one backup snapshot file. Immutable once
// created; the referenced file and the log entry live and die together.
type BackupDescriptor struct {
	ID          string    `json:"backup_id"`
	Name        string    `json:"name"`
	SourceDB    string    `json:"source_db"`
	CreatedAt   time.Time `json:"created_at"`
	RecordCount int       `json:"record_count"`
	FilePath    string    `json:"file_path"`
}

// MergeStrategy governs duplicate handling when restoring a backup.
type MergeStrategy string

// Supported merge strategies.
const (
	// MergeKeepAll inserts every row from the backup.
	MergeKeepAll MergeStrategy = "keepAll"
	// MergeSkipDuplicates skips rows that duplicate-match existing records.
	MergeSkipDuplicates MergeStrategy = "skipDuplicates"
)
