package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed = errors.New("store has no open database")
	ErrNotFound    = errors.New("record not found")
	ErrInvalidID   = errors.New("invalid record ID")
)

// Orchestrator errors.
var (
	ErrBusy            = errors.New("a backup or restore is already in flight")
	ErrBackupNotFound  = errors.New("backup not found")
	ErrMalformedBackup = errors.New("backup file is malformed")
	ErrUnknownStrategy = errors.New("unknown merge strategy")
)

// Query errors.
var (
	ErrUnknownColumn = errors.New("unknown column")
)
