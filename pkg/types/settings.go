package types

import (
	"errors"
	"time"
)

// Backup cadence names.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Settings validation errors.
var (
	ErrFrequencyUnknown = errors.New("unknown backup frequency")
	ErrTimeInvalid      = errors.New("backup time must be in HH:MM form")
)

// Settings is the durable key-value document governing scheduled backups and
// the primary database opened at startup.
type Settings struct {
	BackupEnabled   bool      `mapstructure:"backup_enabled"`
	BackupFrequency string    `mapstructure:"backup_frequency"`
	BackupTime      string    `mapstructure:"backup_time"`
	BackupLastRun   time.Time `mapstructure:"backup_last_run"`
	PrimaryDatabase string    `mapstructure:"primary_database"`
}

// DefaultSettings returns the first-run settings: scheduling off, daily at
// midnight, primary database the implicit default.
func DefaultSettings() Settings {
	return Settings{
		BackupEnabled:   false,
		BackupFrequency: FrequencyDaily,
		BackupTime:      "00:00",
		PrimaryDatabase: DefaultDatabaseFile,
	}
}

// Validate checks cadence and time-of-day form. A zero BackupLastRun means no
// scheduled run has succeeded yet.
func (s Settings) Validate() error {
	switch s.BackupFrequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return ErrFrequencyUnknown
	}
	if _, err := time.Parse("15:04", s.BackupTime); err != nil {
		return ErrTimeInvalid
	}
	return nil
}
