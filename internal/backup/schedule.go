package backup

import (
	"time"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// IsScheduledBackupDue reports whether a scheduled backup is due at now.
//
// Disabled scheduling is never due. With no prior successful run, a backup is
// due once now reaches today's configured time-of-day. Otherwise the next run
// is the prior run's date advanced by the cadence with its time-of-day reset
// to the configured target. The computation operates on local wall-clock
// components only; it is agnostic to time zone changes and DST. Known
// limitation, kept deliberately.
func IsScheduledBackupDue(now time.Time, s types.Settings) bool {
	if !s.BackupEnabled {
		return false
	}

	hour, minute := parseTimeOfDay(s.BackupTime)

	if s.BackupLastRun.IsZero() {
		target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		return !now.Before(target)
	}

	last := s.BackupLastRun.In(now.Location())
	var next time.Time
	switch s.BackupFrequency {
	case types.FrequencyWeekly:
		next = last.AddDate(0, 0, 7)
	case types.FrequencyMonthly:
		next = last.AddDate(0, 1, 0)
	default:
		next = last.AddDate(0, 0, 1)
	}
	next = time.Date(next.Year(), next.Month(), next.Day(), hour, minute, 0, 0, next.Location())

	return !now.Before(next)
}

// parseTimeOfDay parses "HH:MM"; a malformed value falls back to midnight.
func parseTimeOfDay(v string) (hour, minute int) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
