package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	s, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.BackupEnabled {
		t.Error("backups should be disabled by default")
	}
	if s.BackupFrequency != types.FrequencyDaily {
		t.Errorf("BackupFrequency = %q, want daily", s.BackupFrequency)
	}
	if s.PrimaryDatabase != types.DefaultDatabaseFile {
		t.Errorf("PrimaryDatabase = %q, want %q", s.PrimaryDatabase, types.DefaultDatabaseFile)
	}
	if !s.BackupLastRun.IsZero() {
		t.Errorf("BackupLastRun should be zero on first run, got %v", s.BackupLastRun)
	}

	if _, err := os.Stat(filepath.Join(dir, configFileExt)); err != nil {
		t.Errorf("default config.yaml should exist: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	lastRun := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := types.Settings{
		BackupEnabled:   true,
		BackupFrequency: types.FrequencyWeekly,
		BackupTime:      "21:30",
		BackupLastRun:   lastRun,
		PrimaryDatabase: "biz.db",
	}
	if err := m.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh manager must read the same document back.
	out, err := NewManager(dir).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !out.BackupEnabled || out.BackupFrequency != types.FrequencyWeekly ||
		out.BackupTime != "21:30" || out.PrimaryDatabase != "biz.db" {
		t.Errorf("reloaded settings = %+v", out)
	}
	if !out.BackupLastRun.Equal(lastRun) {
		t.Errorf("BackupLastRun = %v, want %v", out.BackupLastRun, lastRun)
	}
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	bad := types.Settings{BackupFrequency: "hourly", BackupTime: "00:00"}
	if err := m.Save(bad); err != types.ErrFrequencyUnknown {
		t.Errorf("Save = %v, want ErrFrequencyUnknown", err)
	}
}

func TestSetLastRun(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	stamp := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	if err := m.SetLastRun(stamp); err != nil {
		t.Fatalf("SetLastRun: %v", err)
	}

	out, err := NewManager(dir).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !out.BackupLastRun.Equal(stamp) {
		t.Errorf("BackupLastRun = %v, want %v", out.BackupLastRun, stamp)
	}
}
