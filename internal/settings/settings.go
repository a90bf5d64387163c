// Package settings persists the engine settings as a durable key-value
// document (config.yaml in the configuration directory) using Viper.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Settings keys.
	keyBackupEnabled   = "backup_enabled"
	keyBackupFrequency = "backup_frequency"
	keyBackupTime      = "backup_time"
	keyBackupLastRun   = "backup_last_run"
	keyPrimaryDatabase = "primary_database"
	keyDataDir         = "data_dir"
)

// defaultConfigYAML is written on first run.
const defaultConfigYAML = `# ledgerbook configuration

# Scheduled backups
backup_enabled: false
backup_frequency: daily
backup_time: "00:00"

# Database opened at startup
primary_database: default.db

# Data directory (optional; overridable by --data-dir flag)
# data_dir:
`

// Manager loads and saves the settings document.
type Manager struct {
	configDir string
	v         *viper.Viper
}

// NewManager returns a Manager over the given configuration directory. Load
// must be called before the other operations.
func NewManager(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

// Load reads config.yaml, creating the directory and a default file on first
// run. A missing config.yaml is not an error; defaults apply.
func (m *Manager) Load() (types.Settings, error) {
	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return types.Settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := m.ensureDefaultConfigFile(); err != nil {
		return types.Settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	defaults := types.DefaultSettings()
	v.SetDefault(keyBackupEnabled, defaults.BackupEnabled)
	v.SetDefault(keyBackupFrequency, defaults.BackupFrequency)
	v.SetDefault(keyBackupTime, defaults.BackupTime)
	v.SetDefault(keyPrimaryDatabase, defaults.PrimaryDatabase)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(m.configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	m.v = v

	return m.settings(), nil
}

// Settings returns the currently loaded settings.
func (m *Manager) Settings() types.Settings {
	if m.v == nil {
		return types.DefaultSettings()
	}
	return m.settings()
}

// DataDir returns the optional data_dir value from the settings document.
func (m *Manager) DataDir() string {
	if m.v == nil {
		return ""
	}
	return m.v.GetString(keyDataDir)
}

// Save persists the given settings to config.yaml.
func (m *Manager) Save(s types.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if m.v == nil {
		if _, err := m.Load(); err != nil {
			return err
		}
	}

	m.v.Set(keyBackupEnabled, s.BackupEnabled)
	m.v.Set(keyBackupFrequency, s.BackupFrequency)
	m.v.Set(keyBackupTime, s.BackupTime)
	m.v.Set(keyPrimaryDatabase, s.PrimaryDatabase)
	if s.BackupLastRun.IsZero() {
		m.v.Set(keyBackupLastRun, "")
	} else {
		m.v.Set(keyBackupLastRun, s.BackupLastRun.UTC().Format(time.RFC3339))
	}

	if err := m.v.WriteConfigAs(filepath.Join(m.configDir, configFileExt)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetLastRun stamps the last successful scheduled run and persists it.
func (m *Manager) SetLastRun(t time.Time) error {
	s := m.Settings()
	s.BackupLastRun = t
	return m.Save(s)
}

func (m *Manager) settings() types.Settings {
	s := types.Settings{
		BackupEnabled:   m.v.GetBool(keyBackupEnabled),
		BackupFrequency: m.v.GetString(keyBackupFrequency),
		BackupTime:      m.v.GetString(keyBackupTime),
		PrimaryDatabase: m.v.GetString(keyPrimaryDatabase),
	}
	if raw := m.v.GetString(keyBackupLastRun); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			s.BackupLastRun = t
		}
	}
	return s
}

func (m *Manager) ensureDefaultConfigFile() error {
	path := filepath.Join(m.configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
