package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// StorageConfig contains settings for the on-disk note store.
type StorageConfig struct {
	Dir             string `toml:"dir"`
	Filename        string `toml:"filename"`
	BackupRetention int    `toml:"backup_retention"`
}

// SchedulerConfig contains settings for the reminder scheduler.
//
// DispatchRate and DispatchBurst bound how fast delivery callbacks are
// invoked when many reminders come due at once (e.g. after startup
// recovery re-registers a backlog of past-due reminders).
type SchedulerConfig struct {
	DispatchRate   float64 `toml:"dispatch_rate"`
	DispatchBurst  int     `toml:"dispatch_burst"`
	RecoverOnStart bool    `toml:"recover_on_start"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
