// Package config loads and saves the fburn TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all fburn configuration.
type Config struct {
	General    GeneralConfig            `toml:"general"`
	Vehicle    VehicleConfig            `toml:"vehicle"`
	Vehicles   map[string]VehicleConfig `toml:"vehicles,omitempty"`
	Fastag     FastagConfig             `toml:"fastag"`
	Appearance AppearanceConfig         `toml:"appearance"`
	TUI        TUIConfig                `toml:"tui"`
	Daemon     DaemonConfig             `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultDays int    `toml:"default_days"`
	DataDir     string `toml:"data_dir,omitempty"`
	Currency    string `toml:"currency"`
}

// VehicleConfig holds the estimator settings for a vehicle. Zero fields in
// a [vehicles.<name>] table inherit from [vehicle].
type VehicleConfig struct {
	TankCapacityL     float64 `toml:"tank_capacity_l,omitempty"`
	DefaultEfficiency float64 `toml:"default_efficiency_kmpl,omitempty"`
	Weighting         string  `toml:"weighting,omitempty"`
	RecentIntervals   int     `toml:"recent_intervals,omitempty"`
}

// FastagConfig describes the prepaid toll tag used to amortize state tolls.
type FastagConfig struct {
	TotalTrips int     `toml:"total_trips"`
	Cost       float64 `toml:"cost"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DaemonConfig holds settings for `fburn daemon`.
type DaemonConfig struct {
	MQTTBroker      string `toml:"mqtt_broker,omitempty"`
	MQTTTopic       string `toml:"mqtt_topic,omitempty"`
	MQTTUsername    string `toml:"mqtt_username,omitempty"`
	MQTTPassword    string `toml:"mqtt_password,omitempty"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
			Currency:    "₹",
		},
		Vehicle: VehicleConfig{
			TankCapacityL:     35,
			DefaultEfficiency: 15,
			Weighting:         "equal",
		},
		Fastag: FastagConfig{
			TotalTrips: 200,
			Cost:       3000,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Daemon: DaemonConfig{
			MQTTTopic:       "fburn",
			RateLimitPerMin: 120,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fburn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load returns the effective config: the file (or defaults) with FBURN_*
// environment overrides applied. Never pass its result to Save; edit the
// value from LoadFile instead.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads the config file alone, returning defaults if it doesn't
// exist.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadDotEnv loads KEY=value pairs from dir/.env into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from FBURN_* environment variables.
// Unparseable numbers are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("FBURN_DATA_DIR"); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv("FBURN_TANK_CAPACITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Vehicle.TankCapacityL = f
		}
	}
	if v := os.Getenv("FBURN_DEFAULT_EFFICIENCY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Vehicle.DefaultEfficiency = f
		}
	}
	if v := os.Getenv("FBURN_MQTT_BROKER"); v != "" {
		cfg.Daemon.MQTTBroker = v
	}
	if v := os.Getenv("FBURN_MQTT_PASSWORD"); v != "" {
		cfg.Daemon.MQTTPassword = v
	}
}
