package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Quiet   bool `mapstructure:"quiet"`
	Verbose bool `mapstructure:"verbose"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`

	// Remote transport settings
	SSH SSHConfig `mapstructure:"ssh"`
}

// DefaultsConfig holds default values for the collect command
type DefaultsConfig struct {
	Type      string `mapstructure:"type"`       // entry type filter
	Window    string `mapstructure:"window"`     // collection window, e.g. "24h"
	Timeout   string `mapstructure:"timeout"`    // overall batch timeout
	Top       int    `mapstructure:"top"`        // 0 = unlimited
	HostsFile string `mapstructure:"hosts_file"` // default host list file
}

// SSHConfig holds SSH transport settings
type SSHConfig struct {
	User               string `mapstructure:"user"`
	Port               int    `mapstructure:"port"`
	KeyFile            string `mapstructure:"key_file"`
	KeyPassphrase      string `mapstructure:"key_passphrase"`
	Password           string `mapstructure:"password"`
	KnownHostsFile     string `mapstructure:"known_hosts"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	ConnectTimeout     string `mapstructure:"connect_timeout"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Type:    "error",
			Window:  "24h",
			Timeout: "60s",
			Top:     0,
		},
		SSH: SSHConfig{
			Port:           22,
			ConnectTimeout: "10s",
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.evtop.yaml or ./.evtop.yml
// 2. ~/.evtop.yaml or ~/.evtop.yml
// 3. $XDG_CONFIG_HOME/evtop/config.yaml (or ~/.config/evtop/config.yaml)
// 4. /etc/evtop/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".evtop.yaml", ".evtop.yml", "evtop.yaml", "evtop.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	// Search locations in order of precedence (highest first)
	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "evtop"))
	}
	searchPaths = append(searchPaths, "/etc/evtop")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EVTOP_TYPE"); v != "" {
		cfg.Defaults.Type = v
	}
	if v := os.Getenv("EVTOP_WINDOW"); v != "" {
		cfg.Defaults.Window = v
	}
	if v := os.Getenv("EVTOP_TIMEOUT"); v != "" {
		cfg.Defaults.Timeout = v
	}
	if v := os.Getenv("EVTOP_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.Top = n
		}
	}
	if v := os.Getenv("EVTOP_HOSTS_FILE"); v != "" {
		cfg.Defaults.HostsFile = v
	}
	if v := os.Getenv("EVTOP_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("EVTOP_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("EVTOP_SSH_USER"); v != "" {
		cfg.SSH.User = v
	}
	if v := os.Getenv("EVTOP_SSH_KEY"); v != "" {
		cfg.SSH.KeyFile = v
	}
	if v := os.Getenv("EVTOP_SSH_PASSWORD"); v != "" {
		cfg.SSH.Password = v
	}
	if v := os.Getenv("EVTOP_SSH_KNOWN_HOSTS"); v != "" {
		cfg.SSH.KnownHostsFile = v
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
