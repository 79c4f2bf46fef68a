package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the working and config directories.
const FileName = "showroom.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads defaults overlaid with a single YAML file, without flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Showroom")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Showroom")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "showroom")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "showroom")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Presets in the file are merged by name over the built-in ones.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	builtin := cfg.Parts.Presets
	cfg.Parts.Presets = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Parts.Presets = builtin
		return err
	}

	merged := make(map[string]map[string]string, len(builtin)+len(cfg.Parts.Presets))
	for name, colors := range builtin {
		merged[name] = colors
	}
	for name, colors := range cfg.Parts.Presets {
		merged[name] = colors
	}
	cfg.Parts.Presets = merged
	return nil
}
