package config

import (
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config to the file given with --config, or to the user's
// config directory.
func (c *Config) Save() error {
	path := ConfigPath()
	if path == "" {
		path = filepath.Join(ConfigDir(), FileName)
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetPreset stores colors (part -> hex) under name, replacing any preset
// with that name.
func (c *Config) SetPreset(name string, colors map[string]string) {
	if c.Parts.Presets == nil {
		c.Parts.Presets = make(map[string]map[string]string)
	}
	c.Parts.Presets[name] = maps.Clone(colors)
}
