// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Faultbox/showroom/internal/parts"
)

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Model     ModelConfig     `yaml:"model"`
	Camera    CameraConfig    `yaml:"camera"`
	Lighting  LightingConfig  `yaml:"lighting"`
	Rotation  RotationConfig  `yaml:"rotation"`
	Animation AnimationConfig `yaml:"animation"`
	Parts     PartsConfig     `yaml:"parts"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display and rendering settings.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ModelConfig selects the model to show and how it is prepared.
type ModelConfig struct {
	Path          string        `yaml:"path"`
	Center        bool          `yaml:"center"`         // Move the bounding-box center to the origin
	Watch         bool          `yaml:"watch"`          // Reload when the file changes on disk
	WatchDebounce time.Duration `yaml:"watch_debounce"` // Quiet period before a reload
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOV             float32 `yaml:"fov"`              // Vertical field of view, degrees
	Zoom            bool    `yaml:"zoom"`             // Allow ctrl+wheel zoom
	DragSensitivity float32 `yaml:"drag_sensitivity"` // Radians per dragged pixel
	Background      string  `yaml:"background"`       // Clear color, "#rrggbb"
}

// LightingConfig places the key light.
type LightingConfig struct {
	Azimuth   float32 `yaml:"azimuth"`   // Degrees around Y from +Z
	Elevation float32 `yaml:"elevation"` // Degrees above the horizon
}

// RotationConfig tunes the auto/scroll rotation coordinator.
type RotationConfig struct {
	AutoSpeed         float32       `yaml:"auto_speed"`         // Radians per second
	ScrollSensitivity float32       `yaml:"scroll_sensitivity"` // Radians per wheel unit
	EaseDuration      time.Duration `yaml:"ease_duration"`
	Ease              string        `yaml:"ease"`
	ResumeDelay       time.Duration `yaml:"resume_delay"`
	ResetDuration     time.Duration `yaml:"reset_duration"`
}

// AnimationConfig holds clip selection settings.
type AnimationConfig struct {
	DoorPatterns []string `yaml:"door_patterns"` // Lowercase substrings marking door clips
}

// PartsConfig holds part listing and color preset settings.
type PartsConfig struct {
	Exclude []string                     `yaml:"exclude"` // Lowercase substrings hidden from the part list
	Presets map[string]map[string]string `yaml:"presets"` // Preset name -> part -> hex color
}

// AudioConfig holds sound effect settings.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Volume    float64 `yaml:"volume"`
	DoorOpen  string  `yaml:"door_open"`  // WAV file played when doors open
	DoorClose string  `yaml:"door_close"` // WAV file played when doors close
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Showroom",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			ScreenshotDir: "screenshots",
		},
		Model: ModelConfig{
			Path:          "",
			Center:        true,
			Watch:         false,
			WatchDebounce: 300 * time.Millisecond,
		},
		Camera: CameraConfig{
			FOV:             45,
			Zoom:            false,
			DragSensitivity: 0.005,
			Background:      "#1e1e24",
		},
		Lighting: LightingConfig{
			Azimuth:   40,
			Elevation: 55,
		},
		Rotation: RotationConfig{
			AutoSpeed:         0.5,
			ScrollSensitivity: 0.005,
			EaseDuration:      800 * time.Millisecond,
			Ease:              "power2.out",
			ResumeDelay:       2 * time.Second,
			ResetDuration:     time.Second,
		},
		Animation: AnimationConfig{
			DoorPatterns: []string{"door", "tailgate"},
		},
		Parts: PartsConfig{
			Exclude: slices.Clone(parts.DefaultExclude),
			Presets: DefaultPresets(),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  0.8,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// DefaultPresets returns the built-in color presets.
func DefaultPresets() map[string]map[string]string {
	return map[string]map[string]string{
		"Sport": {
			"Body":   "#FF0000",
			"Hood":   "#000000",
			"Roof":   "#000000",
			"Doors":  "#FF0000",
			"Bumper": "#333333",
		},
		"Luxury": {
			"Body":   "#1a1a1a",
			"Hood":   "#1a1a1a",
			"Roof":   "#1a1a1a",
			"Doors":  "#1a1a1a",
			"Bumper": "#1a1a1a",
		},
		"Racing": {
			"Body":   "#FFFF00",
			"Hood":   "#000000",
			"Roof":   "#FFFF00",
			"Doors":  "#FFFF00",
			"Bumper": "#FF0000",
		},
		"Ocean": {
			"Body":   "#0066CC",
			"Hood":   "#004499",
			"Roof":   "#87CEEB",
			"Doors":  "#0066CC",
			"Bumper": "#003366",
		},
	}
}

// Validate checks values that would break the viewer at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Rotation.EaseDuration < 0 || c.Rotation.ResumeDelay < 0 || c.Rotation.ResetDuration < 0 {
		errs = append(errs, errors.New("rotation durations must not be negative"))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be within 0..180 degrees, got %v", c.Camera.FOV))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume must be within 0..1, got %v", c.Audio.Volume))
	}
	return errors.Join(errs...)
}
