package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration value outside its accepted range.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
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
		return filepath.Join(home, "Library", "Application Support", "WarehouseExhibit")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "WarehouseExhibit")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "warehouse-exhibit")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "warehouse-exhibit")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Lists (lights, artifacts) present in the file replace the defaults whole.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.fillScales()
	return cfg.Validate()
}

func (c *Config) fillScales() {
	for i := range c.Artifacts {
		if c.Artifacts[i].Scales == ([3]float32{}) {
			c.Artifacts[i].Scales = [3]float32{c.Hover.BaseScale, c.Hover.HoverScale, c.Hover.ClickScale}
		}
	}
}

// Validate rejects settings the exhibit cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalid)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip range %v..%v: %w", c.Camera.Near, c.Camera.Far, ErrInvalid)
	}
	if c.Hover.Easing != EasingTick && c.Hover.Easing != EasingTime {
		return fmt.Errorf("hover easing %q: %w", c.Hover.Easing, ErrInvalid)
	}
	for i, a := range c.Artifacts {
		if a.URL == "" && a.Shape == "" {
			return fmt.Errorf("artifact %d (%s) has neither url nor shape: %w", i, a.Name, ErrInvalid)
		}
		if a.Interactive && a.ModalID == "" {
			return fmt.Errorf("artifact %d (%s) is interactive without modal_id: %w", i, a.Name, ErrInvalid)
		}
		if a.Scales[0] <= 0 || a.Scales[1] <= 0 || a.Scales[2] <= 0 {
			return fmt.Errorf("artifact %d (%s) scales %v must be positive: %w", i, a.Name, a.Scales, ErrInvalid)
		}
	}
	return nil
}
