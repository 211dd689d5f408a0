package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Camera.FOV != 40 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 15000 {
		t.Errorf("camera = %+v, want fov 40 near 0.1 far 15000", cfg.Camera)
	}
	if cfg.Camera.Position != [3]float32{0, 8, 8} {
		t.Errorf("camera position = %v, want (0,8,8)", cfg.Camera.Position)
	}
	if cfg.Controls.MovementSpeed != 50 || cfg.Controls.RollSpeed != 0 || cfg.Controls.DragToLook {
		t.Errorf("controls = %+v, want speed 50, roll 0, no drag", cfg.Controls)
	}
	if cfg.EdgePan.Margin != 0.05 || cfg.EdgePan.Speed != 0.02 {
		t.Errorf("edge pan = %+v, want margin 0.05 speed 0.02", cfg.EdgePan)
	}
	if cfg.Bloom.Strength != 1.5 || cfg.Bloom.Radius != 0.5 || cfg.Bloom.Threshold != 0.2 {
		t.Errorf("bloom = %+v, want 1.5/0.5/0.2", cfg.Bloom)
	}
	if cfg.Fog.Density != 0.005 || cfg.Fog.Color.Hex() != "#000000" {
		t.Errorf("fog = %v %v, want #000000 0.005", cfg.Fog.Color.Hex(), cfg.Fog.Density)
	}
	if cfg.Hover.BaseScale != 1 || cfg.Hover.HoverScale != 1.5 || cfg.Hover.ClickScale != 1.9 {
		t.Errorf("hover scales = %+v, want 1/1.5/1.9", cfg.Hover)
	}
	if cfg.Hover.Easing != EasingTick || cfg.Hover.Factor != 0.1 {
		t.Errorf("hover easing = %s/%v, want tick/0.1", cfg.Hover.Easing, cfg.Hover.Factor)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultLights(t *testing.T) {
	cfg := Default()

	if len(cfg.Lights) != 6 {
		t.Fatalf("expected 6 spotlights, got %d", len(cfg.Lights))
	}
	first := cfg.Lights[0]
	if first.Intensity != 8000 || first.Angle != 0.2 || first.PulseSpeed != 2 || first.PulseAmount != 0.25 {
		t.Errorf("first light = %+v", first)
	}
	for i, l := range cfg.Lights {
		if !l.Pulse {
			t.Errorf("light %d should pulse", i)
		}
		if l.Color.Hex() != "#ff0000" {
			t.Errorf("light %d colour = %s, want #ff0000", i, l.Color.Hex())
		}
		if !l.CastShadow || l.ShadowSize != 1080 {
			t.Errorf("light %d shadow = %v/%d, want on/1080", i, l.CastShadow, l.ShadowSize)
		}
	}
}

func TestDefaultArtifacts(t *testing.T) {
	cfg := Default()

	byName := map[string]ArtifactConfig{}
	for _, a := range cfg.Artifacts {
		byName[a.Name] = a
	}

	warehouse, ok := byName["warehouse"]
	if !ok {
		t.Fatal("warehouse artifact missing")
	}
	if warehouse.Interactive {
		t.Error("warehouse should not be interactive")
	}
	if warehouse.Material == nil || warehouse.Material.Mode != MaterialTint || warehouse.Material.Color.Hex() != "#454545" {
		t.Errorf("warehouse material = %+v, want tint #454545", warehouse.Material)
	}
	if math.Abs(float64(warehouse.Rotation[1])-math.Pi/2) > 1e-6 {
		t.Errorf("warehouse yaw = %v, want pi/2", warehouse.Rotation[1])
	}

	weird := byName["weird_shape"]
	if weird.Scales != [3]float32{0.3, 0.33, 0.36} {
		t.Errorf("weird_shape scales = %v", weird.Scales)
	}
	if weird.RotationAxis == nil || *weird.RotationAxis != [3]float32{0.3, 0, 0} {
		t.Errorf("weird_shape axis = %v", weird.RotationAxis)
	}

	dark := byName["darkroom"]
	if dark.Shape != ShapeSphere || dark.Radius != 15 || dark.ModalID != "modal-darkroom" {
		t.Errorf("darkroom = %+v", dark)
	}
	if dark.HoverEmissive == nil || dark.HoverEmissive.Hex() != "#ff0000" || dark.HoverGlow != 1.5 {
		t.Errorf("darkroom hover = %v/%v, want #ff0000/1.5", dark.HoverEmissive, dark.HoverGlow)
	}
	if dark.Scales[2] != dark.Scales[1] {
		t.Errorf("darkroom click scale = %v, want the hover scale %v", dark.Scales[2], dark.Scales[1])
	}

	for i := 1; i <= 5; i++ {
		found := false
		for _, a := range cfg.Artifacts {
			if a.ModalID == "text-"+string(rune('0'+i)) {
				found = true
			}
		}
		if !found {
			t.Errorf("no artifact opens text-%d", i)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

fog:
  color: "#101010"
  density: 0.01

hover:
  easing: time
  rate: 8

lights:
  - color: "#00ff00"
    intensity: 1000
    pulse: true
    pulse_speed: 2
    pulse_amount: 0.25

artifacts:
  - name: cube
    url: ./assets/cube/cube.glb
    modal_id: text-9
    position: [1, 2, 3]

overlay:
  transition: 150ms

logging:
  level: "debug"
  log_file: "exhibit.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 || !cfg.Window.Fullscreen {
		t.Errorf("window = %+v", cfg.Window)
	}
	if !cfg.Window.VSync {
		t.Error("vsync should keep its default when absent from the file")
	}
	if cfg.Fog.Color.Hex() != "#101010" {
		t.Errorf("fog colour = %s, want #101010", cfg.Fog.Color.Hex())
	}
	if cfg.Hover.Easing != EasingTime || cfg.Hover.Rate != 8 {
		t.Errorf("hover = %+v", cfg.Hover)
	}

	if len(cfg.Lights) != 1 {
		t.Fatalf("lights should be replaced by the file list, got %d", len(cfg.Lights))
	}
	l := cfg.Lights[0]
	if l.Intensity != 1000 || l.PulseSpeed != 2 {
		t.Errorf("light = %+v", l)
	}
	// Unset fields fall back to the spotlight defaults.
	if l.Angle != 0.3 || l.Penumbra != 0.1 || l.ShadowSize != 1080 || !l.CastShadow {
		t.Errorf("light defaults not applied: %+v", l)
	}

	if len(cfg.Artifacts) != 1 {
		t.Fatalf("artifacts should be replaced by the file list, got %d", len(cfg.Artifacts))
	}
	a := cfg.Artifacts[0]
	if a.Position != [3]float32{1, 2, 3} {
		t.Errorf("artifact position = %v", a.Position)
	}
	if !a.Interactive || a.Scales != [3]float32{1, 1.5, 1.9} || a.RotationSpeed != 0.01 {
		t.Errorf("artifact defaults not applied: %+v", a)
	}

	if cfg.Overlay.Transition != 150*time.Millisecond {
		t.Errorf("overlay transition = %v, want 150ms", cfg.Overlay.Transition)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "exhibit.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFromFileHoverScales(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
hover:
  base_scale: 2
  hover_scale: 3
  click_scale: 4

artifacts:
  - name: plain
    url: ./assets/plain.glb
    modal_id: text-1
  - name: tuned
    url: ./assets/tuned.glb
    modal_id: text-2
    scales: [0.5, 0.6, 0.7]
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if got := cfg.Artifacts[0].Scales; got != [3]float32{2, 3, 4} {
		t.Errorf("artifact without scales = %v, want hover triplet [2 3 4]", got)
	}
	if got := cfg.Artifacts[1].Scales; got != [3]float32{0.5, 0.6, 0.7} {
		t.Errorf("explicit scales = %v, want [0.5 0.6 0.7]", got)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool // wraps ErrInvalid rather than a parse error
	}{
		{"syntax", "window:\n  width: not a number\n  invalid syntax here\n", false},
		{"colour", "fog:\n  color: \"#zzzzzz\"\n", false},
		{"easing", "hover:\n  easing: bouncy\n", true},
		{"no modal", "artifacts:\n  - url: ./a.gltf\n", true},
		{"no source", "artifacts:\n  - modal_id: text-1\n", true},
		{"clip range", "camera:\n  near: 10\n  far: 1\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			err := loadFromFile(Default(), configPath)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 1024
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Window.Width != 1024 {
		t.Errorf("width = %d, want 1024", loaded.Window.Width)
	}
	if len(loaded.Artifacts) != len(cfg.Artifacts) {
		t.Errorf("artifacts = %d, want %d", len(loaded.Artifacts), len(cfg.Artifacts))
	}
	if loaded.Lights[3].Color.Hex() != "#ff0000" {
		t.Errorf("light colour = %s, want #ff0000", loaded.Lights[3].Color.Hex())
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "mute and no-bloom",
			setup: func() {
				*flagMute = true
				*flagNoBloom = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Enabled {
					t.Error("expected audio disabled with -mute")
				}
				if cfg.Bloom.Enabled {
					t.Error("expected bloom disabled with -no-bloom")
				}
			},
			teardown: func() {
				*flagMute = false
				*flagNoBloom = false
			},
		},
		{
			name:  "assets root",
			setup: func() { *flagAssets = "/srv/exhibit" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Root != "/srv/exhibit" {
					t.Errorf("assets root = %s", cfg.Assets.Root)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := "window:\n  width: 1600\n  height: 900\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}
