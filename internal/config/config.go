// Package config handles exhibit configuration loading and management.
package config

import (
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all exhibit settings.
type Config struct {
	Window    WindowConfig      `yaml:"window"`
	Camera    CameraConfig      `yaml:"camera"`
	Controls  ControlsConfig    `yaml:"controls"`
	EdgePan   EdgePanConfig     `yaml:"edge_pan"`
	Bloom     BloomConfig       `yaml:"bloom"`
	Fog       FogConfig         `yaml:"fog"`
	Hover     HoverConfig       `yaml:"hover"`
	Lights    []SpotlightConfig `yaml:"lights"`
	Artifacts []ArtifactConfig  `yaml:"artifacts"`
	Overlay   OverlayConfig     `yaml:"overlay"`
	Audio     AudioConfig       `yaml:"audio"`
	Assets    AssetsConfig      `yaml:"assets"`
	Logging   LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the perspective camera parameters. FOV is in degrees.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
}

// ControlsConfig is passed through to the fly controls.
type ControlsConfig struct {
	MovementSpeed float32 `yaml:"movement_speed"`
	RollSpeed     float32 `yaml:"roll_speed"`
	DragToLook    bool    `yaml:"drag_to_look"`
}

// EdgePanConfig controls yaw panning when the cursor nears the window edges.
type EdgePanConfig struct {
	Margin float32 `yaml:"margin"` // fraction of window width
	Speed  float32 `yaml:"speed"`  // radians per tick
}

// BloomConfig holds the bloom pass parameters.
type BloomConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Strength  float32 `yaml:"strength"`
	Radius    float32 `yaml:"radius"`
	Threshold float32 `yaml:"threshold"`
}

// FogConfig describes exponential-squared fog.
type FogConfig struct {
	Color   HexColor `yaml:"color"`
	Density float32  `yaml:"density"`
}

// Easing modes for interactable scale animation.
const (
	EasingTick = "tick"
	EasingTime = "time"
)

// HoverConfig holds the easing mode and the scale triplet given to loaded
// artifacts that omit scales.
type HoverConfig struct {
	BaseScale  float32 `yaml:"base_scale"`
	HoverScale float32 `yaml:"hover_scale"`
	ClickScale float32 `yaml:"click_scale"`
	Easing     string  `yaml:"easing"`
	Factor     float32 `yaml:"factor"` // per-tick fraction in tick mode
	Rate       float32 `yaml:"rate"`   // k in 1-e^(-k*dt) in time mode
}

// SpotlightConfig describes one spotlight. Angle is the cone half-angle in
// radians; a zero Distance means unlimited range.
type SpotlightConfig struct {
	Color       HexColor   `yaml:"color"`
	Intensity   float32    `yaml:"intensity"`
	Distance    float32    `yaml:"distance"`
	Angle       float32    `yaml:"angle"`
	Penumbra    float32    `yaml:"penumbra"`
	Decay       float32    `yaml:"decay"`
	Position    [3]float32 `yaml:"position"`
	Target      [3]float32 `yaml:"target"`
	CastShadow  bool       `yaml:"cast_shadow"`
	ShadowSize  int        `yaml:"shadow_size"`
	Pulse       bool       `yaml:"pulse"`
	PulseSpeed  float32    `yaml:"pulse_speed"`
	PulseAmount float32    `yaml:"pulse_amount"`
	FillLight   float32    `yaml:"fill_light"` // intensity of the white directional fill, 0 disables
}

// DefaultSpotlight returns the values an unspecified spotlight field takes.
func DefaultSpotlight() SpotlightConfig {
	return SpotlightConfig{
		Color:       MustHex("#ffffff"),
		Intensity:   2000,
		Angle:       0.3,
		Penumbra:    0.1,
		Decay:       1,
		Position:    [3]float32{0, 20, 0},
		CastShadow:  true,
		ShadowSize:  1080,
		PulseSpeed:  1.5,
		PulseAmount: 0.3,
		FillLight:   0.5,
	}
}

// UnmarshalYAML fills fields missing from the document with DefaultSpotlight.
func (s *SpotlightConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SpotlightConfig
	p := plain(DefaultSpotlight())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SpotlightConfig(p)
	return nil
}

// Material override modes.
const (
	MaterialReplace = "replace" // swap in a fresh material per mesh
	MaterialTint    = "tint"    // clone the imported material and change its colour
)

// MaterialConfig overrides the materials of an artifact's meshes.
type MaterialConfig struct {
	Mode              string   `yaml:"mode"`
	Color             HexColor `yaml:"color"`
	Emissive          HexColor `yaml:"emissive"`
	EmissiveIntensity float32  `yaml:"emissive_intensity"`
	Metalness         float32  `yaml:"metalness"`
	Roughness         float32  `yaml:"roughness"`
	Clearcoat         float32  `yaml:"clearcoat"`
}

// Artifact shapes built without an asset file.
const (
	ShapeSphere = "sphere"
)

// ArtifactConfig describes one placed artifact: either a glTF asset (URL) or
// a procedural Shape.
type ArtifactConfig struct {
	Name          string          `yaml:"name"`
	URL           string          `yaml:"url"`
	Shape         string          `yaml:"shape"`
	Radius        float32         `yaml:"radius"`
	Position      [3]float32      `yaml:"position"`
	Rotation      [3]float32      `yaml:"rotation"` // Euler radians, XYZ
	Scale         float32         `yaml:"scale"`
	Material      *MaterialConfig `yaml:"material"`
	Shadows       bool            `yaml:"shadows"`
	Interactive   bool            `yaml:"interactive"`
	ModalID       string          `yaml:"modal_id"`
	Scales        [3]float32      `yaml:"scales"` // base, hover, click
	RotationAxis  *[3]float32     `yaml:"rotation_axis"`
	RotationSpeed float32         `yaml:"rotation_speed"` // radians per tick
	HoverEmissive *HexColor       `yaml:"hover_emissive"`
	HoverGlow     float32         `yaml:"hover_glow"` // emissive intensity while hovered
}

// DefaultArtifact returns the values an unspecified artifact field takes.
func DefaultArtifact() ArtifactConfig {
	return ArtifactConfig{
		Scale:         1,
		Interactive:   true,
		Scales:        [3]float32{1, 1.5, 1.9},
		RotationSpeed: 0.01,
		HoverGlow:     1,
	}
}

// UnmarshalYAML fills fields missing from the document with DefaultArtifact.
// Missing scales stay zero until fillScales copies them from the hover section.
func (a *ArtifactConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ArtifactConfig
	p := plain(DefaultArtifact())
	p.Scales = [3]float32{}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*a = ArtifactConfig(p)
	return nil
}

// OverlayConfig locates the overlay templates document.
type OverlayConfig struct {
	Document   string        `yaml:"document"`
	Transition time.Duration `yaml:"transition"`
}

// AudioConfig holds the ambient track settings.
type AudioConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Track       string        `yaml:"track"`
	Volume      float32       `yaml:"volume"`
	StartOffset time.Duration `yaml:"start_offset"`
}

// AssetsConfig holds the directory relative asset URLs resolve against.
type AssetsConfig struct {
	Root        string `yaml:"root"`
	Concurrency int    `yaml:"concurrency"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config reproducing the tuned warehouse scene.
func Default() *Config {
	mirror := &MaterialConfig{
		Mode:      MaterialReplace,
		Color:     MustHex("#ffffff"),
		Metalness: 1,
		Roughness: 0.2,
		Clearcoat: 1,
	}
	red := MustHex("#ff0000")
	spot := func(intensity, angle float32, pos, target [3]float32, speed, amount float32) SpotlightConfig {
		s := DefaultSpotlight()
		s.Color = red
		s.Intensity = intensity
		s.Angle = angle
		s.Position = pos
		s.Target = target
		s.Pulse = true
		s.PulseSpeed = speed
		s.PulseAmount = amount
		return s
	}
	artifact := func(name, url, modal string, scale float32, pos [3]float32) ArtifactConfig {
		a := DefaultArtifact()
		a.Name = name
		a.URL = url
		a.ModalID = modal
		a.Scale = scale
		a.Position = pos
		a.Shadows = true
		return a
	}
	axis := func(x, y, z float32) *[3]float32 { return &[3]float32{x, y, z} }

	warehouse := artifact("warehouse", "./assets/warehouse/warehouse_remeshed.gltf", "", 20, [3]float32{100, -50, -300})
	warehouse.Rotation = [3]float32{0, math.Pi / 2, 0}
	warehouse.Interactive = false
	warehouse.Material = &MaterialConfig{Mode: MaterialTint, Color: MustHex("#454545")}

	pressure := artifact("pressure", "./assets/pressure/pressure.gltf", "text-1", 2, [3]float32{10, 20, -80})
	pressure.RotationAxis = axis(0, 0.3, 0)
	pressure.Material = mirror

	hands := artifact("hands", "./assets/hands/hands.gltf", "text-2", 2, [3]float32{-60, 20, -150})
	hands.RotationAxis = axis(0, 0.5, 0)

	weird := artifact("weird_shape", "./assets/weird_shape/weird_shape2.gltf", "text-3", 0.3, [3]float32{-20, 10, -250})
	weird.Scales = [3]float32{0.3, 0.33, 0.36}
	weird.RotationAxis = axis(0.3, 0, 0)
	weird.Material = mirror

	air := artifact("air", "./assets/air/air.gltf", "text-4", 2.8, [3]float32{40, 30, -360})
	air.Scales = [3]float32{2.8, 3.2, 3.5}
	air.RotationAxis = axis(0, 0.3, 0)
	air.Material = mirror

	melting := artifact("melting_man", "./assets/melting/melting_man2.gltf", "text-5", 2.8, [3]float32{-60, 20, -500})
	melting.Rotation = [3]float32{0, -math.Pi / 2, 0}
	melting.Scales = [3]float32{2.8, 3.1, 3.5}
	melting.RotationAxis = axis(0, 0, 0.5)
	melting.Shadows = false

	darkroom := artifact("darkroom", "", "modal-darkroom", 1, [3]float32{-80, 20, -700})
	darkroom.Shape = ShapeSphere
	darkroom.Radius = 15
	darkroom.Shadows = false
	darkroom.Scales = [3]float32{1, 1.5, 1.5} // click only opens the modal
	darkroom.Material = &MaterialConfig{Mode: MaterialReplace, Color: MustHex("#000000"), Metalness: 1}
	glow := red
	darkroom.HoverEmissive = &glow
	darkroom.HoverGlow = 1.5

	return &Config{
		Window: WindowConfig{
			Title:  "Warehouse",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:      40,
			Near:     0.1,
			Far:      15000,
			Position: [3]float32{0, 8, 8},
		},
		Controls: ControlsConfig{
			MovementSpeed: 50,
		},
		EdgePan: EdgePanConfig{
			Margin: 0.05,
			Speed:  0.02,
		},
		Bloom: BloomConfig{
			Enabled:   true,
			Strength:  1.5,
			Radius:    0.5,
			Threshold: 0.2,
		},
		Fog: FogConfig{
			Color:   MustHex("#000000"),
			Density: 0.005,
		},
		Hover: HoverConfig{
			BaseScale:  1,
			HoverScale: 1.5,
			ClickScale: 1.9,
			Easing:     EasingTick,
			Factor:     0.1,
			Rate:       6,
		},
		Lights: []SpotlightConfig{
			spot(8000, 0.2, [3]float32{10, 100, 30}, [3]float32{0, -40, -120}, 2, 0.25),
			spot(3000, 0.15, [3]float32{10, 50, 30}, [3]float32{-60, 20, -150}, 3.5, 0.15),
			spot(3000, 0.35, [3]float32{-50, 60, -150}, [3]float32{-20, 0, -300}, 0.8, 0.4),
			spot(7000, 0.45, [3]float32{-80, 63, -120}, [3]float32{-140, -10, -120}, 3.5, 0.55),
			spot(7000, 0.45, [3]float32{-80, 63, -280}, [3]float32{-140, -10, -280}, 3.5, 0.55),
			spot(7000, 0.45, [3]float32{-80, 53, -420}, [3]float32{-140, -10, -420}, 3.5, 0.55),
		},
		Artifacts: []ArtifactConfig{warehouse, pressure, hands, weird, air, melting, darkroom},
		Overlay: OverlayConfig{
			Document:   "./assets/overlays.html",
			Transition: 300 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled:     true,
			Track:       "./audio/ambient_melody.wav",
			Volume:      0.8,
			StartOffset: time.Second,
		},
		Assets: AssetsConfig{
			Root:        ".",
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
