// Package lights creates the exhibit's spotlights and animates their
// intensity pulses.
package lights

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/config"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/lighting"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// PulseRecord drives one light's intensity as
// base * (1 + amount * sin(elapsed * speed)).
type PulseRecord struct {
	Light         *lighting.SpotLight
	BaseIntensity float32
	PulseSpeed    float32
	PulseAmount   float32
}

// Intensity returns the pulsed intensity at elapsed seconds.
func (p PulseRecord) Intensity(elapsed float32) float32 {
	return p.BaseIntensity * (1 + p.PulseAmount*math32.Sin(elapsed*p.PulseSpeed))
}

// Controller owns the spotlights it created and their pulses.
type Controller struct {
	set    *lighting.Set
	pulses []PulseRecord
	log    *zap.Logger
}

// New creates a controller that adds lights to set.
func New(set *lighting.Set) *Controller {
	return &Controller{
		set: set,
		log: logger.Named("lights"),
	}
}

// CreateSpotlight adds a spotlight built from cfg, plus its directional fill
// light when cfg.FillLight is positive.
func (c *Controller) CreateSpotlight(cfg config.SpotlightConfig) *lighting.SpotLight {
	spot := &lighting.SpotLight{
		Color:      cfg.Color.RGB(),
		Intensity:  cfg.Intensity,
		Distance:   cfg.Distance,
		Angle:      cfg.Angle,
		Penumbra:   cfg.Penumbra,
		Decay:      cfg.Decay,
		Position:   math.Vec3FromArray(cfg.Position),
		Target:     math.Vec3FromArray(cfg.Target),
		CastShadow: cfg.CastShadow,
	}
	if cfg.CastShadow {
		spot.ConfigureShadow(int32(cfg.ShadowSize))
	}
	if len(c.set.Spots) >= lighting.MaxSpotLights {
		c.log.Warn("spotlight limit reached, light will not be shaded",
			zap.Int("limit", lighting.MaxSpotLights))
	}
	c.set.AddSpot(spot)

	if cfg.Pulse {
		c.pulses = append(c.pulses, PulseRecord{
			Light:         spot,
			BaseIntensity: spot.Intensity,
			PulseSpeed:    cfg.PulseSpeed,
			PulseAmount:   cfg.PulseAmount,
		})
	}

	if cfg.FillLight > 0 {
		c.set.AddDirectional(&lighting.DirectionalLight{
			Color:     [3]float32{1, 1, 1},
			Intensity: cfg.FillLight,
			Position:  spot.Position,
		})
	}

	c.log.Debug("spotlight created",
		zap.Float32("intensity", spot.Intensity),
		zap.Float32("angle", spot.Angle),
		zap.Bool("pulse", cfg.Pulse),
		zap.Bool("shadow", cfg.CastShadow),
	)
	return spot
}

// Pulses returns the registered pulse records.
func (c *Controller) Pulses() []PulseRecord {
	return c.pulses
}

// Update sets every pulsing light's intensity for the given elapsed time.
// delta is unused; the pulse depends only on elapsed.
func (c *Controller) Update(delta, elapsed float32) {
	for _, p := range c.pulses {
		p.Light.Intensity = p.Intensity(elapsed)
	}
}
