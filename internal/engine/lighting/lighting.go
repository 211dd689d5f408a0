// Package lighting holds the light sources the forward renderer uploads each
// frame: cone spotlights with optional shadow cameras and directional fills.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Shader array sizes. Lights beyond these counts are ignored by the renderer.
const (
	MaxSpotLights        = 8
	MaxDirectionalLights = 8
	MaxShadowCasters     = 4
)

// ShadowCamera is the perspective frustum a spotlight renders its depth map
// from. FOV is in degrees.
type ShadowCamera struct {
	MapSize int32
	Near    float32
	Far     float32
	FOV     float32
}

// SpotLight is a cone light. Angle is the cone half-angle in radians; a zero
// Distance means the light never fades out with range.
type SpotLight struct {
	Color      [3]float32
	Intensity  float32
	Distance   float32
	Angle      float32
	Penumbra   float32
	Decay      float32
	Position   math.Vec3
	Target     math.Vec3
	CastShadow bool
	Shadow     ShadowCamera
}

// Direction returns the normalized direction from the light toward its target.
func (l *SpotLight) Direction() math.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}

// ConfigureShadow enables shadow casting with a square depth map of the given
// size. The shadow frustum's FOV follows the cone angle.
func (l *SpotLight) ConfigureShadow(mapSize int32) {
	l.CastShadow = true
	l.Shadow = ShadowCamera{
		MapSize: mapSize,
		Near:    1,
		Far:     600,
		FOV:     math.Degrees(l.Angle),
	}
}

// ConeCos returns the cosines of the outer and inner cone edges, the form
// the fragment shader smoothsteps between.
func (l *SpotLight) ConeCos() (outer, inner float32) {
	outer = math32.Cos(l.Angle)
	inner = math32.Cos(l.Angle * (1 - l.Penumbra))
	return outer, inner
}

// ViewProjection returns the light-space matrix used for its shadow map.
func (l *SpotLight) ViewProjection() math.Mat4 {
	up := math.Vec3{Y: 1}
	if math32.Abs(l.Direction().Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(l.Position, l.Target, up)
	fov := math.Radians(l.Shadow.FOV)
	proj := math.Perspective(fov, 1, l.Shadow.Near, l.Shadow.Far)
	return proj.Mul(view)
}

// DirectionalLight shines uniformly from Position toward the origin.
type DirectionalLight struct {
	Color     [3]float32
	Intensity float32
	Position  math.Vec3
}

// Direction returns the normalized direction the light travels.
func (l *DirectionalLight) Direction() math.Vec3 {
	return l.Position.Negate().Normalize()
}

// Set is the collection of lights in a scene.
type Set struct {
	Spots        []*SpotLight
	Directionals []*DirectionalLight
	Ambient      [3]float32
}

// AddSpot appends a spotlight.
func (s *Set) AddSpot(l *SpotLight) {
	s.Spots = append(s.Spots, l)
}

// AddDirectional appends a directional light.
func (s *Set) AddDirectional(l *DirectionalLight) {
	s.Directionals = append(s.Directionals, l)
}

// ShadowCasters returns the spotlights that render depth maps, capped at
// MaxShadowCasters in insertion order.
func (s *Set) ShadowCasters() []*SpotLight {
	var out []*SpotLight
	for _, l := range s.Spots {
		if !l.CastShadow {
			continue
		}
		out = append(out, l)
		if len(out) == MaxShadowCasters {
			break
		}
	}
	return out
}
