// Package camera provides the exhibit's perspective camera and free-fly
// controls.
package camera

import (
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Perspective is a perspective camera placed in the scene. It looks down its
// local -Z axis with +Y up.
type Perspective struct {
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position math.Vec3
	Rotation math.Quat
}

// NewPerspective creates a camera at the origin with identity orientation.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Rotation: math.QuatIdentity(),
	}
}

// SetAspect updates the aspect ratio after a viewport resize.
func (c *Perspective) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ProjectionMatrix returns the projection matrix.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.Radians(c.FOV), c.Aspect, c.Near, c.Far)
}

// WorldMatrix returns the camera's placement in the scene.
func (c *Perspective) WorldMatrix() math.Mat4 {
	return math.Compose(c.Position, c.Rotation, math.Splat(1))
}

// ViewMatrix returns the view matrix for this camera.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return c.WorldMatrix().Inverse()
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Forward returns the world-space viewing direction.
func (c *Perspective) Forward() math.Vec3 {
	return c.Rotation.Rotate(math.Vec3{Z: -1})
}

// Right returns the world-space right vector.
func (c *Perspective) Right() math.Vec3 {
	return c.Rotation.Rotate(math.Vec3{X: 1})
}

// Up returns the world-space up vector.
func (c *Perspective) Up() math.Vec3 {
	return c.Rotation.Rotate(math.Vec3{Y: 1})
}

// TranslateOnAxis moves the camera by distance along a local-space axis.
func (c *Perspective) TranslateOnAxis(axis math.Vec3, distance float32) {
	c.Position = c.Position.Add(c.Rotation.Rotate(axis).Scale(distance))
}

// Euler returns the orientation decomposed in YXZ order.
func (c *Perspective) Euler() math.Euler {
	return math.EulerFromQuat(c.Rotation)
}

// SetEuler replaces the orientation from YXZ Euler angles.
func (c *Perspective) SetEuler(e math.Euler) {
	c.Rotation = e.Quat()
}
