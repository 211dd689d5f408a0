package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

const eps = 1e-4

func assertVec(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestPerspectiveDefaults(t *testing.T) {
	cam := NewPerspective(40, 16.0/9.0, 0.1, 15000)
	assertVec(t, math.Vec3{Z: -1}, cam.Forward())
	assertVec(t, math.Vec3{X: 1}, cam.Right())
	assertVec(t, math.Vec3{Y: 1}, cam.Up())
}

func TestSetAspect(t *testing.T) {
	cam := NewPerspective(40, 1, 0.1, 100)
	cam.SetAspect(1280, 720)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect, eps)

	cam.SetAspect(0, 720)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect, eps, "zero width must be ignored")
}

func TestViewMatrixInvertsPlacement(t *testing.T) {
	cam := NewPerspective(40, 1, 0.1, 100)
	cam.Position = math.Vec3{X: 3, Y: 8, Z: 8}
	cam.SetEuler(math.Euler{Yaw: 0.7})

	view := cam.ViewMatrix()
	assertVec(t, math.Vec3{}, view.TransformPoint(cam.Position))

	ahead := cam.Position.Add(cam.Forward().Scale(5))
	assertVec(t, math.Vec3{Z: -5}, view.TransformPoint(ahead))
}

func TestViewProjectionCentre(t *testing.T) {
	cam := NewPerspective(40, 1, 0.1, 100)
	cam.Position = math.Vec3{Z: 10}

	clip := cam.ViewProjection().TransformPoint(math.Vec3{})
	assert.InDelta(t, 0, clip.X, eps)
	assert.InDelta(t, 0, clip.Y, eps)
	assert.True(t, clip.Z > -1 && clip.Z < 1, "origin should lie inside the depth range, got %v", clip.Z)
}

func TestEulerRoundTrip(t *testing.T) {
	cam := NewPerspective(40, 1, 0.1, 100)
	cam.SetEuler(math.Euler{Yaw: 1.2, Pitch: 0.3, Roll: -0.2})

	e := cam.Euler()
	assert.InDelta(t, 1.2, e.Yaw, eps)
	assert.InDelta(t, 0.3, e.Pitch, eps)
	assert.InDelta(t, -0.2, e.Roll, eps)
}

func newControls() (*FlyControls, *Perspective) {
	cam := NewPerspective(40, 1, 0.1, 100)
	fc := NewFlyControls(cam)
	fc.SetViewport(800, 600)
	return fc, cam
}

func TestFlyForwardWithKeys(t *testing.T) {
	fc, cam := newControls()
	fc.MovementSpeed = 50

	fc.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyW})
	fc.Update(0.5)
	assertVec(t, math.Vec3{Z: -25}, cam.Position)

	fc.HandleEvent(input.Event{Type: input.EventKeyUp, Key: input.KeyW})
	fc.Update(0.5)
	assertVec(t, math.Vec3{Z: -25}, cam.Position)
}

func TestFlyMovesInCameraSpace(t *testing.T) {
	fc, cam := newControls()
	fc.MovementSpeed = 10
	cam.SetEuler(math.Euler{Yaw: math32.Pi / 2})

	fc.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyW})
	fc.Update(1)

	// Facing -X after a quarter turn left.
	assertVec(t, math.Vec3{X: -10}, cam.Position)
}

func TestFlyShiftSlowsMovement(t *testing.T) {
	fc, cam := newControls()
	fc.MovementSpeed = 10

	fc.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyShift})
	fc.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyD})
	fc.Update(1)
	assertVec(t, math.Vec3{X: 1}, cam.Position)
}

func TestFlyMouseButtonsWithoutDragToLook(t *testing.T) {
	fc, cam := newControls()
	fc.MovementSpeed = 1
	fc.RollSpeed = 0

	fc.HandleEvent(input.Event{Type: input.EventMouseDown, Button: input.ButtonLeft, MouseX: 400, MouseY: 300})
	fc.Update(1)
	assertVec(t, math.Vec3{Z: -1}, cam.Position)

	fc.HandleEvent(input.Event{Type: input.EventMouseUp, Button: input.ButtonLeft, MouseX: 400, MouseY: 300})
	fc.HandleEvent(input.Event{Type: input.EventMouseDown, Button: input.ButtonRight, MouseX: 400, MouseY: 300})
	fc.Update(1)
	assertVec(t, math.Vec3{}, cam.Position)
}

func TestFlyZeroRollSpeedLocksRotation(t *testing.T) {
	fc, cam := newControls()
	fc.RollSpeed = 0

	fc.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 0, MouseY: 0})
	fc.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyQ})
	fc.Update(1)

	assert.True(t, cam.Rotation.ApproxEqual(math.QuatIdentity(), eps))
}

func TestFlyMouseLookYaw(t *testing.T) {
	fc, cam := newControls()
	fc.RollSpeed = 0.5

	// Cursor at the left edge: full left yaw.
	fc.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 0, MouseY: 300})
	fc.Update(0.1)

	e := cam.Euler()
	require.Greater(t, e.Yaw, float32(0))
	assert.InDelta(t, 0, e.Pitch, eps)
	assert.InDelta(t, 0, e.Roll, eps)
}

func TestFlyDragToLookIgnoresMoveUntilPressed(t *testing.T) {
	fc, cam := newControls()
	fc.DragToLook = true
	fc.RollSpeed = 0.5

	fc.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 0, MouseY: 300})
	fc.Update(0.1)
	assert.True(t, cam.Rotation.ApproxEqual(math.QuatIdentity(), eps), "should not turn before a button is held")

	fc.HandleEvent(input.Event{Type: input.EventMouseDown, Button: input.ButtonLeft})
	fc.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 0, MouseY: 300})
	fc.Update(0.1)
	assert.False(t, cam.Rotation.ApproxEqual(math.QuatIdentity(), eps), "should turn while dragging")
	assertVec(t, math.Vec3{}, cam.Position)

	turned := cam.Rotation
	fc.HandleEvent(input.Event{Type: input.EventMouseUp, Button: input.ButtonLeft})
	fc.Update(0.1)
	assert.True(t, cam.Rotation.ApproxEqual(turned, eps), "release should stop turning")
}
