package camctl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

const eps = 1e-5

type stubControls struct {
	events   []input.Event
	updates  []float32
	onUpdate func()
}

func (s *stubControls) HandleEvent(e input.Event) { s.events = append(s.events, e) }

func (s *stubControls) Update(delta float32) {
	s.updates = append(s.updates, delta)
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

func newController() (*Controller, *stubControls, *camera.Perspective) {
	cam := camera.NewPerspective(40, 16.0/9.0, 0.1, 15000)
	inner := &stubControls{}
	c := New(inner, cam)
	c.SetViewport(1000, 500)
	return c, inner, cam
}

func assertEuler(t *testing.T, want math.Euler, cam *camera.Perspective) {
	t.Helper()
	got := cam.Euler()
	assert.InDelta(t, want.Yaw, got.Yaw, eps, "yaw")
	assert.InDelta(t, want.Pitch, got.Pitch, eps, "pitch")
	assert.InDelta(t, want.Roll, got.Roll, eps, "roll")
}

func TestEdgePan(t *testing.T) {
	c, _, cam := newController()

	c.SetCursor(0.02)
	c.Update(1.0 / 60)
	assertEuler(t, math.Euler{Yaw: 0.02}, cam)

	c.SetCursor(0.98)
	c.Update(1.0 / 60)
	assertEuler(t, math.Euler{}, cam)

	c.SetCursor(0.5)
	for range 100 {
		c.Update(1.0 / 60)
	}
	assertEuler(t, math.Euler{}, cam)
}

func TestUpdateLevelsHorizon(t *testing.T) {
	c, inner, cam := newController()
	inner.onUpdate = func() {
		cam.SetEuler(math.Euler{Pitch: 0.4, Yaw: 0.3, Roll: -0.2})
	}

	c.Update(1.0 / 60)
	assertEuler(t, math.Euler{Yaw: 0.3}, cam)
	assert.Len(t, inner.updates, 1, "inner update runs first")
}

func TestCursorTrackedFromEvents(t *testing.T) {
	c, inner, cam := newController()

	c.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 10, MouseY: 250})
	assert.InDelta(t, 0.01, c.Cursor(), eps)
	assert.Len(t, inner.events, 1, "events pass through")

	c.Update(1.0 / 60)
	assertEuler(t, math.Euler{Yaw: 0.02}, cam)

	c.HandleEvent(input.Event{Type: input.EventWindowResize, Width: 20, Height: 10})
	c.HandleEvent(input.Event{Type: input.EventMouseMove, MouseX: 10, MouseY: 5})
	assert.InDelta(t, 0.5, c.Cursor(), eps)
}

func TestCustomMarginAndSpeed(t *testing.T) {
	c, _, cam := newController()
	c.EdgeMargin = 0.2
	c.PanSpeed = 0.1

	c.SetCursor(0.15)
	c.Update(0)
	c.Update(0)
	assertEuler(t, math.Euler{Yaw: 0.2}, cam)
}

func TestWrapsFlyControls(t *testing.T) {
	cam := camera.NewPerspective(40, 1, 0.1, 1000)
	fly := camera.NewFlyControls(cam)
	fly.MovementSpeed = 50
	fly.RollSpeed = 0
	c := New(fly, cam)
	c.SetViewport(800, 600)

	c.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.KeyW})
	c.Update(0.1)

	assert.InDelta(t, -5, cam.Position.Z, 1e-3)
	assertEuler(t, math.Euler{}, cam)
}
