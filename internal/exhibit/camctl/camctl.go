// Package camctl wraps free-fly controls with edge panning and a level
// horizon: after each inner update the camera keeps only its yaw, and the
// yaw drifts while the cursor sits near the left or right window edge.
package camctl

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Controls is the wrapped camera controller.
type Controls interface {
	HandleEvent(e input.Event)
	Update(delta float32)
}

// Controller applies edge panning on top of Inner.
type Controller struct {
	Inner  Controls
	Camera *camera.Perspective

	EdgeMargin float32 // fraction of the window width
	PanSpeed   float32 // radians per update

	cursorX float32
	width   int
}

// New wraps inner with the default margin 0.05 and speed 0.02. The cursor
// starts centred.
func New(inner Controls, cam *camera.Perspective) *Controller {
	return &Controller{
		Inner:      inner,
		Camera:     cam,
		EdgeMargin: 0.05,
		PanSpeed:   0.02,
		cursorX:    0.5,
	}
}

// SetViewport sets the window width used to normalise the cursor.
func (c *Controller) SetViewport(width, height int) {
	c.width = width
	if v, ok := c.Inner.(interface{ SetViewport(w, h int) }); ok {
		v.SetViewport(width, height)
	}
}

// SetCursor sets the cursor position as a fraction of the window width.
func (c *Controller) SetCursor(x float32) {
	c.cursorX = x
}

// Cursor returns the normalised cursor x.
func (c *Controller) Cursor() float32 {
	return c.cursorX
}

// HandleEvent tracks the cursor and forwards every event to Inner.
func (c *Controller) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventMouseMove:
		if c.width > 0 {
			c.cursorX = float32(e.MouseX) / float32(c.width)
		}
	case input.EventWindowResize:
		c.width = e.Width
	}
	if c.Inner != nil {
		c.Inner.HandleEvent(e)
	}
}

// Update runs the inner controls, then rewrites the orientation from yaw
// alone, panning when the cursor is within EdgeMargin of a side.
func (c *Controller) Update(delta float32) {
	if c.Inner != nil {
		c.Inner.Update(delta)
	}

	yaw := c.Camera.Euler().Yaw
	switch {
	case c.cursorX < c.EdgeMargin:
		yaw += c.PanSpeed
	case c.cursorX > 1-c.EdgeMargin:
		yaw -= c.PanSpeed
	}
	c.Camera.SetEuler(math.Euler{Yaw: yaw})
}
