// Package modal binds the overlay modal to the 3D object that opened it.
package modal

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/loop"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
	"github.com/Faultbox/warehouse-exhibit/internal/overlay"
)

// Scheduler defers work to the next frame.
type Scheduler interface {
	RequestFrame(fn func()) loop.FrameID
	CancelFrame(id loop.FrameID)
}

// PositionSelector marks the template element that receives the subject's
// position readout.
const PositionSelector = ".position"

// Controller opens and hides the overlay for one active subject at a time.
type Controller struct {
	doc   *overlay.Document
	view  *overlay.Modal
	sched Scheduler

	active    *scene.Node
	showFrame loop.FrameID
	log       *zap.Logger
}

// New creates a controller over doc. A document without the modal elements
// yields a controller whose operations only log.
func New(doc *overlay.Document, sched Scheduler) *Controller {
	c := &Controller{
		doc:   doc,
		sched: sched,
		log:   logger.Named("modal"),
	}
	if doc == nil {
		c.log.Warn("modal: no overlay document")
		return c
	}
	view, err := doc.Modal()
	if err != nil {
		c.log.Warn("modal: missing element", zap.Error(err))
		return c
	}
	c.view = view
	return c
}

// SetTransition sets the fade duration.
func (c *Controller) SetTransition(d time.Duration) {
	if c.view != nil {
		c.view.Duration = d
	}
}

// View returns the overlay view state, or nil when the document lacks it.
func (c *Controller) View() *overlay.Modal {
	return c.view
}

// Active returns the subject of the open overlay, or nil.
func (c *Controller) Active() *scene.Node {
	return c.active
}

// IsOpen reports whether a subject is bound.
func (c *Controller) IsOpen() bool {
	return c.active != nil
}

// Open shows the template templateID for subject. Opening for a different
// subject while already open first returns the previous subject to unit
// scale, as Hide would.
func (c *Controller) Open(subject *scene.Node, templateID string) {
	if c.view == nil {
		c.log.Warn("modal: missing element", zap.String("id", overlay.ModalID))
		return
	}
	tmpl, err := c.doc.ByID(templateID)
	if err != nil {
		c.log.Warn("modal: missing element", zap.String("id", templateID))
		return
	}

	if c.active != nil && c.active != subject {
		c.log.Debug("modal: replacing subject",
			zap.String("previous", c.active.Name),
			zap.String("next", subject.Name))
		c.active.SetScalar(1)
	}
	c.active = subject

	content := tmpl.Clone()
	p := subject.Position
	content.SetText(PositionSelector, fmt.Sprintf("Position: %.2f, %.2f, %.2f", p.X, p.Y, p.Z))
	c.view.SetContent(content)

	c.view.ClearTransitionEnd()
	c.view.SetDisplay("flex")
	c.cancelShow()
	c.showFrame = c.sched.RequestFrame(func() {
		c.showFrame = 0
		c.view.AddClass(overlay.ClassShow)
	})
	c.view.SetAriaHidden(false)

	c.log.Debug("modal opened", zap.String("template", templateID), zap.String("subject", subject.Name))
}

// Hide snaps the active subject back to unit scale, clears it and fades the
// overlay out. Display and aria-hidden follow once the fade ends.
func (c *Controller) Hide() {
	if c.active != nil {
		c.active.SetScalar(1)
		c.active = nil
	}
	if c.view == nil {
		return
	}

	c.cancelShow()
	c.view.RemoveClass(overlay.ClassShow)
	c.view.ClearTransitionEnd()
	c.view.OnceTransitionEnd(func() {
		c.view.SetDisplay("none")
		c.view.SetAriaHidden(true)
	})
}

// Update advances the overlay fade.
func (c *Controller) Update(dt time.Duration) {
	if c.view != nil {
		c.view.Update(dt)
	}
}

func (c *Controller) cancelShow() {
	if c.showFrame != 0 {
		c.sched.CancelFrame(c.showFrame)
		c.showFrame = 0
	}
}
