// Package host owns the exhibit scene, camera and composer and runs the
// per-frame tick while started.
package host

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/loop"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/animate"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
)

// ErrNoScheduler is returned by Start when no frame scheduler is available.
var ErrNoScheduler = errors.New("host: no frame scheduler")

// Scheduler runs callbacks once on the next frame.
type Scheduler interface {
	RequestFrame(fn func()) loop.FrameID
	CancelFrame(id loop.FrameID)
}

// Composer draws the scene to the screen through the post-processing chain.
type Composer interface {
	Render(s *scene.Scene, cam *camera.Perspective)
	Resize(width, height int)
}

// Controls is a camera controller advanced once per tick.
type Controls interface {
	Update(delta float32)
}

// LightUpdater animates the scene lights.
type LightUpdater interface {
	Update(delta, elapsed float32)
}

// Clock measures frame delta and total elapsed time, excluding time spent
// paused.
type Clock struct {
	now     func() time.Time
	last    time.Time
	elapsed time.Duration
	running bool
}

// NewClock returns a stopped clock reading now. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Start resumes the clock. The first delta after Start is measured from
// this call.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.last = c.now()
}

// Stop pauses the clock.
func (c *Clock) Stop() {
	c.running = false
}

// Tick returns seconds since the previous tick and seconds elapsed while
// running.
func (c *Clock) Tick() (delta, elapsed float32) {
	if !c.running {
		return 0, float32(c.elapsed.Seconds())
	}
	t := c.now()
	d := t.Sub(c.last)
	c.last = t
	c.elapsed += d
	return float32(d.Seconds()), float32(c.elapsed.Seconds())
}

// Host is the scene host.
type Host struct {
	Scene    *scene.Scene
	Camera   *camera.Perspective
	Composer Composer
	Lights   LightUpdater
	Animator *animate.Animator

	// TickFunc replaces the default tick when set. It receives the host so
	// it can call Step for the default behaviour.
	TickFunc func(h *Host, delta, elapsed float32)

	controls Controls
	sched    Scheduler
	clock    *Clock
	running  bool
	frame    loop.FrameID
	ticks    uint64
	log      *zap.Logger
}

// Options configures New.
type Options struct {
	Scheduler Scheduler
	Composer  Composer
	Lights    LightUpdater
	Animator  *animate.Animator
	Now       func() time.Time
}

// New creates a stopped host for s viewed through cam.
func New(s *scene.Scene, cam *camera.Perspective, opts Options) *Host {
	anim := opts.Animator
	if anim == nil {
		anim = animate.New()
	}
	return &Host{
		Scene:    s,
		Camera:   cam,
		Composer: opts.Composer,
		Lights:   opts.Lights,
		Animator: anim,
		sched:    opts.Scheduler,
		clock:    NewClock(opts.Now),
		log:      logger.Named("host"),
	}
}

// SetControls attaches a camera controller. Nil detaches it.
func (h *Host) SetControls(c Controls) {
	h.controls = c
}

// Controls returns the attached camera controller.
func (h *Host) Controls() Controls {
	return h.controls
}

// Running reports whether ticks are scheduled.
func (h *Host) Running() bool {
	return h.running
}

// Ticks returns the number of ticks run so far.
func (h *Host) Ticks() uint64 {
	return h.ticks
}

// Start schedules the first tick. Calling Start while running does nothing.
func (h *Host) Start() error {
	if h.sched == nil {
		return ErrNoScheduler
	}
	if h.running {
		return nil
	}
	h.running = true
	h.clock.Start()
	h.schedule()
	h.log.Debug("host started")
	return nil
}

// Stop cancels the pending tick. No tick runs until Start is called again.
func (h *Host) Stop() {
	if !h.running {
		return
	}
	h.running = false
	h.clock.Stop()
	if h.frame != 0 {
		h.sched.CancelFrame(h.frame)
		h.frame = 0
	}
	h.log.Debug("host stopped", zap.Uint64("ticks", h.ticks))
}

// Resize updates the camera aspect and the composer targets.
func (h *Host) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	h.Camera.SetAspect(width, height)
	if h.Composer != nil {
		h.Composer.Resize(width, height)
	}
}

func (h *Host) schedule() {
	h.frame = h.sched.RequestFrame(h.tick)
}

func (h *Host) tick() {
	h.frame = 0
	if !h.running {
		return
	}
	delta, elapsed := h.clock.Tick()
	h.ticks++
	if h.TickFunc != nil {
		h.TickFunc(h, delta, elapsed)
	} else {
		h.Step(delta, elapsed)
	}
	if h.running && h.frame == 0 {
		h.schedule()
	}
}

// Step runs one tick's work: lights, camera controls, rotation, render and
// scale easing, in that order.
func (h *Host) Step(delta, elapsed float32) {
	if h.Lights != nil {
		h.Lights.Update(delta, elapsed)
	}
	if h.controls != nil {
		h.controls.Update(delta)
	}
	h.Animator.Rotate(h.Scene.Root)
	if h.Composer != nil {
		h.Composer.Render(h.Scene, h.Camera)
	}
	h.Animator.Ease(h.Scene.Root, delta)
}
