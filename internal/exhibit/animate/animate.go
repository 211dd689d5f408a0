// Package animate advances the per-frame scale easing and continuous rotation
// of scene nodes. State is kept in side tables keyed by node ID; nodes only
// move while attached to the traversed tree.
package animate

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Easing selects how scale approaches its target.
type Easing int

const (
	// EaseTick moves a fixed fraction of the remaining distance per tick.
	EaseTick Easing = iota
	// EaseTime moves 1-e^(-rate*dt) of the remaining distance, independent
	// of frame rate.
	EaseTime
)

// SnapEpsilon is the L-infinity distance under which a scale is set exactly
// to its target.
const SnapEpsilon = 1e-6

type spin struct {
	axis  math.Vec3
	speed float32
}

// Animator holds scale targets and rotation parameters.
type Animator struct {
	Easing Easing
	Factor float32 // fraction per tick for EaseTick
	Rate   float32 // per-second rate for EaseTime

	targets map[scene.NodeID]float32
	spins   map[scene.NodeID]spin
}

// New returns a tick-mode animator with factor 0.1.
func New() *Animator {
	return &Animator{
		Easing:  EaseTick,
		Factor:  0.1,
		Rate:    6,
		targets: make(map[scene.NodeID]float32),
		spins:   make(map[scene.NodeID]spin),
	}
}

// SetTargetScale sets the uniform scale n eases toward.
func (a *Animator) SetTargetScale(n *scene.Node, s float32) {
	a.targets[n.ID] = s
}

// TargetScale returns n's scale target, if it has one.
func (a *Animator) TargetScale(n *scene.Node) (float32, bool) {
	s, ok := a.targets[n.ID]
	return s, ok
}

// SetRotation makes n spin by speed radians per tick around axis. The axis
// is normalised; a zero axis clears the rotation.
func (a *Animator) SetRotation(n *scene.Node, axis math.Vec3, speed float32) {
	axis = axis.Normalize()
	if axis == (math.Vec3{}) {
		delete(a.spins, n.ID)
		return
	}
	a.spins[n.ID] = spin{axis: axis, speed: speed}
}

// Rotation returns n's rotation axis and speed, if it spins.
func (a *Animator) Rotation(n *scene.Node) (axis math.Vec3, speed float32, ok bool) {
	s, ok := a.spins[n.ID]
	return s.axis, s.speed, ok
}

// Forget drops all animation state for n.
func (a *Animator) Forget(n *scene.Node) {
	delete(a.targets, n.ID)
	delete(a.spins, n.ID)
}

// Rotate turns every spinning node under root by one tick.
func (a *Animator) Rotate(root *scene.Node) {
	if len(a.spins) == 0 {
		return
	}
	root.Traverse(func(n *scene.Node) {
		if s, ok := a.spins[n.ID]; ok {
			n.RotateOnAxis(s.axis, s.speed)
		}
	})
}

// Ease moves every targeted node under root toward its target scale. delta
// is the frame time in seconds and only matters for EaseTime.
func (a *Animator) Ease(root *scene.Node, delta float32) {
	if len(a.targets) == 0 {
		return
	}
	f := a.fraction(delta)
	root.Traverse(func(n *scene.Node) {
		if t, ok := a.targets[n.ID]; ok {
			n.Scale = Step(n.Scale, t, f)
		}
	})
}

func (a *Animator) fraction(delta float32) float32 {
	if a.Easing == EaseTime {
		return 1 - math32.Exp(-a.Rate*delta)
	}
	return a.Factor
}

// Step returns s moved fraction f of the way toward the uniform target t.
// Within SnapEpsilon, or once a positive step underflows float32 precision,
// it returns the target exactly. A non-positive f leaves s unchanged.
func Step(s math.Vec3, t, f float32) math.Vec3 {
	if f <= 0 {
		return s
	}
	target := math.Splat(t)
	if s.MaxAbsDistance(target) < SnapEpsilon {
		return target
	}
	next := s.Lerp(target, f)
	if next == s {
		return target
	}
	return next
}
