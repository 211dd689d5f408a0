package camera

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

type moveState struct {
	up, down, left, right, forward, back  float32
	pitchUp, pitchDown, yawLeft, yawRight float32
	rollLeft, rollRight                   float32
}

// FlyControls moves a camera freely: WASD strafe and advance, R/F rise and
// sink, Q/E roll, arrows turn. Mouse position steers yaw and pitch, either
// always or only while a button is held when DragToLook is set. Without
// DragToLook the left button flies forward and the right button backward.
type FlyControls struct {
	Camera *Perspective

	MovementSpeed float32 // units per second
	RollSpeed     float32 // radians per second at full deflection
	DragToLook    bool
	AutoForward   bool

	width, height   int
	dragging        int
	speedMultiplier float32
	state           moveState
	moveVector      math.Vec3
	rotationVector  math.Vec3
}

// NewFlyControls attaches controls to cam.
func NewFlyControls(cam *Perspective) *FlyControls {
	return &FlyControls{
		Camera:          cam,
		MovementSpeed:   1,
		RollSpeed:       0.005,
		speedMultiplier: 1,
	}
}

// SetViewport sets the window size used to normalise mouse look.
func (f *FlyControls) SetViewport(width, height int) {
	f.width, f.height = width, height
}

// HandleEvent updates the movement and rotation state from one input event.
func (f *FlyControls) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventKeyDown, input.EventKeyUp:
		f.handleKey(e.Key, e.Type == input.EventKeyDown)
	case input.EventMouseDown:
		if f.DragToLook {
			f.dragging++
			return
		}
		switch e.Button {
		case input.ButtonLeft:
			f.state.forward = 1
		case input.ButtonRight:
			f.state.back = 1
		}
		f.updateMovementVector()
	case input.EventMouseUp:
		if f.DragToLook {
			if f.dragging > 0 {
				f.dragging--
			}
			f.state.yawLeft, f.state.pitchDown = 0, 0
		} else {
			switch e.Button {
			case input.ButtonLeft:
				f.state.forward = 0
			case input.ButtonRight:
				f.state.back = 0
			}
			f.updateMovementVector()
		}
		f.updateRotationVector()
	case input.EventMouseMove:
		if f.DragToLook && f.dragging == 0 {
			return
		}
		if f.width <= 0 || f.height <= 0 {
			return
		}
		halfW, halfH := float32(f.width)/2, float32(f.height)/2
		f.state.yawLeft = -(float32(e.MouseX) - halfW) / halfW
		f.state.pitchDown = (float32(e.MouseY) - halfH) / halfH
		f.updateRotationVector()
	case input.EventWindowResize:
		f.SetViewport(e.Width, e.Height)
	}
}

func (f *FlyControls) handleKey(key input.Key, down bool) {
	v := float32(0)
	if down {
		v = 1
	}
	switch key {
	case input.KeyShift:
		f.speedMultiplier = 1
		if down {
			f.speedMultiplier = 0.1
		}
	case input.KeyW:
		f.state.forward = v
	case input.KeyS:
		f.state.back = v
	case input.KeyA:
		f.state.left = v
	case input.KeyD:
		f.state.right = v
	case input.KeyR:
		f.state.up = v
	case input.KeyF:
		f.state.down = v
	case input.KeyUp:
		f.state.pitchUp = v
	case input.KeyDown:
		f.state.pitchDown = v
	case input.KeyLeft:
		f.state.yawLeft = v
	case input.KeyRight:
		f.state.yawRight = v
	case input.KeyQ:
		f.state.rollLeft = v
	case input.KeyE:
		f.state.rollRight = v
	default:
		return
	}
	f.updateMovementVector()
	f.updateRotationVector()
}

func (f *FlyControls) updateMovementVector() {
	forward := f.state.forward
	if f.AutoForward && f.state.back == 0 {
		forward = 1
	}
	f.moveVector = math.Vec3{
		X: -f.state.left + f.state.right,
		Y: -f.state.down + f.state.up,
		Z: -forward + f.state.back,
	}
}

func (f *FlyControls) updateRotationVector() {
	f.rotationVector = math.Vec3{
		X: -f.state.pitchDown + f.state.pitchUp,
		Y: -f.state.yawRight + f.state.yawLeft,
		Z: -f.state.rollRight + f.state.rollLeft,
	}
}

// Update advances the camera by delta seconds.
func (f *FlyControls) Update(delta float32) {
	moveMult := delta * f.MovementSpeed * f.speedMultiplier
	rotMult := delta * f.RollSpeed

	cam := f.Camera
	cam.TranslateOnAxis(math.Vec3{X: 1}, f.moveVector.X*moveMult)
	cam.TranslateOnAxis(math.Vec3{Y: 1}, f.moveVector.Y*moveMult)
	cam.TranslateOnAxis(math.Vec3{Z: 1}, f.moveVector.Z*moveMult)

	step := math.Quat{
		X: f.rotationVector.X * rotMult,
		Y: f.rotationVector.Y * rotMult,
		Z: f.rotationVector.Z * rotMult,
		W: 1,
	}.Normalize()
	cam.Rotation = cam.Rotation.Mul(step).Normalize()
}
