package exhibit

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/ui2d"
)

type eventHandler interface {
	HandleEvent(e input.Event)
}

type pointerHandler interface {
	eventHandler
	CancelPress()
}

type hitTester interface {
	Occupies(x, y float32) bool
}

type modalCloser interface {
	IsOpen() bool
	Hide()
}

// router fans one frame's window events out to the overlay, the pointer
// service and the camera controller.
type router struct {
	ui      *ui2d.InputState
	overlay hitTester
	pointer pointerHandler
	camera  eventHandler
	modal   modalCloser

	onResize     func(width, height int)
	onScreenshot func()
	onFirstClick func()

	clicked bool
	quit    bool
}

// dispatch routes e. Pointer events over an overlay panel drawn last frame
// stay with the overlay.
func (r *router) dispatch(e input.Event) {
	if r.ui != nil {
		r.ui.Feed(e)
	}

	switch e.Type {
	case input.EventQuit:
		r.quit = true
		return

	case input.EventKeyDown:
		if !e.Repeat {
			switch e.Key {
			case input.KeyEscape:
				if r.modal != nil && r.modal.IsOpen() {
					r.modal.Hide()
				} else {
					r.quit = true
				}
				return
			case input.KeyF12:
				if r.onScreenshot != nil {
					r.onScreenshot()
				}
				return
			}
		}
		r.forwardCamera(e)

	case input.EventKeyUp:
		r.forwardCamera(e)

	case input.EventWindowResize:
		if r.onResize != nil {
			r.onResize(e.Width, e.Height)
		}
		r.forwardPointer(e)
		r.forwardCamera(e)

	case input.EventMouseDown:
		if e.Button == input.ButtonLeft && !r.clicked {
			r.clicked = true
			if r.onFirstClick != nil {
				r.onFirstClick()
			}
		}
		fallthrough

	case input.EventMouseMove, input.EventMouseUp:
		r.forwardCamera(e)
		if r.overlay != nil && r.overlay.Occupies(float32(e.MouseX), float32(e.MouseY)) {
			if e.Type != input.EventMouseMove && r.pointer != nil {
				r.pointer.CancelPress()
			}
			return
		}
		r.forwardPointer(e)

	case input.EventMouseLeave:
		r.forwardCamera(e)
	}
}

func (r *router) forwardPointer(e input.Event) {
	if r.pointer != nil {
		r.pointer.HandleEvent(e)
	}
}

func (r *router) forwardCamera(e input.Event) {
	if r.camera != nil {
		r.camera.HandleEvent(e)
	}
}
