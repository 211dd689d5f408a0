package ui2d

import "github.com/Faultbox/warehouse-exhibit/internal/engine/input"

// InputState holds the mouse and key state the overlay reacts to.
type InputState struct {
	MouseX float32
	MouseY float32

	MouseLeftDown     bool
	MouseLeftPressed  bool // went down this frame
	MouseLeftReleased bool // went up this frame

	KeyEscape bool // pressed this frame

	prevMouseLeft bool
}

// Feed applies one window event.
func (i *InputState) Feed(e input.Event) {
	switch e.Type {
	case input.EventMouseMove:
		i.MouseX, i.MouseY = float32(e.MouseX), float32(e.MouseY)
	case input.EventMouseDown:
		i.MouseX, i.MouseY = float32(e.MouseX), float32(e.MouseY)
		if e.Button == input.ButtonLeft {
			i.MouseLeftDown = true
		}
	case input.EventMouseUp:
		i.MouseX, i.MouseY = float32(e.MouseX), float32(e.MouseY)
		if e.Button == input.ButtonLeft {
			i.MouseLeftDown = false
		}
	case input.EventKeyDown:
		if e.Key == input.KeyEscape && !e.Repeat {
			i.KeyEscape = true
		}
	}
}

// Update derives the per-frame edges. Call it once per frame after feeding
// that frame's events.
func (i *InputState) Update() {
	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft
	i.prevMouseLeft = i.MouseLeftDown
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.MouseLeftPressed = false
	i.MouseLeftReleased = false
	i.KeyEscape = false
}

// IsMouseInRect checks if the mouse is within a rectangle.
func (i *InputState) IsMouseInRect(x, y, w, h float32) bool {
	return i.MouseX >= x && i.MouseX < x+w &&
		i.MouseY >= y && i.MouseY < y+h
}
