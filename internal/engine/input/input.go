// Package input defines the window-system independent input events consumed by
// the exhibit's controls, and a per-frame event buffer.
package input

// EventType distinguishes input events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseLeave
)

// Key is a physical key position.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyR
	KeyF
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyShift
	KeyEscape
	KeyF12
	KeyM
)

// Mouse buttons, numbered like SDL.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event. Mouse coordinates are window
// pixels with the origin at the top-left.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input buffers the events of one frame and tracks held keys.
type Input struct {
	events []Event
	held   map[Key]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[Key]bool),
	}
}

// Reset clears the buffered events. Held keys persist.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push records an event. Returns true if the event asks to quit.
func (i *Input) Push(e Event) bool {
	switch e.Type {
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	}
	i.events = append(i.events, e)
	return e.Type == EventQuit
}

// Events returns the events since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether key is currently down.
func (i *Input) IsKeyHeld(key Key) bool {
	return i.held[key]
}
