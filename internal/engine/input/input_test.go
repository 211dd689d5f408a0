package input

import "testing"

func TestPushTracksHeldKeys(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: KeyW})

	if !in.IsKeyHeld(KeyW) {
		t.Error("W should be held after key down")
	}
	if !in.IsKeyPressed(KeyW) {
		t.Error("W should be reported as pressed this frame")
	}

	in.Reset()
	if in.IsKeyPressed(KeyW) {
		t.Error("pressed state should clear on Reset")
	}
	if !in.IsKeyHeld(KeyW) {
		t.Error("held state should survive Reset")
	}

	in.Push(Event{Type: EventKeyUp, Key: KeyW})
	if in.IsKeyHeld(KeyW) {
		t.Error("W should be released after key up")
	}
}

func TestRepeatIsNotAPress(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: KeyEscape, Repeat: true})
	if in.IsKeyPressed(KeyEscape) {
		t.Error("auto-repeat should not count as a fresh press")
	}
}

func TestPushQuit(t *testing.T) {
	in := New()
	if in.Push(Event{Type: EventMouseMove}) {
		t.Error("mouse move should not quit")
	}
	if !in.Push(Event{Type: EventQuit}) {
		t.Error("quit event should report quit")
	}
	if got := len(in.Events()); got != 2 {
		t.Errorf("Events() len = %d, want 2", got)
	}
}
