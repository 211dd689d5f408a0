// Package loop schedules work on the main (GL) goroutine: one-shot frame
// callbacks in the style of requestAnimationFrame, and tasks posted from other
// goroutines.
package loop

import "sync"

// FrameID identifies a requested frame callback. The zero value is never
// issued.
type FrameID uint64

type callback struct {
	id        FrameID
	fn        func()
	cancelled bool
}

// Loop is a frame scheduler. RunFrame must be called from a single goroutine;
// Post may be called from any goroutine.
type Loop struct {
	mu      sync.Mutex
	lastID  FrameID
	pending []*callback
	byID    map[FrameID]*callback
	posted  []func()
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{byID: make(map[FrameID]*callback)}
}

// RequestFrame schedules fn to run once during the next RunFrame. Callbacks
// requested while a frame is running are deferred to the following frame.
func (l *Loop) RequestFrame(fn func()) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastID++
	cb := &callback{id: l.lastID, fn: fn}
	l.pending = append(l.pending, cb)
	l.byID[cb.id] = cb
	return cb.id
}

// CancelFrame drops a requested callback that has not run yet. Unknown or
// already-run ids are ignored.
func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cb, ok := l.byID[id]; ok {
		cb.cancelled = true
		delete(l.byID, id)
	}
}

// Post queues task to run on the loop goroutine at the start of the next
// frame, ahead of frame callbacks.
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	l.posted = append(l.posted, task)
	l.mu.Unlock()
}

// Pending returns the number of frame callbacks waiting for the next frame.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}

// RunFrame drains posted tasks, then runs the frame callbacks that were
// requested before the frame began, in request order.
func (l *Loop) RunFrame() {
	l.mu.Lock()
	tasks := l.posted
	l.posted = nil
	l.mu.Unlock()

	for _, task := range tasks {
		task()
	}

	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, cb := range batch {
		l.mu.Lock()
		skip := cb.cancelled
		if !skip {
			delete(l.byID, cb.id)
		}
		l.mu.Unlock()

		if !skip {
			cb.fn()
		}
	}
}
