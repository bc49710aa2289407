// Package events turns per-tick window observations into the discrete
// events the frame loop consumes.
package events

import "github.com/milk9111/rawframe/frame"

// Observation is what the window looked like on one tick.
type Observation struct {
	Closing bool
	QuitKey bool
	Focused bool
	Width   int
	Height  int
	CursorX int
	CursorY int
}

type FocusChange struct{ Focused bool }

// Tracker keeps the state needed to detect changes between ticks. The
// zero value needs SettleTicks set before use; 0 reports a resize on the
// tick the size changes.
type Tracker struct {
	// SettleTicks is how many ticks the size must stay put before the
	// resize counts as finished.
	SettleTicks int

	started  bool
	lastW    int
	lastH    int
	pendW    int
	pendH    int
	stable   int
	resizing bool

	cursorKnown bool
	cursorX     int
	cursorY     int
	focused     bool
}

// Observe compares o with the previous tick and appends the resulting
// events to dst.
func (t *Tracker) Observe(dst []frame.Event, o Observation) []frame.Event {
	if !t.started {
		t.started = true
		t.lastW, t.lastH = o.Width, o.Height
		t.pendW, t.pendH = o.Width, o.Height
		t.focused = o.Focused
	}

	if o.Focused != t.focused {
		t.focused = o.Focused
		dst = append(dst, frame.Event{Kind: frame.EventOther, Payload: FocusChange{Focused: o.Focused}})
	}

	dst = t.observeSize(dst, o.Width, o.Height)

	// like a native client area, pointer moves outside the window are not
	// reported
	inside := o.CursorX >= 0 && o.CursorY >= 0 && o.CursorX < o.Width && o.CursorY < o.Height
	if inside && (!t.cursorKnown || o.CursorX != t.cursorX || o.CursorY != t.cursorY) {
		t.cursorKnown = true
		t.cursorX, t.cursorY = o.CursorX, o.CursorY
		dst = append(dst, frame.Event{Kind: frame.EventPointerMove, X: o.CursorX, Y: o.CursorY})
	}

	if o.Closing || o.QuitKey {
		dst = append(dst, frame.Event{Kind: frame.EventQuit})
	}
	return dst
}

func (t *Tracker) observeSize(dst []frame.Event, w, h int) []frame.Event {
	if w != t.pendW || h != t.pendH {
		t.pendW, t.pendH = w, h
		t.stable = 0
		t.resizing = true
	} else if t.resizing {
		t.stable++
	}

	if !t.resizing || t.stable < t.SettleTicks {
		return dst
	}
	t.resizing = false
	if t.pendW == t.lastW && t.pendH == t.lastH {
		return dst
	}
	t.lastW, t.lastH = t.pendW, t.pendH
	return append(dst, frame.Event{Kind: frame.EventResizeFinished})
}
