package frame

import (
	"fmt"
	"image"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

type EventKind int

const (
	// EventOther is anything the loop does not interpret. It is handed back
	// to the platform's default handling untouched.
	EventOther EventKind = iota
	EventQuit
	// EventResizeFinished marks the end of an interactive resize.
	EventResizeFinished
	EventPointerMove
)

func (k EventKind) String() string {
	switch k {
	case EventOther:
		return "other"
	case EventQuit:
		return "quit"
	case EventResizeFinished:
		return "resize-finished"
	case EventPointerMove:
		return "pointer-move"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a platform notification pulled off the queue. X and Y are only
// meaningful for EventPointerMove. Payload carries platform data for
// EventOther.
type Event struct {
	Kind    EventKind
	X, Y    int
	Payload any
}

// EventSource is a non-blocking queue of platform events.
type EventSource interface {
	// PollEvent returns the next pending event, or false when the queue is
	// empty. It never waits.
	PollEvent() (Event, bool)
	DefaultHandle(ev Event)
}

// InputSampler reads the raw down/up state of every tracked button.
type InputSampler interface {
	SampleInput() input.Sample
}

// Presenter copies a canvas to the visible window.
type Presenter interface {
	// Present blits c, stretched to dst, to the window surface.
	Present(c *canvas.Canvas, dst image.Rectangle) error
}

// Platform is everything the loop needs from the window system.
type Platform interface {
	EventSource
	InputSampler
	Presenter
	// ClientSize reports the drawable area of the window in pixels.
	ClientSize() (width, height int, err error)
}

// Titler is implemented by platforms that can show a diagnostic title.
type Titler interface {
	SetTitle(title string) error
}

// Renderer draws one frame.
//
// Render gets exclusive access to the canvas for the duration of the call.
// It may write any in-bounds pixel but must not resize the canvas or keep
// c or in after returning. dt is the time since the previous frame in
// seconds.
type Renderer interface {
	Render(c *canvas.Canvas, in *input.State, dt float64)
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(c *canvas.Canvas, in *input.State, dt float64)

func (f RenderFunc) Render(c *canvas.Canvas, in *input.State, dt float64) {
	f(c, in, dt)
}
