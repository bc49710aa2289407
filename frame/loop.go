// Package frame drives the per-frame cycle of a software-rendered window:
// drain platform events, sample input, keep the canvas sized to the
// window, call the renderer and present the result.
//
// The loop is single threaded. Step runs one complete frame and returns
// only after the frame has been presented (or skipped).
package frame

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	DefaultTitleFormat = "frame time: %.3f ms"
)

type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Clock supplies frame timestamps.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Hook runs after the renderer and before presentation. Hooks share the
// renderer's rules: no resizing, no retained references.
type Hook func(c *canvas.Canvas, in *input.State, s Stats)

type Option func(*Loop)

func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithInitialSize sets the size the canvas is allocated with before the
// first frame resizes it to the window.
func WithInitialSize(width, height int) Option {
	return func(l *Loop) {
		l.initW, l.initH = width, height
	}
}

// WithTitleFormat sets the fmt format used for the diagnostic title. It
// receives the last frame time in milliseconds. An empty format disables
// title updates.
func WithTitleFormat(format string) Option {
	return func(l *Loop) { l.titleFormat = format }
}

// WithTitleInterval throttles diagnostic title updates. Zero updates on
// every frame.
func WithTitleInterval(d time.Duration) Option {
	return func(l *Loop) { l.titleInterval = d }
}

func WithHook(h Hook) Option {
	return func(l *Loop) {
		if h != nil {
			l.hooks = append(l.hooks, h)
		}
	}
}

// Loop owns the canvas, the input state and the frame timing.
type Loop struct {
	platform Platform
	renderer Renderer
	clock    Clock
	logger   *slog.Logger
	hooks    []Hook

	canvas *canvas.Canvas
	input  input.State
	state  State

	resizePending bool
	started       bool
	last          time.Time

	initW, initH  int
	titleFormat   string
	titleInterval time.Duration
	lastTitle     time.Time
	titleFailed   bool

	stats statsWindow
}

// New allocates the canvas and prepares a loop in the Running state. The
// first Step always resizes the canvas to the window.
func New(p Platform, r Renderer, opts ...Option) (*Loop, error) {
	if p == nil {
		return nil, fmt.Errorf("frame: nil platform")
	}
	if r == nil {
		return nil, fmt.Errorf("frame: nil renderer")
	}

	l := &Loop{
		platform:      p,
		renderer:      r,
		clock:         ClockFunc(time.Now),
		logger:        slog.New(slog.DiscardHandler),
		initW:         DefaultWidth,
		initH:         DefaultHeight,
		titleFormat:   DefaultTitleFormat,
		resizePending: true,
	}
	for _, opt := range opts {
		opt(l)
	}

	c, err := canvas.New(l.initW, l.initH)
	if err != nil {
		return nil, fmt.Errorf("frame: create canvas: %w", err)
	}
	l.canvas = c
	return l, nil
}

func (l *Loop) State() State { return l.state }

// Canvas returns the loop's canvas. Callers outside the renderer must not
// hold on to it across frames.
func (l *Loop) Canvas() *canvas.Canvas { return l.canvas }

// SetRenderer swaps the renderer used from the next frame on.
func (l *Loop) SetRenderer(r Renderer) {
	if r != nil {
		l.renderer = r
	}
}

// SetTitleFormat changes the diagnostic title format at runtime.
func (l *Loop) SetTitleFormat(format string) {
	l.titleFormat = format
}

// Run steps the loop until a quit event arrives or a frame fails.
func (l *Loop) Run() error {
	for {
		running, err := l.Step()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

// Step runs a single frame. It returns false once the loop has terminated.
// Any error is fatal: the loop moves to Terminated and the error should end
// the process.
func (l *Loop) Step() (bool, error) {
	if l.state == Terminated {
		return false, nil
	}

	if quit := l.drainEvents(); quit {
		l.state = Terminated
		l.logger.Info("quit requested", "frames", l.stats.frames)
		return false, nil
	}

	l.input.UpdateButtons(l.platform.SampleInput())

	width, height, err := l.platform.ClientSize()
	if err != nil {
		return l.fail(platformError("query client size", err))
	}

	// A minimised window reports an empty client area. Nothing is drawn
	// and the canvas is resized once the window has an area again.
	if width <= 0 || height <= 0 {
		l.stats.skipped++
		l.resizePending = true
		l.logger.Debug("skipping frame for empty client area", "width", width, "height", height)
		return true, nil
	}

	if l.resizePending {
		if err := l.canvas.Resize(width, height); err != nil {
			return l.fail(fmt.Errorf("frame: resize canvas: %w", err))
		}
		l.resizePending = false
		l.logger.Debug("canvas resized", "width", width, "height", height)
	}

	now := l.clock.Now()
	dt := 0.0
	if l.started {
		dt = max(now.Sub(l.last).Seconds(), 0)
	}
	l.last = now
	l.started = true

	l.renderer.Render(l.canvas, &l.input, dt)

	l.stats.record(dt, l.canvas.Width(), l.canvas.Height())
	stats := l.stats.snapshot()
	for _, h := range l.hooks {
		h(l.canvas, &l.input, stats)
	}

	if err := l.platform.Present(l.canvas, image.Rect(0, 0, width, height)); err != nil {
		return l.fail(platformError("present", err))
	}

	l.updateTitle(now, dt)
	return true, nil
}

// drainEvents empties the platform queue and reports whether a quit event
// was seen. Events after a quit are left in the queue.
func (l *Loop) drainEvents() bool {
	for {
		ev, ok := l.platform.PollEvent()
		if !ok {
			return false
		}
		switch ev.Kind {
		case EventQuit:
			return true
		case EventResizeFinished:
			l.resizePending = true
		case EventPointerMove:
			l.input.SetMousePosition(ev.X, ev.Y)
		default:
			l.platform.DefaultHandle(ev)
		}
	}
}

func (l *Loop) fail(err error) (bool, error) {
	l.state = Terminated
	return false, err
}

func (l *Loop) updateTitle(now time.Time, dt float64) {
	if l.titleFormat == "" {
		return
	}
	t, ok := l.platform.(Titler)
	if !ok {
		return
	}
	if l.titleInterval > 0 && !l.lastTitle.IsZero() && now.Sub(l.lastTitle) < l.titleInterval {
		return
	}
	l.lastTitle = now

	if err := t.SetTitle(fmt.Sprintf(l.titleFormat, dt*1000)); err != nil && !l.titleFailed {
		l.titleFailed = true
		l.logger.Warn("set window title failed", "err", err)
	}
}
