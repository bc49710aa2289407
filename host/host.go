// Package host implements the frame loop's platform on top of ebiten: one
// resizable window, polled events, raw button sampling and presentation of
// the canvas through an offscreen image.
package host

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/config"
	"github.com/milk9111/rawframe/frame"
	"github.com/milk9111/rawframe/host/events"
	"github.com/milk9111/rawframe/input"
	"github.com/milk9111/rawframe/snapshot"
)

// Host is both the ebiten.Game and the frame.Platform. ebiten calls
// Update once per tick; Update runs exactly one frame of the loop.
type Host struct {
	window  config.WindowConfig
	keys    *keymap
	tracker events.Tracker
	queue   []frame.Event
	logger  *slog.Logger

	loop *frame.Loop
	// BeforeFrame, when set, runs on the game thread at the start of
	// every tick, before any event is queued.
	BeforeFrame func()

	outW, outH int
	offscreen  *ebiten.Image
	rgba       []byte

	saver       *snapshot.Saver
	shotPending bool
	titlePrefix string
}

func New(cfg *config.Config, logger *slog.Logger) (*Host, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	keys, err := newKeymap(cfg.Bindings)
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	h := &Host{
		window:      cfg.Window,
		keys:        keys,
		tracker:     events.Tracker{SettleTicks: cfg.ResizeSettleTicks},
		logger:      logger,
		titlePrefix: cfg.Window.Title,
		saver: &snapshot.Saver{
			Dir:    cfg.Screenshot.Dir,
			Logger: logger,
		},
	}
	if cfg.Screenshot.Clipboard {
		if cb, err := newClipboard(); err != nil {
			logger.Warn("clipboard unavailable, screenshots go to disk only", "err", err)
		} else {
			h.saver.Clipboard = cb
		}
	}
	return h, nil
}

// ApplyConfig updates the settings that can change while running.
func (h *Host) ApplyConfig(cfg *config.Config) error {
	keys, err := newKeymap(cfg.Bindings)
	if err != nil {
		return fmt.Errorf("host: %w", err)
	}
	h.keys = keys
	h.tracker.SettleTicks = cfg.ResizeSettleTicks
	h.titlePrefix = cfg.Window.Title
	h.saver.Dir = cfg.Screenshot.Dir
	ebiten.SetCursorMode(cursorMode(cfg.Window.HideCursor))
	ebiten.SetTPS(cfg.Window.TPS)
	return nil
}

// Run opens the window and drives loop until it terminates. It blocks and
// must be called from the main goroutine.
func (h *Host) Run(loop *frame.Loop) error {
	h.loop = loop

	ebiten.SetWindowSize(h.window.Width, h.window.Height)
	ebiten.SetWindowTitle(h.window.Title)
	if h.window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
	ebiten.SetTPS(h.window.TPS)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetCursorMode(cursorMode(h.window.HideCursor))

	if err := ebiten.RunGame(h); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}

func cursorMode(hidden bool) ebiten.CursorModeType {
	if hidden {
		return ebiten.CursorModeHidden
	}
	return ebiten.CursorModeVisible
}

func (h *Host) Update() error {
	if h.BeforeFrame != nil {
		h.BeforeFrame()
	}

	cx, cy := ebiten.CursorPosition()
	h.queue = h.tracker.Observe(h.queue, events.Observation{
		Closing: ebiten.IsWindowBeingClosed(),
		QuitKey: anyJustPressed(h.keys.quit),
		Focused: ebiten.IsFocused(),
		Width:   h.outW,
		Height:  h.outH,
		CursorX: cx,
		CursorY: cy,
	})
	if anyJustPressed(h.keys.screenshot) {
		h.shotPending = true
	}

	running, err := h.loop.Step()
	if err != nil {
		return err
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

// Draw stretches the last presented canvas over the screen, the way a
// native blit to the client rectangle would.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.offscreen == nil {
		return
	}
	sb := screen.Bounds()
	ob := h.offscreen.Bounds()
	op := &ebiten.DrawImageOptions{}
	if sb.Dx() != ob.Dx() || sb.Dy() != ob.Dy() {
		op.GeoM.Scale(float64(sb.Dx())/float64(ob.Dx()), float64(sb.Dy())/float64(ob.Dy()))
		op.Filter = ebiten.FilterNearest
	}
	screen.DrawImage(h.offscreen, op)
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.outW, h.outH = outsideWidth, outsideHeight
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

func (h *Host) PollEvent() (frame.Event, bool) {
	if len(h.queue) == 0 {
		return frame.Event{}, false
	}
	ev := h.queue[0]
	h.queue = h.queue[1:]
	if len(h.queue) == 0 {
		h.queue = nil
	}
	return ev, true
}

// DefaultHandle has nothing to forward to: ebiten has already acted on
// every window message by the time the host sees it.
func (h *Host) DefaultHandle(ev frame.Event) {
	if fc, ok := ev.Payload.(events.FocusChange); ok {
		h.logger.Debug("window focus changed", "focused", fc.Focused)
		return
	}
	h.logger.Debug("unhandled event", "kind", ev.Kind, "payload", ev.Payload)
}

func (h *Host) SampleInput() input.Sample {
	return h.keys.sample()
}

func (h *Host) ClientSize() (int, int, error) {
	if ebiten.IsWindowMinimized() {
		return 0, 0, nil
	}
	return h.outW, h.outH, nil
}

// Present uploads the canvas to the offscreen image Draw shows. The canvas
// and ebiten both use top-down rows, so pixels are copied without
// flipping.
func (h *Host) Present(c *canvas.Canvas, dst image.Rectangle) error {
	if c.Width() == 0 || c.Height() == 0 {
		return fmt.Errorf("host: present %dx%d canvas", c.Width(), c.Height())
	}
	if h.offscreen == nil || h.offscreen.Bounds().Dx() != c.Width() || h.offscreen.Bounds().Dy() != c.Height() {
		if h.offscreen != nil {
			h.offscreen.Deallocate()
		}
		h.offscreen = ebiten.NewImage(c.Width(), c.Height())
		h.logger.Debug("offscreen reallocated", "width", c.Width(), "height", c.Height(), "dst", dst)
	}
	if n := 4 * c.Len(); canvas.Reusable(cap(h.rgba), n) {
		h.rgba = h.rgba[:n]
	} else {
		h.rgba = make([]byte, n)
	}
	if err := c.CopyRGBA(h.rgba); err != nil {
		return err
	}
	h.offscreen.WritePixels(h.rgba)

	if h.shotPending {
		h.shotPending = false
		if _, err := h.saver.Save(c); err != nil {
			h.logger.Warn("screenshot failed", "err", err)
		}
	}
	return nil
}

func (h *Host) SetTitle(title string) error {
	ebiten.SetWindowTitle(h.windowTitle(title))
	return nil
}

// windowTitle prefixes diagnostics with the configured window title.
func (h *Host) windowTitle(diag string) string {
	if h.titlePrefix == "" {
		return diag
	}
	return h.titlePrefix + " | " + diag
}

var (
	_ frame.Platform = (*Host)(nil)
	_ frame.Titler   = (*Host)(nil)
	_ ebiten.Game    = (*Host)(nil)
)
