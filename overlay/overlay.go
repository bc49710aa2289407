// Package overlay rasterises frame statistics into the canvas.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/frame"
	"github.com/milk9111/rawframe/input"
)

const padding = 4

// Overlay draws a small statistics panel in the top-left corner.
type Overlay struct {
	Enabled bool
	Face    font.Face
	Fg      color.Color
	Bg      uint32
}

func New() *Overlay {
	return &Overlay{
		Enabled: true,
		Face:    basicfont.Face7x13,
		Fg:      color.RGBA{R: 0xf0, G: 0xf0, B: 0x60, A: 0xff},
		Bg:      canvas.RGB(0x10, 0x10, 0x18),
	}
}

// Lines formats the panel text.
func Lines(s frame.Stats, in *input.State) []string {
	return []string{
		fmt.Sprintf("%.1f fps  %.2f ms", s.FPS(), s.Delta*1000),
		fmt.Sprintf("%dx%d  frame %d  skipped %d", s.Width, s.Height, s.Frames, s.Skipped),
		fmt.Sprintf("mouse %d,%d", in.Mouse.X, in.Mouse.Y),
	}
}

// Hook returns the overlay as a frame hook.
func (o *Overlay) Hook() frame.Hook {
	return func(c *canvas.Canvas, in *input.State, s frame.Stats) {
		if o.Enabled {
			o.Draw(c, Lines(s, in))
		}
	}
}

// Draw renders lines over a filled background. Text that does not fit the
// canvas is clipped.
func (o *Overlay) Draw(c *canvas.Canvas, lines []string) {
	if len(lines) == 0 || c.Len() == 0 {
		return
	}

	m := o.Face.Metrics()
	lineHeight := m.Height.Ceil()
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(o.Face, l).Ceil())
	}
	c.FillRect(0, 0, width+2*padding, lineHeight*len(lines)+2*padding, o.Bg)

	d := &font.Drawer{
		Dst:  c.Image(),
		Src:  image.NewUniform(o.Fg),
		Face: o.Face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(padding, padding+i*lineHeight+m.Ascent.Ceil())
		d.DrawString(l)
	}
}
