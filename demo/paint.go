package demo

import (
	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

var paintBrushes = []uint32{
	canvas.RGB(0x20, 0x20, 0x20),
	canvas.RGB(0xd6, 0x28, 0x28),
	canvas.RGB(0x2a, 0x9d, 0x8f),
	canvas.RGB(0x26, 0x46, 0x53),
	canvas.RGB(0xe9, 0xc4, 0x6a),
}

const (
	paintBackground = 0xfffafaf5
	minBrush        = 1
	maxBrush        = 64
)

// Paint keeps a persistent layer the mouse paints into. The canvas itself
// is not preserved across resizes, so the layer is copied into it every
// frame. Left drags paint, a right click clears, left/right cycle colors
// and up/down change the brush size.
type Paint struct {
	layer  []uint32
	w, h   int
	brush  int
	color  int
	lastX  int
	lastY  int
	stroke bool
}

func NewPaint() *Paint {
	return &Paint{brush: 4}
}

func (p *Paint) Render(c *canvas.Canvas, in *input.State, _ float64) {
	if c.Width() != p.w || c.Height() != p.h {
		p.resizeLayer(c.Width(), c.Height())
	}

	switch {
	case in.Keyboard.Right.JustPressed():
		p.color = (p.color + 1) % len(paintBrushes)
	case in.Keyboard.Left.JustPressed():
		p.color = (p.color + len(paintBrushes) - 1) % len(paintBrushes)
	}
	if in.Keyboard.Up.JustPressed() {
		p.brush = min(p.brush*2, maxBrush)
	}
	if in.Keyboard.Down.JustPressed() {
		p.brush = max(p.brush/2, minBrush)
	}
	if in.Mouse.Right.JustPressed() {
		p.clearLayer()
	}

	x, y := in.Mouse.X, in.Mouse.Y
	switch {
	case in.Mouse.Left.JustPressed():
		p.dab(x, y)
	case in.Mouse.Left.IsPressed() && p.stroke:
		p.line(p.lastX, p.lastY, x, y)
	}
	p.stroke = in.Mouse.Left.IsPressed()
	p.lastX, p.lastY = x, y

	copy(c.Pix(), p.layer)
}

// resizeLayer keeps the overlapping part of the old layer.
func (p *Paint) resizeLayer(w, h int) {
	layer := make([]uint32, w*h)
	for i := range layer {
		layer[i] = paintBackground
	}
	for y := 0; y < min(h, p.h); y++ {
		copy(layer[y*w:y*w+min(w, p.w)], p.layer[y*p.w:y*p.w+min(w, p.w)])
	}
	p.layer, p.w, p.h = layer, w, h
}

func (p *Paint) clearLayer() {
	for i := range p.layer {
		p.layer[i] = paintBackground
	}
}

func (p *Paint) dab(cx, cy int) {
	r := p.brush / 2
	col := paintBrushes[p.color]
	for y := cy - r; y <= cy+r; y++ {
		if y < 0 || y >= p.h {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < 0 || x >= p.w {
				continue
			}
			if dx, dy := x-cx, y-cy; dx*dx+dy*dy <= r*r {
				p.layer[y*p.w+x] = col
			}
		}
	}
}

// line dabs along a Bresenham line so fast strokes stay connected.
func (p *Paint) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		p.dab(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
