package demo

import (
	"math"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

const (
	minPlasmaSpeed = 0.25
	maxPlasmaSpeed = 8
)

// Plasma fills every pixel from a sum of sines. Up/down change the speed,
// a left click moves the centre of the pattern.
type Plasma struct {
	t      float64
	speed  float64
	cx, cy float64
	placed bool
}

func NewPlasma() *Plasma {
	return &Plasma{speed: 1}
}

func (p *Plasma) Render(c *canvas.Canvas, in *input.State, dt float64) {
	if in.Keyboard.Up.JustPressed() {
		p.speed = math.Min(p.speed*2, maxPlasmaSpeed)
	}
	if in.Keyboard.Down.JustPressed() {
		p.speed = math.Max(p.speed/2, minPlasmaSpeed)
	}
	if in.Mouse.Left.JustPressed() {
		p.cx, p.cy = float64(in.Mouse.X), float64(in.Mouse.Y)
		p.placed = true
	}
	if !p.placed {
		p.cx, p.cy = float64(c.Width())/2, float64(c.Height())/2
	}
	p.t += dt * p.speed

	w := c.Width()
	pix := c.Pix()
	for y := 0; y < c.Height(); y++ {
		dy := float64(y) - p.cy
		row := pix[y*w : (y+1)*w]
		for x := range row {
			dx := float64(x) - p.cx
			v := math.Sin(dx/23+p.t) +
				math.Sin(dy/17-p.t*1.3) +
				math.Sin(math.Sqrt(dx*dx+dy*dy)/19-p.t*0.7)
			row[x] = canvas.RGB(wave(v, 0), wave(v, 2.094), wave(v, 4.188))
		}
	}
}

func wave(v, phase float64) uint8 {
	return uint8(127.5 + 127.5*math.Sin(v*math.Pi/1.5+phase))
}
