package demo

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

const (
	ballGravity  = 900.0
	ballRadius   = 14.0
	ballMass     = 1.0
	wallRadius   = 4.0
	physicsStep  = 1.0 / 120.0
	maxFrameStep = 0.25
	maxBalls     = 400
)

var ballColors = []uint32{
	canvas.RGB(0xe8, 0x4a, 0x5f),
	canvas.RGB(0xff, 0x84, 0x7c),
	canvas.RGB(0xfe, 0xce, 0xab),
	canvas.RGB(0x99, 0xb8, 0x98),
	canvas.RGB(0x2a, 0x36, 0x3b),
}

type ball struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	color  uint32
}

// Balls drops physics-driven balls into a box the size of the canvas.
// Left click spawns a ball at the mouse, the arrow keys tilt gravity and a
// right click clears the box.
type Balls struct {
	space  *cp.Space
	walls  []*cp.Shape
	balls  []*ball
	w, h   int
	accum  float64
	spawns int
}

func NewBalls() *Balls {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: 0, Y: ballGravity})
	return &Balls{space: space}
}

func (b *Balls) Render(c *canvas.Canvas, in *input.State, dt float64) {
	if c.Width() != b.w || c.Height() != b.h {
		b.rebuildWalls(c.Width(), c.Height())
	}

	b.space.SetGravity(gravityFor(in))
	if in.Mouse.Right.JustPressed() {
		b.clear()
	}
	if in.Mouse.Left.JustPressed() {
		b.spawn(float64(in.Mouse.X), float64(in.Mouse.Y))
	}

	b.accum += math.Min(dt, maxFrameStep)
	for b.accum >= physicsStep {
		b.space.Step(physicsStep)
		b.accum -= physicsStep
	}

	c.Fill(canvas.RGB(0xf4, 0xf1, 0xde))
	for _, bl := range b.balls {
		pos := bl.body.Position()
		fillCircle(c, pos.X, pos.Y, bl.radius, bl.color)
	}
}

func gravityFor(in *input.State) cp.Vector {
	g := cp.Vector{X: 0, Y: ballGravity}
	switch {
	case in.Keyboard.Left.IsPressed():
		g = cp.Vector{X: -ballGravity, Y: 0}
	case in.Keyboard.Right.IsPressed():
		g = cp.Vector{X: ballGravity, Y: 0}
	case in.Keyboard.Up.IsPressed():
		g = cp.Vector{X: 0, Y: -ballGravity}
	}
	return g
}

// Count reports the number of live balls.
func (b *Balls) Count() int { return len(b.balls) }

func (b *Balls) spawn(x, y float64) {
	if len(b.balls) >= maxBalls {
		return
	}
	x = clamp(x, ballRadius, float64(b.w)-ballRadius)
	y = clamp(y, ballRadius, float64(b.h)-ballRadius)

	body := b.space.AddBody(cp.NewBody(ballMass, cp.MomentForCircle(ballMass, 0, ballRadius, cp.Vector{})))
	body.SetPosition(cp.Vector{X: x, Y: y})
	shape := b.space.AddShape(cp.NewCircle(body, ballRadius, cp.Vector{}))
	shape.SetElasticity(0.7)
	shape.SetFriction(0.6)

	b.balls = append(b.balls, &ball{
		body:   body,
		shape:  shape,
		radius: ballRadius,
		color:  ballColors[b.spawns%len(ballColors)],
	})
	b.spawns++
}

func (b *Balls) clear() {
	for _, bl := range b.balls {
		b.space.RemoveShape(bl.shape)
		b.space.RemoveBody(bl.body)
	}
	b.balls = nil
}

// rebuildWalls replaces the box with one matching the new canvas size and
// pulls balls that ended up outside back in.
func (b *Balls) rebuildWalls(w, h int) {
	for _, s := range b.walls {
		b.space.RemoveShape(s)
	}
	b.walls = b.walls[:0]
	b.w, b.h = w, h

	fw, fh := float64(w), float64(h)
	segments := [][2]cp.Vector{
		{{X: 0, Y: 0}, {X: fw, Y: 0}},
		{{X: 0, Y: fh}, {X: fw, Y: fh}},
		{{X: 0, Y: 0}, {X: 0, Y: fh}},
		{{X: fw, Y: 0}, {X: fw, Y: fh}},
	}
	for _, seg := range segments {
		shape := b.space.AddShape(cp.NewSegment(b.space.StaticBody, seg[0], seg[1], wallRadius))
		shape.SetElasticity(0.8)
		shape.SetFriction(0.9)
		b.walls = append(b.walls, shape)
	}

	for _, bl := range b.balls {
		pos := bl.body.Position()
		bl.body.SetPosition(cp.Vector{
			X: clamp(pos.X, bl.radius, fw-bl.radius),
			Y: clamp(pos.Y, bl.radius, fh-bl.radius),
		})
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

func fillCircle(c *canvas.Canvas, cx, cy, r float64, col uint32) {
	x0 := max(int(math.Floor(cx-r)), 0)
	x1 := min(int(math.Ceil(cx+r)), c.Width()-1)
	y0 := max(int(math.Floor(cy-r)), 0)
	y1 := min(int(math.Ceil(cy+r)), c.Height()-1)
	r2 := r * r
	pix := c.Pix()
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				pix[y*c.Width()+x] = col
			}
		}
	}
}
