// Package canvas implements the raw pixel surface a frame renderer writes
// into before it is presented.
//
// Pixels are packed 0xAARRGGBB values stored row-major and top-down: the
// pixel at column x of row y lives at index y*Width()+x and row 0 is the
// top scanline of the window. The alpha byte is ignored on presentation.
package canvas

import (
	"errors"
	"fmt"
	"math"
)

// MaxPixels caps a single allocation. Anything larger is reported as an
// allocation failure instead of being handed to the runtime, which would
// abort the process.
const MaxPixels = 1 << 28

// ErrAllocation reports that a canvas of the requested size cannot be
// allocated.
var ErrAllocation = errors.New("canvas: allocation failed")

// Canvas is an exclusively owned, resizable block of packed pixels.
type Canvas struct {
	width  int
	height int
	pix    []uint32
}

// New allocates a width*height canvas.
func New(width, height int) (*Canvas, error) {
	n, err := pixelCount(width, height)
	if err != nil {
		return nil, fmt.Errorf("canvas: allocate %dx%d: %w", width, height, err)
	}
	return &Canvas{width: width, height: height, pix: make([]uint32, n)}, nil
}

// Resize changes the canvas dimensions. Contents are neither preserved nor
// cleared. The backing array is reused while the new size needs at least
// half of it, so storage stays proportional to the window. When the request
// is rejected the canvas keeps its previous size and storage.
func (c *Canvas) Resize(width, height int) error {
	n, err := pixelCount(width, height)
	if err != nil {
		return fmt.Errorf("canvas: resize %dx%d: %w", width, height, err)
	}

	if Reusable(cap(c.pix), n) {
		c.pix = c.pix[:n]
	} else {
		c.pix = make([]uint32, n)
	}
	c.width = width
	c.height = height
	return nil
}

// Reusable reports whether a buffer of capacity capacity should be resliced
// to hold n elements rather than replaced. Buffers that would sit more than
// half empty are replaced.
func Reusable(capacity, n int) bool {
	return n <= capacity && n >= capacity/2
}

func pixelCount(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, ErrAllocation
	}
	if width != 0 && height > math.MaxInt/width {
		return 0, ErrAllocation
	}
	n := width * height
	if n > MaxPixels {
		return 0, ErrAllocation
	}
	return n, nil
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Len returns Width()*Height().
func (c *Canvas) Len() int { return len(c.pix) }

// Pix exposes the backing slice for renderers that write whole rows. The
// slice is only valid until the next Resize.
func (c *Canvas) Pix() []uint32 { return c.pix }

// Get returns the pixel at index i. It panics when i is out of range.
func (c *Canvas) Get(i int) uint32 {
	c.check(i)
	return c.pix[i]
}

// Set stores p at index i. It panics when i is out of range.
func (c *Canvas) Set(i int, p uint32) {
	c.check(i)
	c.pix[i] = p
}

func (c *Canvas) check(i int) {
	if i < 0 || i >= len(c.pix) {
		panic(fmt.Sprintf("canvas: index %d out of range [0, %d) for %dx%d canvas", i, len(c.pix), c.width, c.height))
	}
}

// Index converts a column/row pair into a pixel index. It does not check
// bounds; Get and Set do.
func (c *Canvas) Index(x, y int) int {
	return y*c.width + x
}

// InBounds reports whether (x, y) addresses a pixel of the canvas.
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// Fill sets every pixel to p.
func (c *Canvas) Fill(p uint32) {
	for i := range c.pix {
		c.pix[i] = p
	}
}

// FillRect fills the intersection of the rectangle with the canvas. Any
// int arguments are accepted; the rectangle is clipped without overflow.
func (c *Canvas) FillRect(x, y, w, h int, p uint32) {
	x0, x1 := clip(x, w, c.width)
	y0, y1 := clip(y, h, c.height)
	for row := y0; row < y1; row++ {
		line := c.pix[row*c.width : (row+1)*c.width]
		for col := x0; col < x1; col++ {
			line[col] = p
		}
	}
}

// clip intersects [pos, pos+size) with [0, limit).
func clip(pos, size, limit int) (int, int) {
	if size <= 0 || pos >= limit {
		return 0, 0
	}
	if pos < 0 {
		// size > 0 and pos < 0, so the sum cannot overflow
		size += pos
		pos = 0
		if size <= 0 {
			return 0, 0
		}
	}
	return pos, pos + min(size, limit-pos)
}
