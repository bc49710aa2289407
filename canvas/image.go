package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// CopyRGBA writes the canvas as top-down, non-premultiplied RGBA bytes
// into dst, which must hold at least 4*Len() bytes. Every pixel is written
// fully opaque.
func (c *Canvas) CopyRGBA(dst []byte) error {
	if len(dst) < 4*len(c.pix) {
		return fmt.Errorf("canvas: rgba buffer of %d bytes too small for %dx%d", len(dst), c.width, c.height)
	}
	for i, p := range c.pix {
		o := i * 4
		dst[o] = uint8(p >> 16)
		dst[o+1] = uint8(p >> 8)
		dst[o+2] = uint8(p)
		dst[o+3] = 0xff
	}
	return nil
}

// RGBA returns a copy of the canvas as an *image.RGBA.
func (c *Canvas) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	_ = c.CopyRGBA(img.Pix)
	return img
}

// Image returns a draw.Image backed by the canvas storage. Writes through
// the view land in the canvas. Out-of-bounds Set calls are ignored, as the
// image/draw contract expects.
func (c *Canvas) Image() draw.Image {
	return view{c}
}

type view struct{ c *Canvas }

func (v view) ColorModel() color.Model { return color.RGBAModel }

func (v view) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.c.width, v.c.height)
}

func (v view) At(x, y int) color.Color {
	if !v.c.InBounds(x, y) {
		return color.RGBA{}
	}
	return ToColor(v.c.pix[v.c.Index(x, y)])
}

func (v view) Set(x, y int, col color.Color) {
	if !v.c.InBounds(x, y) {
		return
	}
	i := v.c.Index(x, y)
	_, _, _, a := col.RGBA()
	switch {
	case a == 0:
		return
	case a == 0xffff:
		v.c.pix[i] = FromColor(col)
	default:
		v.c.pix[i] = blend(v.c.pix[i], col)
	}
}

// blend composites a premultiplied color over an opaque pixel.
func blend(dst uint32, col color.Color) uint32 {
	sr, sg, sb, sa := col.RGBA()
	dr, dg, db := Unpack(dst)
	inv := 0xffff - sa
	r := (sr + uint32(dr)*0x101*inv/0xffff) >> 8
	g := (sg + uint32(dg)*0x101*inv/0xffff) >> 8
	b := (sb + uint32(db)*0x101*inv/0xffff) >> 8
	return RGB(uint8(r), uint8(g), uint8(b))
}
