package canvas

import "image/color"

// RGB packs 8-bit channels into a pixel with an opaque alpha byte.
func RGB(r, g, b uint8) uint32 {
	return 0xff<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a pixel into its color channels. The alpha byte is
// dropped.
func Unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// FromColor converts any color.Color to a packed pixel, flattening alpha
// against black.
func FromColor(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ToColor converts a packed pixel to an opaque color.RGBA.
func ToColor(p uint32) color.RGBA {
	r, g, b := Unpack(p)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

var (
	Black = RGB(0, 0, 0)
	White = RGB(0xff, 0xff, 0xff)
)
