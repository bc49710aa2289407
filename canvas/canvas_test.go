package canvas

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"one_pixel", 1, 1, false},
		{"hd", 1280, 720, false},
		{"zero_width", 0, 10, false},
		{"zero_height", 10, 0, false},
		{"negative", -1, 10, true},
		{"overflow", math.MaxInt, 2, true},
		{"above_cap", MaxPixels, 2, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cv, err := New(c.width, c.height)
			if c.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrAllocation)
				assert.Nil(t, cv)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.width, cv.Width())
			assert.Equal(t, c.height, cv.Height())
			assert.Equal(t, c.width*c.height, cv.Len())
			assert.Len(t, cv.Pix(), c.width*c.height)
		})
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	cv, err := New(7, 5)
	require.NoError(t, err)

	for i := 0; i < cv.Len(); i++ {
		cv.Set(i, uint32(i)*0x010203)
	}
	for i := 0; i < cv.Len(); i++ {
		assert.Equal(t, uint32(i)*0x010203, cv.Get(i), "index %d", i)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	cv, err := New(4, 4)
	require.NoError(t, err)

	assert.Panics(t, func() { cv.Get(16) })
	assert.Panics(t, func() { cv.Set(-1, White) })
	assert.NotPanics(t, func() { cv.Set(15, White) })
}

func TestResizeSequence(t *testing.T) {
	cv, err := New(16, 16)
	require.NoError(t, err)

	sizes := [][2]int{{32, 8}, {3, 3}, {100, 50}, {1, 1}, {64, 64}, {0, 9}, {5, 5}}
	for _, s := range sizes {
		require.NoError(t, cv.Resize(s[0], s[1]))
		assert.Equal(t, s[0], cv.Width())
		assert.Equal(t, s[1], cv.Height())
		require.Equal(t, s[0]*s[1], cv.Len())

		for i := 0; i < cv.Len(); i++ {
			cv.Set(i, Black)
		}
		assert.Panics(t, func() { cv.Get(cv.Len()) })
	}
}

func TestResizeFailureLeavesCanvasIntact(t *testing.T) {
	cv, err := New(8, 4)
	require.NoError(t, err)
	cv.Fill(White)

	err = cv.Resize(math.MaxInt, math.MaxInt)
	require.ErrorIs(t, err, ErrAllocation)

	assert.Equal(t, 8, cv.Width())
	assert.Equal(t, 4, cv.Height())
	assert.Equal(t, 32, cv.Len())
	assert.Equal(t, White, cv.Get(31))
}

func TestFillRectClips(t *testing.T) {
	cv, err := New(4, 3)
	require.NoError(t, err)
	cv.Fill(Black)

	cv.FillRect(-2, 1, 4, 10, White)

	want := []uint32{
		Black, Black, Black, Black,
		White, White, Black, Black,
		White, White, Black, Black,
	}
	assert.Equal(t, want, cv.Pix())
}

func TestResizeReleasesMemoryOnShrink(t *testing.T) {
	cv, err := New(4000, 4000)
	require.NoError(t, err)

	require.NoError(t, cv.Resize(1, 1))
	assert.LessOrEqual(t, cap(cv.Pix()), 2)

	// growing back and shrinking a little keeps the same array
	require.NoError(t, cv.Resize(100, 100))
	before := &cv.Pix()[0]
	require.NoError(t, cv.Resize(80, 80))
	assert.Same(t, before, &cv.Pix()[0])
	assert.Equal(t, 6400, cv.Len())
}

func TestReusable(t *testing.T) {
	cases := []struct {
		capacity, n int
		want        bool
	}{
		{0, 0, true},
		{10, 10, true},
		{10, 5, true},
		{10, 4, false},
		{10, 11, false},
		{16000000, 1, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Reusable(c.capacity, c.n), "cap %d n %d", c.capacity, c.n)
	}
}

func TestFillRectHugeSizes(t *testing.T) {
	cases := []struct {
		name       string
		x, y, w, h int
		want       []uint32
	}{
		{"from_origin", 0, 0, math.MaxInt, 1, []uint32{White, White, White, Black, Black, Black}},
		{"offset", 1, 0, math.MaxInt, 1, []uint32{Black, White, White, Black, Black, Black}},
		{"tall", 2, 0, 1, math.MaxInt, []uint32{Black, Black, White, Black, Black, White}},
		{"far_negative", math.MinInt, 1, math.MaxInt, 1, []uint32{Black, Black, Black, Black, Black, Black}},
		{"far_right", math.MaxInt, 0, math.MaxInt, 2, []uint32{Black, Black, Black, Black, Black, Black}},
		{"negative_size", 0, 0, -3, 2, []uint32{Black, Black, Black, Black, Black, Black}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cv, err := New(3, 2)
			require.NoError(t, err)
			cv.Fill(Black)
			cv.FillRect(c.x, c.y, c.w, c.h, White)
			assert.Equal(t, c.want, cv.Pix())
		})
	}
}

// Row 0 is the top scanline: a red pixel written at (0, 0) must come out
// as the first RGBA quad and a blue pixel at the bottom-right as the last.
func TestRowOrientationTopDown(t *testing.T) {
	cv, err := New(3, 2)
	require.NoError(t, err)
	cv.Fill(Black)
	cv.Set(cv.Index(0, 0), RGB(0xff, 0, 0))
	cv.Set(cv.Index(2, 1), RGB(0, 0, 0xff))

	buf := make([]byte, 4*cv.Len())
	require.NoError(t, cv.CopyRGBA(buf))

	assert.Equal(t, []byte{0xff, 0, 0, 0xff}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0xff, 0xff}, buf[len(buf)-4:])

	img := cv.RGBA()
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, img.RGBAAt(2, 1))
}

func TestCopyRGBAShortBuffer(t *testing.T) {
	cv, err := New(2, 2)
	require.NoError(t, err)
	assert.Error(t, cv.CopyRGBA(make([]byte, 15)))
}

func TestImageView(t *testing.T) {
	cv, err := New(2, 2)
	require.NoError(t, err)
	cv.Fill(Black)

	img := cv.Image()
	img.Set(1, 0, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})
	img.Set(5, 5, color.White)
	img.Set(0, 1, color.RGBA{})

	assert.Equal(t, RGB(10, 20, 30), cv.Get(1))
	assert.Equal(t, Black, cv.Get(2))
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 0xff}, img.At(1, 0))

	// half-transparent white over black lands mid-grey
	img.Set(0, 0, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x80})
	r, g, b := Unpack(cv.Get(0))
	assert.InDelta(t, 0x80, int(r), 1)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestPackUnpack(t *testing.T) {
	p := RGB(0x12, 0x34, 0x56)
	assert.Equal(t, uint32(0xff123456), p)
	r, g, b := Unpack(p)
	assert.Equal(t, [3]uint8{0x12, 0x34, 0x56}, [3]uint8{r, g, b})
	assert.Equal(t, p, FromColor(ToColor(p)))
}
