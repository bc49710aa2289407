package frame

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

// fakePlatform replays scripted per-frame events and client sizes.
type fakePlatform struct {
	frames   [][]Event
	frame    int
	queue    []Event
	samples  []input.Sample
	sizes    [][2]int
	sizeErr  error
	presErr  error
	titleErr error

	presented []image.Rectangle
	presSizes [][2]int
	defaults  []Event
	titles    []string
	log       []string
}

func (p *fakePlatform) PollEvent() (Event, bool) {
	if p.queue == nil && p.frame < len(p.frames) {
		p.queue = append([]Event{}, p.frames[p.frame]...)
		p.frame++
	}
	if len(p.queue) == 0 {
		p.queue = nil
		return Event{}, false
	}
	ev := p.queue[0]
	p.queue = p.queue[1:]
	p.log = append(p.log, "poll:"+ev.Kind.String())
	return ev, true
}

func (p *fakePlatform) DefaultHandle(ev Event) {
	p.defaults = append(p.defaults, ev)
}

func (p *fakePlatform) SampleInput() input.Sample {
	p.log = append(p.log, "sample")
	if len(p.samples) == 0 {
		return input.Sample{}
	}
	s := p.samples[0]
	p.samples = p.samples[1:]
	return s
}

func (p *fakePlatform) ClientSize() (int, int, error) {
	if p.sizeErr != nil {
		return 0, 0, p.sizeErr
	}
	if len(p.sizes) == 0 {
		return 64, 48, nil
	}
	s := p.sizes[0]
	if len(p.sizes) > 1 {
		p.sizes = p.sizes[1:]
	}
	return s[0], s[1], nil
}

func (p *fakePlatform) Present(c *canvas.Canvas, dst image.Rectangle) error {
	p.log = append(p.log, "present")
	if p.presErr != nil {
		return p.presErr
	}
	p.presented = append(p.presented, dst)
	p.presSizes = append(p.presSizes, [2]int{c.Width(), c.Height()})
	return nil
}

func (p *fakePlatform) SetTitle(title string) error {
	p.titles = append(p.titles, title)
	return p.titleErr
}

type fakeClock struct {
	times []time.Time
}

func (c *fakeClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

type recorder struct {
	calls  int
	dts    []float64
	mouse  [][2]int
	sizes  [][2]int
	just   []bool
	onCall func(c *canvas.Canvas, in *input.State)
}

func (r *recorder) Render(c *canvas.Canvas, in *input.State, dt float64) {
	r.calls++
	r.dts = append(r.dts, dt)
	r.mouse = append(r.mouse, [2]int{in.Mouse.X, in.Mouse.Y})
	r.sizes = append(r.sizes, [2]int{c.Width(), c.Height()})
	r.just = append(r.just, in.Mouse.Left.JustPressed())
	if r.onCall != nil {
		r.onCall(c, in)
	}
}

func newLoop(t *testing.T, p *fakePlatform, r Renderer, opts ...Option) *Loop {
	t.Helper()
	l, err := New(p, r, opts...)
	require.NoError(t, err)
	return l
}

func TestFirstFrameResizesToClientArea(t *testing.T) {
	p := &fakePlatform{sizes: [][2]int{{320, 200}}}
	r := &recorder{}
	l := newLoop(t, p, r)

	assert.Equal(t, DefaultWidth, l.Canvas().Width())

	running, err := l.Step()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, [][2]int{{320, 200}}, r.sizes)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 320, 200)}, p.presented)
}

func TestResizeOnlyAfterResizeFinished(t *testing.T) {
	p := &fakePlatform{
		frames: [][]Event{
			nil,
			nil,
			{{Kind: EventResizeFinished}},
		},
		sizes: [][2]int{{100, 50}, {200, 80}, {200, 80}, {200, 80}},
	}
	r := &recorder{}
	l := newLoop(t, p, r)

	for i := 0; i < 3; i++ {
		_, err := l.Step()
		require.NoError(t, err)
	}

	// the window grew on frame 2 but the canvas follows only once the
	// resize has finished
	assert.Equal(t, [][2]int{{100, 50}, {100, 50}, {200, 80}}, r.sizes)
	assert.Equal(t, image.Rect(0, 0, 200, 80), p.presented[1])
}

func TestQuitHaltsBeforeRenderAndPresent(t *testing.T) {
	p := &fakePlatform{
		frames: [][]Event{
			nil,
			{{Kind: EventPointerMove, X: 5, Y: 6}, {Kind: EventQuit}, {Kind: EventPointerMove, X: 7, Y: 8}},
		},
	}
	r := &recorder{}
	l := newLoop(t, p, r)

	require.NoError(t, l.Run())

	assert.Equal(t, Terminated, l.State())
	assert.Equal(t, 1, r.calls)
	assert.Len(t, p.presented, 1)
	assert.Equal(t, []string{"sample", "present", "poll:pointer-move", "poll:quit"}, p.log)

	running, err := l.Step()
	require.NoError(t, err)
	assert.False(t, running)
	assert.Equal(t, 1, r.calls)
}

func TestPointerMoveUpdatesMouseLastWins(t *testing.T) {
	p := &fakePlatform{
		frames: [][]Event{
			{{Kind: EventPointerMove, X: 1, Y: 1}, {Kind: EventPointerMove, X: 120, Y: 45}},
			nil,
		},
	}
	r := &recorder{}
	l := newLoop(t, p, r)

	for i := 0; i < 2; i++ {
		_, err := l.Step()
		require.NoError(t, err)
	}
	assert.Equal(t, [][2]int{{120, 45}, {120, 45}}, r.mouse)
}

func TestOtherEventsForwarded(t *testing.T) {
	ev := Event{Kind: EventOther, Payload: "focus"}
	p := &fakePlatform{frames: [][]Event{{ev}}}
	l := newLoop(t, p, &recorder{})

	_, err := l.Step()
	require.NoError(t, err)
	assert.Equal(t, []Event{ev}, p.defaults)
}

func TestInputSampledOncePerFrame(t *testing.T) {
	p := &fakePlatform{
		samples: []input.Sample{{}, {MouseLeft: true}, {MouseLeft: true}, {}},
	}
	r := &recorder{}
	l := newLoop(t, p, r)

	for i := 0; i < 4; i++ {
		_, err := l.Step()
		require.NoError(t, err)
	}
	assert.Equal(t, []bool{false, true, false, false}, r.just)
}

func TestDeltaTime(t *testing.T) {
	base := time.Unix(1000, 0)
	clock := &fakeClock{times: []time.Time{
		base,
		base.Add(16 * time.Millisecond),
		base.Add(50 * time.Millisecond),
		base.Add(40 * time.Millisecond), // clock stepped backwards
	}}
	p := &fakePlatform{}
	r := &recorder{}
	l := newLoop(t, p, r, WithClock(clock))

	for i := 0; i < 4; i++ {
		_, err := l.Step()
		require.NoError(t, err)
	}

	require.Len(t, r.dts, 4)
	assert.Equal(t, 0.0, r.dts[0])
	assert.InDelta(t, 0.016, r.dts[1], 1e-9)
	assert.InDelta(t, 0.034, r.dts[2], 1e-9)
	assert.Equal(t, 0.0, r.dts[3])
}

func TestZeroAreaSkipsFrame(t *testing.T) {
	cases := []struct {
		name string
		size [2]int
	}{
		{"zero_width", [2]int{0, 300}},
		{"zero_height", [2]int{400, 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &fakePlatform{sizes: [][2]int{{64, 48}, c.size, c.size, {80, 60}}}
			r := &recorder{}
			l := newLoop(t, p, r)

			for i := 0; i < 4; i++ {
				running, err := l.Step()
				require.NoError(t, err)
				assert.True(t, running)
			}

			assert.Equal(t, 2, r.calls)
			assert.Len(t, p.presented, 2)
			// the restored window gets a canvas of its new size without an
			// explicit resize event
			assert.Equal(t, [][2]int{{64, 48}, {80, 60}}, r.sizes)
			assert.Equal(t, uint64(2), l.Stats().Skipped)
		})
	}
}

func TestPlatformFailuresAreFatal(t *testing.T) {
	boom := errors.New("boom")

	t.Run("client_size", func(t *testing.T) {
		p := &fakePlatform{sizeErr: boom}
		r := &recorder{}
		l := newLoop(t, p, r)

		err := l.Run()
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		var pe *PlatformError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "query client size", pe.Op)
		assert.Equal(t, 0, r.calls)
		assert.Equal(t, Terminated, l.State())
	})

	t.Run("present", func(t *testing.T) {
		p := &fakePlatform{presErr: codeErr{code: 8}}
		l := newLoop(t, p, &recorder{})

		err := l.Run()
		var pe *PlatformError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "present", pe.Op)
		assert.Equal(t, 8, pe.Code)
		assert.Contains(t, err.Error(), "code 8")
	})

	t.Run("resize", func(t *testing.T) {
		p := &fakePlatform{sizes: [][2]int{{canvas.MaxPixels, 2}}}
		r := &recorder{}
		l := newLoop(t, p, r)

		_, err := l.Step()
		require.ErrorIs(t, err, canvas.ErrAllocation)
		assert.Equal(t, 0, r.calls)
	})
}

type codeErr struct{ code int }

func (e codeErr) Error() string { return "platform call failed" }
func (e codeErr) Code() int     { return e.code }

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := New(nil, &recorder{})
	assert.Error(t, err)

	_, err = New(&fakePlatform{}, nil)
	assert.Error(t, err)

	_, err = New(&fakePlatform{}, &recorder{}, WithInitialSize(-1, 1))
	assert.ErrorIs(t, err, canvas.ErrAllocation)
}

func TestTitleUpdates(t *testing.T) {
	base := time.Unix(0, 0)
	clock := &fakeClock{times: []time.Time{
		base,
		base.Add(10 * time.Millisecond),
		base.Add(20 * time.Millisecond),
		base.Add(300 * time.Millisecond),
	}}
	p := &fakePlatform{titleErr: errors.New("no title")}
	l := newLoop(t, p, &recorder{}, WithClock(clock), WithTitleInterval(250*time.Millisecond))

	for i := 0; i < 4; i++ {
		_, err := l.Step()
		require.NoError(t, err, "title errors are not fatal")
	}
	assert.Equal(t, []string{"frame time: 0.000 ms", "frame time: 280.000 ms"}, p.titles)

	l.SetTitleFormat("")
	clock.times = []time.Time{base.Add(time.Second)}
	_, err := l.Step()
	require.NoError(t, err)
	assert.Len(t, p.titles, 2)
}

func TestHooksRunBetweenRenderAndPresent(t *testing.T) {
	p := &fakePlatform{}
	var order []string
	r := &recorder{onCall: func(c *canvas.Canvas, in *input.State) {
		order = append(order, "render")
		c.Fill(canvas.Black)
	}}
	hook := func(c *canvas.Canvas, in *input.State, s Stats) {
		order = append(order, "hook")
		assert.Equal(t, uint64(1), s.Frames)
		assert.Equal(t, 64, s.Width)
		c.Set(0, canvas.White)
	}
	l := newLoop(t, p, r, WithHook(hook))

	_, err := l.Step()
	require.NoError(t, err)
	assert.Equal(t, []string{"render", "hook"}, order)
	assert.Equal(t, canvas.White, l.Canvas().Get(0))
}

func TestSetRendererAndRenderFunc(t *testing.T) {
	p := &fakePlatform{}
	l := newLoop(t, p, &recorder{})

	called := 0
	l.SetRenderer(RenderFunc(func(c *canvas.Canvas, in *input.State, dt float64) { called++ }))
	l.SetRenderer(nil)

	_, err := l.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, called)
}

func TestStatsAverage(t *testing.T) {
	var w statsWindow
	w.record(0, 10, 10)
	for i := 0; i < statsWindowSize+10; i++ {
		w.record(0.02, 10, 10)
	}
	s := w.snapshot()
	assert.Equal(t, uint64(statsWindowSize+11), s.Frames)
	assert.InDelta(t, 0.02, s.AvgDelta, 1e-9)
	assert.InDelta(t, 50, s.FPS(), 1e-6)
	assert.Equal(t, 0.0, Stats{}.FPS())
}
