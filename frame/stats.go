package frame

// statsWindowSize is the number of frames averaged for Stats.AvgDelta.
const statsWindowSize = 60

// Stats describes the frames rendered so far.
type Stats struct {
	Frames  uint64
	Skipped uint64
	// Delta is the last frame time in seconds.
	Delta float64
	// AvgDelta is the mean frame time over the last statsWindowSize frames.
	AvgDelta float64
	Width    int
	Height   int
}

// FPS derives frames per second from AvgDelta.
func (s Stats) FPS() float64 {
	if s.AvgDelta <= 0 {
		return 0
	}
	return 1 / s.AvgDelta
}

type statsWindow struct {
	frames  uint64
	skipped uint64
	delta   float64
	width   int
	height  int

	ring [statsWindowSize]float64
	n    int
	next int
	sum  float64
}

func (w *statsWindow) record(dt float64, width, height int) {
	w.frames++
	w.delta = dt
	w.width, w.height = width, height

	// the first frame has no measured delta
	if w.frames == 1 {
		return
	}
	if w.n == len(w.ring) {
		w.sum -= w.ring[w.next]
	} else {
		w.n++
	}
	w.ring[w.next] = dt
	w.sum += dt
	w.next = (w.next + 1) % len(w.ring)
}

func (w *statsWindow) snapshot() Stats {
	s := Stats{
		Frames:  w.frames,
		Skipped: w.skipped,
		Delta:   w.delta,
		Width:   w.width,
		Height:  w.height,
	}
	if w.n > 0 {
		s.AvgDelta = w.sum / float64(w.n)
	}
	return s
}

// Stats returns a snapshot of the frame statistics.
func (l *Loop) Stats() Stats {
	return l.stats.snapshot()
}
