package playback

// Timer measures elapsed playback time against a duration derived from a
// base duration and the current speed multiplier.
//
// Elapsed time is kept as an accumulator plus a running clock. Stopping folds
// the clock into the accumulator; starting again resumes the clock from zero,
// so elapsed = accumulator + clock-since-resume at all times.
type Timer struct {
	base     float64
	duration float64
	accum    float64
	clock    float64
	stopped  bool
}

func NewTimer(base, speed float64) Timer {
	return Timer{base: base, duration: base / speed}
}

func (t *Timer) Advance(dt float64) {
	if !t.stopped {
		t.clock += dt
	}
}

func (t *Timer) Stop() {
	if t.stopped {
		return
	}
	t.accum += t.clock
	t.clock = 0
	t.stopped = true
}

func (t *Timer) Start() { t.stopped = false }

func (t *Timer) Running() bool     { return !t.stopped }
func (t *Timer) Elapsed() float64  { return t.accum + t.clock }
func (t *Timer) Duration() float64 { return t.duration }
func (t *Timer) Done() bool        { return t.Elapsed() >= t.duration }

// Progress is elapsed/duration. It is not clamped.
func (t *Timer) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return t.Elapsed() / t.duration
}

func (t *Timer) Reset() {
	t.accum = 0
	t.clock = 0
}

// Lap consumes one full duration, carrying any overshoot into the next
// interval.
func (t *Timer) Lap() {
	over := t.Elapsed() - t.duration
	if over < 0 {
		over = 0
	}
	t.accum = over
	t.clock = 0
}

// Rescale switches to base/speed while keeping fractional progress, clamped
// to [0, 1].
func (t *Timer) Rescale(speed float64) {
	p := clamp(t.Progress(), 0, 1)
	t.duration = t.base / speed
	t.accum = p * t.duration
	t.clock = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
