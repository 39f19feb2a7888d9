package playback

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/san-kum/sortviz/internal/step"
)

const (
	MinSpeed = 0.1
	MaxSpeed = 30.0

	// MaxFrameDelta caps the wall time a front-end feeds into one Tick, so a
	// stalled frame does not skip steps.
	MaxFrameDelta = 0.25
)

type Phase int

const (
	Idle Phase = iota
	Draining
	SwapAnimating
	CompletionSweeping
	Finished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Draining:
		return "draining"
	case SwapAnimating:
		return "swapping"
	case CompletionSweeping:
		return "sweeping"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Observer is notified after each step is consumed from the log.
type Observer interface {
	OnStep(s step.Step, e *Engine)
}

type slot struct {
	value int
	x     float64
	role  Role
}

type swapAnim struct {
	i, j         int
	fromI, fromJ float64
	timer        Timer
}

type sweepAnim struct {
	index int
	timer Timer
}

// Engine replays a recorded step log frame by frame. It is not safe for
// concurrent use; the owning front-end calls Tick from its render loop.
type Engine struct {
	timing  Timing
	palette Palette
	layout  Layout

	slots  []slot
	final  []int
	log    *step.Log
	cursor int
	phase  Phase

	stepTimer  Timer
	swap       *swapAnim
	sweep      *sweepAnim
	highlights highlightRing

	paused bool
	speed  float64
	err    error

	observers []Observer
}

type Option func(*Engine)

func WithTiming(t Timing) Option   { return func(e *Engine) { e.timing = t } }
func WithPalette(p Palette) Option { return func(e *Engine) { e.palette = p } }
func WithLayout(l Layout) Option   { return func(e *Engine) { e.layout = l } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timing:  DefaultTiming(),
		palette: DefaultPalette(),
		layout:  DefaultLayout(),
		speed:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Arm loads a run. initial is the array before sorting, final the sorted
// result used when the log carries no steps. The speed multiplier carries
// over from the previous run; pause does not.
func (e *Engine) Arm(initial, final []int, log *step.Log) error {
	if log == nil {
		return fmt.Errorf("playback: nil step log")
	}
	if len(final) != len(initial) {
		return fmt.Errorf("playback: final has %d values, initial has %d", len(final), len(initial))
	}
	if log.Size() != len(initial) {
		return fmt.Errorf("playback: log recorded for %d values, got %d", log.Size(), len(initial))
	}

	e.Abort()
	e.slots = make([]slot, len(initial))
	for i, v := range initial {
		e.slots[i] = slot{value: v, x: e.layout.Home(i)}
	}
	e.final = slices.Clone(final)
	e.log = log
	e.stepTimer = e.newTimer(e.timing.StepInterval)
	e.phase = Draining
	return nil
}

// Abort discards the current run and returns the engine to Idle.
func (e *Engine) Abort() {
	e.slots = nil
	e.final = nil
	e.log = nil
	e.cursor = 0
	e.swap = nil
	e.sweep = nil
	e.highlights.clear()
	e.paused = false
	e.err = nil
	e.phase = Idle
}

// Tick advances playback by dt seconds of wall time.
func (e *Engine) Tick(dt float64) {
	if e.paused || e.phase == Idle {
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	e.highlights.advance(dt, e.expire)
	if e.phase == Finished {
		return
	}

	switch {
	case e.sweep != nil:
		e.advanceSweep(dt)
	case e.swap != nil:
		e.advanceSwap(dt)
	case e.cursor >= e.log.Len():
		e.finishLog()
	default:
		e.drain(dt)
	}
}

func (e *Engine) expire(i int) {
	if i < len(e.slots) && e.slots[i].role.isCompare() {
		e.slots[i].role = RoleDefault
	}
}

func (e *Engine) advanceSweep(dt float64) {
	s := e.sweep
	s.timer.Advance(dt)
	for s.timer.Done() {
		s.timer.Lap()
		e.slots[s.index].role = RoleSorted
		s.index++
		if s.index >= len(e.slots) {
			e.sweep = nil
			e.phase = Finished
			slog.Debug("completion sweep finished", "n", len(e.slots))
			return
		}
		e.slots[s.index].role = RoleFinal
	}
}

func (e *Engine) advanceSwap(dt float64) {
	s := e.swap
	s.timer.Advance(dt)

	t := s.timer.Progress()
	if t >= 1 {
		a, b := &e.slots[s.i], &e.slots[s.j]
		a.value, b.value = b.value, a.value
		a.role, b.role = b.role, a.role
		e.highlights.swap(s.i, s.j)
		a.x = e.layout.Home(s.i)
		b.x = e.layout.Home(s.j)
		e.swap = nil
		e.phase = Draining
		return
	}

	k := EaseInOutCubic(t)
	e.slots[s.i].x = lerp(s.fromI, s.fromJ, k)
	e.slots[s.j].x = lerp(s.fromJ, s.fromI, k)
}

func (e *Engine) finishLog() {
	n := len(e.slots)
	switch {
	case n == 0:
		e.phase = Finished
	case e.log.Len() > 0:
		e.clearCompares()
		e.sweep = &sweepAnim{timer: e.newTimer(e.timing.SweepInterval)}
		e.slots[0].role = RoleFinal
		e.phase = CompletionSweeping
		slog.Debug("completion sweep started", "n", n, "steps", e.log.Len())
	default:
		// Nothing was recorded: show the result without animating.
		for i := range e.slots {
			e.slots[i] = slot{value: e.final[i], x: e.layout.Home(i), role: RoleSorted}
		}
		e.phase = Finished
	}
}

func (e *Engine) drain(dt float64) {
	e.stepTimer.Advance(dt)
	if !e.stepTimer.Done() {
		return
	}

	s := e.log.At(e.cursor)
	if err := s.Validate(len(e.slots)); err != nil {
		e.halt(fmt.Errorf("step %d: %w", e.cursor, err))
		return
	}
	e.apply(s)
	e.cursor++
	e.stepTimer.Reset()

	for _, o := range e.observers {
		o.OnStep(s, e)
	}
}

func (e *Engine) apply(s step.Step) {
	switch s.Kind {
	case step.KindCompare:
		e.clearCompares(s.I, s.J)
		if s.I != step.None {
			e.slots[s.I].role = RoleCompareA
			e.highlights.add(s.I, e.timing.HighlightDuration, e.speed, e.paused)
		}
		if s.J != step.None {
			e.slots[s.J].role = RoleCompareB
			e.highlights.add(s.J, e.timing.HighlightDuration, e.speed, e.paused)
		}
	case step.KindHighlight:
		e.slots[s.I].role = RoleSorted
	case step.KindOverwrite:
		e.slots[s.I].value = s.Value
	case step.KindSwap:
		e.swap = &swapAnim{
			i:     s.I,
			j:     s.J,
			fromI: e.slots[s.I].x,
			fromJ: e.slots[s.J].x,
			timer: e.newTimer(e.timing.SwapDuration),
		}
		e.phase = SwapAnimating
	}
}

// clearCompares reverts compare colors on every slot not listed in keep.
func (e *Engine) clearCompares(keep ...int) {
	for i := range e.slots {
		if e.slots[i].role.isCompare() && !slices.Contains(keep, i) {
			e.slots[i].role = RoleDefault
		}
	}
	e.highlights.dropExcept(keep...)
}

func (e *Engine) halt(err error) {
	e.err = err
	e.swap = nil
	e.sweep = nil
	e.phase = Finished
	slog.Error("playback halted", "cursor", e.cursor, "steps", e.log.Len(), "error", err)
}

func (e *Engine) newTimer(base float64) Timer {
	t := NewTimer(base, e.speed)
	if e.paused {
		t.Stop()
	}
	return t
}

func (e *Engine) eachTimer(fn func(t *Timer)) {
	fn(&e.stepTimer)
	if e.swap != nil {
		fn(&e.swap.timer)
	}
	if e.sweep != nil {
		fn(&e.sweep.timer)
	}
	e.highlights.each(fn)
}

// FrameDelta clamps a measured frame time into [0, MaxFrameDelta]. NaN maps
// to zero.
func FrameDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	return min(dt, MaxFrameDelta)
}

// ClampSpeed maps any multiplier into [MinSpeed, MaxSpeed]. NaN and
// non-positive values map to MinSpeed.
func ClampSpeed(m float64) float64 {
	switch {
	case math.IsNaN(m), m < MinSpeed:
		return MinSpeed
	case m > MaxSpeed:
		return MaxSpeed
	}
	return m
}

// SetSpeed changes the playback multiplier. Every in-flight timer keeps its
// fractional progress.
func (e *Engine) SetSpeed(m float64) {
	e.speed = ClampSpeed(m)
	e.eachTimer(func(t *Timer) { t.Rescale(e.speed) })
}

func (e *Engine) TogglePause() {
	e.paused = !e.paused
	e.eachTimer(func(t *Timer) {
		if e.paused {
			t.Stop()
		} else {
			t.Start()
		}
	})
}

func (e *Engine) Count() int       { return len(e.slots) }
func (e *Engine) Phase() Phase     { return e.phase }
func (e *Engine) Cursor() int      { return e.cursor }
func (e *Engine) Paused() bool     { return e.paused }
func (e *Engine) Speed() float64   { return e.speed }
func (e *Engine) Err() error       { return e.err }
func (e *Engine) Palette() Palette { return e.palette }
func (e *Engine) Timing() Timing   { return e.timing }
func (e *Engine) Highlights() int  { return e.highlights.len() }
func (e *Engine) Active() bool     { return e.phase != Idle && e.phase != Finished }

// Progress is the fraction of the log consumed so far.
func (e *Engine) Progress() float64 {
	if e.log == nil {
		return 0
	}
	if e.log.Len() == 0 {
		if e.phase == Finished {
			return 1
		}
		return 0
	}
	return float64(e.cursor) / float64(e.log.Len())
}

// SwapProgress reports the clamped progress of the active swap animation.
func (e *Engine) SwapProgress() (float64, bool) {
	if e.swap == nil {
		return 0, false
	}
	return clamp(e.swap.timer.Progress(), 0, 1), true
}

func (e *Engine) VisualOf(i int) (SlotVisual, bool) {
	if i < 0 || i >= len(e.slots) {
		return SlotVisual{}, false
	}
	s := e.slots[i]
	v := SlotVisual{
		Value:            s.value,
		X:                s.x,
		Fill:             e.palette.fill(s.role),
		Outline:          e.palette.Outline,
		OutlineThickness: 1,
		Role:             s.role,
	}
	if s.role.isCompare() || s.role == RoleFinal {
		v.OutlineThickness = 2
	}
	if e.swap != nil && (i == e.swap.i || i == e.swap.j) {
		v.Swapping = true
		v.Outline = e.palette.Swapping
		v.OutlineThickness = 2
	}
	return v, true
}

func (e *Engine) Visuals() []SlotVisual {
	out := make([]SlotVisual, len(e.slots))
	for i := range e.slots {
		out[i], _ = e.VisualOf(i)
	}
	return out
}

func (e *Engine) Values() []int {
	out := make([]int, len(e.slots))
	for i, s := range e.slots {
		out[i] = s.value
	}
	return out
}

// MaxValue is the largest value currently shown, or 0 for an empty array.
func (e *Engine) MaxValue() int {
	m := 0
	for _, s := range e.slots {
		m = max(m, s.value)
	}
	return m
}
