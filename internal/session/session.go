package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/sorter"
	"github.com/san-kum/sortviz/internal/step"
)

// MaxLength is the largest input a session will sort and animate.
const MaxLength = 100

var (
	ErrInputTooLarge = errors.New("session: input too large")
	ErrNegativeValue = errors.New("session: negative value")
)

type Config struct {
	Sorter  sorter.Options
	Timing  playback.Timing
	Palette playback.Palette
	Layout  playback.Layout
}

func DefaultConfig() Config {
	return Config{
		Timing:  playback.DefaultTiming(),
		Palette: playback.DefaultPalette(),
		Layout:  playback.DefaultLayout(),
	}
}

// Run describes one sort. Sorted is the result computed up front; the engine
// reaches it by replaying the recorded steps.
type Run struct {
	Algorithm sorter.Algorithm
	Initial   []int
	Sorted    []int
	Counts    step.Counts
	// Animated is false when the sorter records no steps and the result is
	// shown at once.
	Animated bool
	SortTime time.Duration
}

// Session owns the step log and playback engine shared by every run started
// from one front-end.
type Session struct {
	cfg      Config
	registry *sorter.Registry
	log      *step.Log
	engine   *playback.Engine
	current  *Run
}

func New(cfg Config) *Session {
	return &Session{
		cfg:      cfg,
		registry: sorter.NewRegistry(cfg.Sorter),
		log:      step.NewLog(MaxLength),
		engine: playback.NewEngine(
			playback.WithTiming(cfg.Timing),
			playback.WithPalette(cfg.Palette),
			playback.WithLayout(cfg.Layout),
		),
	}
}

// StartRun sorts a copy of input with alg and arms playback. A run still in
// progress is aborted first.
func (s *Session) StartRun(alg sorter.Algorithm, input []int) (*Run, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	srt, err := s.registry.ForAlgorithm(alg)
	if err != nil {
		return nil, err
	}

	if s.engine.Active() {
		slog.Debug("aborting active run", "algorithm", s.current.Algorithm, "cursor", s.engine.Cursor())
	}
	s.engine.Abort()
	s.log.Reset(len(input))

	run := &Run{
		Algorithm: alg,
		Initial:   slices.Clone(input),
		Sorted:    slices.Clone(input),
		Animated:  srt.Instrumented(),
	}
	start := time.Now()
	srt.Sort(run.Sorted, s.log)
	run.SortTime = time.Since(start)
	run.Counts = step.Tally(s.log)

	if err := s.engine.Arm(run.Initial, run.Sorted, s.log); err != nil {
		return nil, fmt.Errorf("arm %s: %w", alg, err)
	}
	s.current = run

	slog.Info("run started",
		"algorithm", alg,
		"n", len(input),
		"steps", s.log.Len(),
		"animated", run.Animated,
	)
	return run, nil
}

// Restart replays the current run from its initial array.
func (s *Session) Restart() (*Run, error) {
	if s.current == nil {
		return nil, fmt.Errorf("session: no run to restart")
	}
	return s.StartRun(s.current.Algorithm, s.current.Initial)
}

// Validate checks an input against the session limits.
func Validate(input []int) error {
	if len(input) > MaxLength {
		return fmt.Errorf("%w: %d values, limit %d", ErrInputTooLarge, len(input), MaxLength)
	}
	for i, v := range input {
		if v < 0 {
			return fmt.Errorf("%w: %d at index %d", ErrNegativeValue, v, i)
		}
	}
	return nil
}

func (s *Session) Tick(dt float64)                            { s.engine.Tick(dt) }
func (s *Session) VisualOf(i int) (playback.SlotVisual, bool) { return s.engine.VisualOf(i) }
func (s *Session) Count() int                                 { return s.engine.Count() }
func (s *Session) SetSpeed(m float64)                         { s.engine.SetSpeed(m) }
func (s *Session) TogglePause()                               { s.engine.TogglePause() }
func (s *Session) AddObserver(o playback.Observer)            { s.engine.AddObserver(o) }

// Abort stops playback and clears the step log. The current run stays
// available for Restart.
func (s *Session) Abort() {
	s.engine.Abort()
	s.log.Clear()
}

// Engine exposes the playback engine for read-only queries.
func (s *Session) Engine() *playback.Engine { return s.engine }

// Log returns the steps recorded by the last run. Callers must not append.
func (s *Session) Log() *step.Log { return s.log }

func (s *Session) Current() *Run { return s.current }

func (s *Session) Registry() *sorter.Registry { return s.registry }
