package bench

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/sorter"
	"github.com/san-kum/sortviz/internal/step"
)

type Config struct {
	Algorithms []sorter.Algorithm
	Options    sorter.Options
	Shape      dataset.Shape
	Size       int
	Trials     int
	Seed       int64
	// Workers bounds concurrent sorts. Zero means GOMAXPROCS.
	Workers int
}

// Trial is one sort of one generated array.
type Trial struct {
	Algorithm sorter.Algorithm
	Index     int
	Seed      int64
	Counts    step.Counts
	Elapsed   time.Duration
}

type Summary struct {
	Algorithm     string  `json:"algorithm"`
	Trials        int     `json:"trials"`
	Instrumented  bool    `json:"instrumented"`
	MeanCompares  float64 `json:"mean_compares"`
	MeanSwaps     float64 `json:"mean_swaps"`
	MeanOverwrite float64 `json:"mean_overwrites"`
	MeanSteps     float64 `json:"mean_steps"`
	MaxSteps      int     `json:"max_steps"`
	MeanNanos     float64 `json:"mean_ns"`
}

type Result struct {
	Config    Config
	Trials    []Trial
	Summaries []Summary
}

// Run sorts cfg.Trials arrays per algorithm. Trial k of every algorithm sorts
// the same input, generated from cfg.Seed+k, so counts are comparable.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("bench: trials must be positive, got %d", cfg.Trials)
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = sorter.All()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trials := make([]Trial, len(cfg.Algorithms)*cfg.Trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for a, alg := range cfg.Algorithms {
		for k := 0; k < cfg.Trials; k++ {
			idx := a*cfg.Trials + k
			seed := cfg.Seed + int64(k)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := runTrial(alg, cfg, seed)
				if err != nil {
					return err
				}
				t.Index = k
				trials[idx] = t
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Config: cfg, Trials: trials}
	for a, alg := range cfg.Algorithms {
		res.Summaries = append(res.Summaries, summarize(alg, cfg.Options, trials[a*cfg.Trials:(a+1)*cfg.Trials]))
	}

	slog.Info("bench finished",
		"algorithms", len(cfg.Algorithms),
		"trials", cfg.Trials,
		"size", cfg.Size,
	)
	return res, nil
}

func runTrial(alg sorter.Algorithm, cfg Config, seed int64) (Trial, error) {
	values, err := dataset.Generate(cfg.Shape, cfg.Size, seed)
	if err != nil {
		return Trial{}, err
	}
	srt, err := sorter.New(alg, cfg.Options)
	if err != nil {
		return Trial{}, err
	}

	log := step.NewLog(len(values))
	start := time.Now()
	srt.Sort(values, log)
	elapsed := time.Since(start)

	if !slices.IsSorted(values) {
		return Trial{}, fmt.Errorf("bench: %s left seed %d unsorted", alg, seed)
	}
	return Trial{
		Algorithm: alg,
		Seed:      seed,
		Counts:    step.Tally(log),
		Elapsed:   elapsed,
	}, nil
}

func summarize(alg sorter.Algorithm, opts sorter.Options, trials []Trial) Summary {
	s := Summary{
		Algorithm:    alg.String(),
		Trials:       len(trials),
		Instrumented: alg != sorter.Heap || opts.InstrumentHeap,
	}
	if len(trials) == 0 {
		return s
	}
	for _, t := range trials {
		s.MeanCompares += float64(t.Counts.Compares)
		s.MeanSwaps += float64(t.Counts.Swaps)
		s.MeanOverwrite += float64(t.Counts.Overwrites)
		s.MeanSteps += float64(t.Counts.Total())
		s.MeanNanos += float64(t.Elapsed.Nanoseconds())
		s.MaxSteps = max(s.MaxSteps, t.Counts.Total())
	}
	n := float64(len(trials))
	s.MeanCompares /= n
	s.MeanSwaps /= n
	s.MeanOverwrite /= n
	s.MeanSteps /= n
	s.MeanNanos /= n
	return s
}

// Summary returns the summary for alg, if it was benchmarked.
func (r *Result) Summary(alg sorter.Algorithm) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Algorithm == alg.String() {
			return s, true
		}
	}
	return Summary{}, false
}
