package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/audio"
	"github.com/san-kum/sortviz/internal/bench"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/gui"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorter"
	"github.com/san-kum/sortviz/internal/step"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/tui"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string
	preset     string
	size       int
	seed       int64
	shape      string
	speed      float64
	sound      bool
	heapSteps  bool
	// play
	plain bool
	theme string
	// run
	trace bool
	plot  bool
	// bench
	trials  int
	workers int
	// export
	withTrials bool
	svgPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sortviz",
		Short:        "animated sorting algorithm visualizer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return playTUI(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".sortviz", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&preset, "preset", "", "use a named input preset")
	pf.IntVar(&size, "size", config.DefaultSize, "number of values to sort")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&shape, "shape", config.DefaultShape, "input shape")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "initial playback speed")
	pf.BoolVar(&sound, "sound", false, "play a tone for every comparison")
	pf.BoolVar(&heapSteps, "heap-instrumented", false, "record heap sort steps instead of showing the result at once")

	playCmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "animate a sort in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				return playPlain(cmd, args)
			}
			return playTUI(cmd, args)
		},
	}
	playCmd.Flags().BoolVar(&plain, "plain", false, "draw frames to stdout without the interactive UI")
	playCmd.Flags().StringVar(&theme, "theme", "classic", "color theme ("+fmt.Sprint(tui.ThemeNames())+")")

	guiCmd := &cobra.Command{
		Use:   "gui [algorithm]",
		Short: "animate a sort in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "sort once and print the step counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOnce,
	}
	runCmd.Flags().BoolVar(&trace, "trace", false, "print every recorded step")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the array before and after sorting")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the finished frame as SVG")

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list sorting algorithms",
		RunE:  listAlgorithms,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list input presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSHAPE\tSIZE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, p.Shape, p.Size, p.Description)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [algorithm...]",
		Short: "count steps over many generated inputs",
		RunE:  benchAlgorithms,
	}
	benchCmd.Flags().IntVar(&trials, "trials", 20, "inputs per algorithm")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent sorts (0 = GOMAXPROCS)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored bench runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot steps per trial of a bench run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the chart as SVG")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export bench run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).Export(os.Stdout, args[0], withTrials)
		},
	}
	exportCmd.Flags().BoolVar(&withTrials, "trials", false, "include per-trial counts")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sortviz.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(playCmd, guiCmd, runCmd, algorithmsCmd, presetsCmd, benchCmd, listCmd, plotCmd, exportCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, the preset and any flags set
// on the command line, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("shape") {
		cfg.Shape = shape
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("sound") {
		cfg.Sound = sound
	}
	if flags.Changed("heap-instrumented") {
		cfg.Heap.Instrumented = heapSteps
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the config and installs the logger. Full-screen front-ends own
// the terminal, so without a log file their logs are discarded.
func setup(cmd *cobra.Command, fullscreen bool) (*config.Config, io.Closer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	if fullscreen && cfg.LogFile == "" {
		return cfg, nopCloser{}, logging.ConfigureWriter(cfg.LogLevel, io.Discard)
	}
	closer, err := logging.Configure(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newSession(cfg *config.Config) (*session.Session, error) {
	scfg, err := cfg.Session()
	if err != nil {
		return nil, err
	}
	sess := session.New(scfg)
	sess.SetSpeed(cfg.Speed)
	return sess, nil
}

// inputSource returns a generator that advances the seed on every call so
// each new run sorts a different array.
func inputSource(cfg *config.Config) func() ([]int, error) {
	next := cfg.ResolvedSeed()
	return func() ([]int, error) {
		s := next
		next++
		slog.Debug("generating input", "shape", cfg.Shape, "size", cfg.Size, "seed", s)
		return cfg.Input(s)
	}
}

func algorithmArg(cfg *config.Config, args []string) (sorter.Algorithm, error) {
	name := cfg.Algorithm
	if len(args) > 0 {
		name = args[0]
	}
	return sorter.ParseAlgorithm(name)
}

// attachSound registers a tone player on sess. Audio device failures are
// logged and playback continues silently.
func attachSound(cfg *config.Config, sess *session.Session) func() {
	if !cfg.Sound {
		return func() {}
	}
	p := audio.NewPlayer()
	if err := p.Start(); err != nil {
		slog.Warn("sound disabled", "error", err)
		return func() {}
	}
	sess.AddObserver(p)
	return p.Stop
}

func playTUI(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer attachSound(cfg, sess)()

	alg, err := algorithmArg(cfg, args)
	if err != nil {
		return err
	}
	if err := validateTheme(sess.Engine().Palette(), theme); err != nil {
		return err
	}
	return tui.Run(sess, tui.Options{
		Input:     inputSource(cfg),
		FPS:       cfg.FPS,
		Speed:     cfg.Speed,
		Theme:     theme,
		AutoStart: len(args) > 0,
		Algorithm: alg,
	})
}

func validateTheme(p playback.Palette, name string) error {
	if _, ok := tui.ThemeByName(p, name); !ok {
		return fmt.Errorf("unknown theme: %s (available: %v)", name, tui.ThemeNames())
	}
	return nil
}

func playPlain(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer attachSound(cfg, sess)()

	alg, err := algorithmArg(cfg, args)
	if err != nil {
		return err
	}
	input, err := inputSource(cfg)()
	if err != nil {
		return err
	}
	if _, err := sess.StartRun(alg, input); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := tui.NewLiveRenderer(os.Stdout, alg.String(), cfg.FPS)
	if err := tui.PlayLive(ctx, sess, r); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func playGUI(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	opts := gui.Options{
		Input: inputSource(cfg),
		FPS:   cfg.FPS,
		Speed: cfg.Speed,
		Sound: cfg.Sound,
	}
	if len(args) > 0 {
		alg, err := algorithmArg(cfg, args)
		if err != nil {
			return err
		}
		opts.Algorithm = &alg
	}
	gui.Run(sess, opts)
	return nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	alg, err := algorithmArg(cfg, args)
	if err != nil {
		return err
	}
	input, err := inputSource(cfg)()
	if err != nil {
		return err
	}
	run, err := sess.StartRun(alg, input)
	if err != nil {
		return err
	}
	defer sess.Abort()

	if trace {
		for i, s := range sess.Log().Steps() {
			fmt.Printf("%5d  %s\n", i, s)
		}
		fmt.Println()
	}

	fmt.Printf("algorithm: %s\n", run.Algorithm)
	fmt.Printf("input:     %v\n", run.Initial)
	fmt.Printf("sorted:    %v\n", run.Sorted)
	if !run.Animated {
		fmt.Println("steps:     not recorded")
	} else {
		replayed, err := step.Replay(run.Initial, sess.Log())
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		fmt.Printf("steps:     %d (compares %d, swaps %d, overwrites %d, highlights %d)\n",
			run.Counts.Total(), run.Counts.Compares, run.Counts.Swaps, run.Counts.Overwrites, run.Counts.Highlights)
		fmt.Printf("replay:    %v\n", slices.Equal(replayed, run.Sorted))
	}
	fmt.Printf("time:      %v\n", run.SortTime)

	if plot && len(run.Initial) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(floats(run.Initial), asciigraph.Height(10), asciigraph.Caption("before")))
		fmt.Println()
		fmt.Println(asciigraph.Plot(floats(run.Sorted), asciigraph.Height(10), asciigraph.Caption("after")))
	}

	if svgPath != "" {
		eng := sess.Engine()
		for eng.Active() {
			sess.Tick(1)
		}
		if err := writeFile(svgPath, func(w io.Writer) error {
			return export.FrameToSVG(w, eng.Visuals(), eng.Palette().Background, 800, 400)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func floats(vs []int) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}
	return out
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg := sorter.NewRegistry(sorter.Options{InstrumentHeap: cfg.Heap.Instrumented})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tANIMATED")
	for _, alg := range reg.Algorithms() {
		srt, err := reg.ForAlgorithm(alg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%v\n", alg, srt.Instrumented())
	}
	return w.Flush()
}

func benchAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	algs := sorter.All()
	if len(args) > 0 {
		algs = nil
		for _, name := range args {
			alg, err := sorter.ParseAlgorithm(name)
			if err != nil {
				return err
			}
			algs = append(algs, alg)
		}
	}
	sh, err := dataset.ParseShape(cfg.Shape)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := bench.Run(ctx, bench.Config{
		Algorithms: algs,
		Options:    sorter.Options{InstrumentHeap: cfg.Heap.Instrumented},
		Shape:      sh,
		Size:       cfg.Size,
		Trials:     trials,
		Seed:       cfg.ResolvedSeed(),
		Workers:    workers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d algorithms, %d trials of %d %s values\n\n", len(algs), trials, cfg.Size, sh)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOMPARES\tSWAPS\tOVERWRITES\tSTEPS\tMAX\tTIME")
	for _, s := range res.Summaries {
		if !s.Instrumented {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t%.0fns\n", s.Algorithm, s.MeanNanos)
			continue
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%.0fns\n",
			s.Algorithm, s.MeanCompares, s.MeanSwaps, s.MeanOverwrite, s.MeanSteps, s.MaxSteps, s.MeanNanos)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(res)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSHAPE\tSIZE\tTRIALS\tALGORITHMS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Shape,
			run.Size,
			run.Trials,
			len(run.Summaries),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadCounts(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("input: %d %s values, %d trials\n\n", meta.Size, meta.Shape, meta.Trials)

	series := storage.Series(rows)
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			fmt.Printf("%s: %.0f steps\n\n", name, data[0])
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s steps per trial", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgPath != "" {
		if err := writeFile(svgPath, func(w io.Writer) error {
			return export.SeriesToSVG(w, series, 800, 300)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}
