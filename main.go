// Command iconsharp sharpens the alpha edges of the PNG, JPEG and ICO images in
// a directory by supersampling, shaping the high-resolution alpha channel and
// downscaling back to the original size.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-iconsharp/batch"
	"github.com/nvr-ai/go-iconsharp/config"
	"github.com/nvr-ai/go-iconsharp/enhance"
	"github.com/nvr-ai/go-iconsharp/logger"
	"github.com/nvr-ai/go-iconsharp/profiler"
	"github.com/nvr-ai/go-iconsharp/watch"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitConfig  = 2
	programName = "iconsharp"
)

// options holds the parsed command line.
type options struct {
	configPath string
	dir        string
	output     string
	scale      int
	watch      bool
	verbose    bool
	strict     bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

// run executes the tool and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	log, err := logger.New(opts.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return exitConfig
	}
	defer log.Sync()

	params, err := enhance.ParamsFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	var prof *profiler.Profiler
	if opts.verbose {
		prof = profiler.NewProfiler(profiler.ProfilingOptions{})
	}

	enhancer, err := enhance.New(params,
		enhance.WithProgress(stdout),
		enhance.WithLogger(log),
		enhance.WithProfiler(prof))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	// The executable itself is never treated as input.
	self := programName
	if len(args) > 0 {
		self = filepath.Base(args[0])
	}

	runner := &batch.Runner{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Exclude:   append([]string{self}, cfg.Exclude...),
		Enhancer:  enhancer,
		Out:       stdout,
		Log:       log,
	}

	log.Debug("starting",
		zap.String("input_dir", cfg.InputDir),
		zap.String("output_dir", runner.ResolvedOutputDir()),
		zap.Int("scale_factor", params.ScaleFactor),
		zap.String("upscale_filter", string(params.UpscaleFilter)),
		zap.String("downscale_filter", string(params.DownscaleFilter)))

	report, err := runner.Run(ctx)
	switch {
	case errors.Is(err, batch.ErrNoFiles):
	case errors.Is(err, context.Canceled):
		log.Warn("run cancelled")
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	failed := report.Failed()

	if opts.watch && ctx.Err() == nil {
		failed += watchDir(ctx, runner, cfg, log)
	}

	if opts.verbose {
		prof.Report(stdout)
	}

	if opts.strict && failed > 0 {
		return exitFailed
	}
	return exitOK
}

// watchDir processes files that appear in the input directory until ctx is
// cancelled and returns how many of them failed.
func watchDir(ctx context.Context, runner *batch.Runner, cfg *config.Config, log *zap.Logger) int {
	failed := 0
	w, err := watch.NewWatcher(watch.Config{
		Dir:      cfg.InputDir,
		Debounce: cfg.Watch.Debounce,
		Accept: func(path string) bool {
			_, ok := runner.PlanFile(path)
			return ok
		},
		Handle: func(path string) {
			if res, ok := runner.ProcessFile(path); ok && !res.OK() {
				failed++
			}
		},
		Log: log,
	})
	if err != nil {
		log.Error("failed to start watcher", zap.Error(err))
		return failed + 1
	}

	if err := w.Run(ctx); err != nil {
		log.Error("watcher stopped", zap.Error(err))
	}
	return failed
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	name := programName
	if len(args) > 0 {
		name = filepath.Base(args[0])
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{set: make(map[string]bool)}
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.dir, "dir", ".", "Directory scanned for images")
	fs.StringVar(&opts.output, "output", config.DefaultOutputDir, "Output directory (relative paths resolve against -dir)")
	fs.IntVar(&opts.scale, "scale", config.DefaultScaleFactor, "Supersampling factor")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and process new files as they appear")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging and print a timing profile")
	fs.BoolVar(&opts.strict, "strict", false, "Exit with status 1 when any file fails")

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return nil, errors.New("unexpected arguments")
	}

	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig reads the config file, if any, and applies explicit flags on top.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.set["dir"] {
		cfg.InputDir = opts.dir
	}
	if opts.set["output"] {
		cfg.OutputDir = opts.output
	}
	if opts.set["scale"] {
		cfg.ScaleFactor = opts.scale
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
