package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/kbukum/flowkit/config"
	"github.com/kbukum/flowkit/dag"
	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/flow"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
	"github.com/kbukum/flowkit/process"
	"github.com/kbukum/flowkit/validation"
	"github.com/kbukum/flowkit/version"
)

const serviceName = "flowrun"

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, code, done := parseFlags(args, stderr)
	if done {
		return code
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, version.Get())
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "flowrun: %v\n", err)
		return exitUsage
	}

	logger.Init(&cfg.Logging)
	log := logger.Get(serviceName)

	shutdown, metrics, err := initTelemetry(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "flowrun: %v\n", err)
		return exitFailed
	}
	defer shutdown()

	f, err := newFlow(cfg, metrics)
	if err != nil {
		fmt.Fprintf(stderr, "flowrun: %v\n", err)
		return setupExitCode(err)
	}

	if opts.next > 0 {
		return printUpcoming(stdout, stderr, f, opts.next)
	}

	res, err := f.Run(ctx)
	if res == nil {
		fmt.Fprintf(stderr, "flowrun: %v\n", err)
		return exitFailed
	}
	printResult(stdout, res)

	if err != nil {
		log.Warn("run interrupted", logger.ErrorFields("flow.run", err))
		return exitFailed
	}
	if !res.IsSuccessful() {
		return exitFailed
	}
	return exitOK
}

// setupExitCode maps a flow setup error to an exit code. A bad cron is a
// usage error; an unreadable pipeline or a broken registry is a failure.
func setupExitCode(err error) int {
	if errors.IsCode(err, errors.ErrCodeInvalidSchedule) {
		return exitUsage
	}
	return exitFailed
}

func loadConfig(opts cliOptions) (*config.RunnerConfig, error) {
	loaderOpts := []config.LoaderOption{config.WithEnvPrefix(serviceName)}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}

	var cfg config.RunnerConfig
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return nil, err
	}

	if opts.pipeline != "" {
		cfg.Pipeline = opts.pipeline
	}
	if opts.cron != "" {
		cfg.Cron = opts.cron
	}
	if opts.maxParallelSet {
		cfg.MaxParallel = opts.maxParallel
	}

	err := validation.New().
		Required("pipeline", cfg.Pipeline).
		Cron("cron", cfg.Cron).
		Min("max_parallel", cfg.MaxParallel, 0).
		Min("next", opts.next, 0).
		Validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func initTelemetry(ctx context.Context, cfg *config.RunnerConfig) (func(), *observability.Metrics, error) {
	var closers []func(context.Context) error
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, c := range closers {
			if err := c(sctx); err != nil {
				logger.Warn("telemetry shutdown failed", logger.ErrorFields("telemetry.shutdown", err))
			}
		}
	}

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.TracerConfig())
		if err != nil {
			return shutdown, nil, err
		}
		closers = append(closers, tp.Shutdown)
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, cfg.MeterConfig())
		if err != nil {
			shutdown()
			return func() {}, nil, err
		}
		closers = append(closers, mp.Shutdown)

		metrics, err = observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			shutdown()
			return func() {}, nil, err
		}
	}
	return shutdown, metrics, nil
}

func newFlow(cfg *config.RunnerConfig, metrics *observability.Metrics) (*flow.Flow, error) {
	p, err := dag.LoadPipelineFile(cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	reg, err := process.Registry(p)
	if err != nil {
		return nil, err
	}
	dirs := append([]string{filepath.Dir(cfg.Pipeline)}, cfg.PipelineDirs...)
	loader := process.Loader(dag.NewFilePipelineLoader(dirs...), reg)

	opts := []flow.Option{
		flow.WithEngine(&dag.Engine{MaxParallel: cfg.MaxParallel}),
		flow.WithLogger(logger.Get(logger.ComponentFlow)),
	}
	if cfg.Cron != "" {
		opts = append(opts, flow.WithCron(cfg.Cron))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, flow.WithTracing(cfg.Tracing.SpanPrefix))
	}
	if metrics != nil {
		opts = append(opts, flow.WithMetrics(metrics))
	}
	return flow.FromPipeline(p, reg, loader, opts...)
}

func printUpcoming(stdout, stderr io.Writer, f *flow.Flow, n int) int {
	s := f.Schedule()
	if s == nil {
		fmt.Fprintf(stderr, "flowrun: flow %q has no cron schedule\n", f.Name())
		return exitUsage
	}
	fmt.Fprintf(stdout, "%s (%s)\n", f.Name(), s)
	for _, t := range s.Upcoming(time.Now(), n) {
		fmt.Fprintln(stdout, t.Format(time.RFC3339))
	}
	return exitOK
}

func printResult(w io.Writer, res *dag.Result) {
	fmt.Fprintln(w, res.Summary())

	names := make([]string, 0, len(res.NodeResults))
	for name := range res.NodeResults {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		nr := res.NodeResults[name]
		line := fmt.Sprintf("  %s\t%s\t%s", name, nr.Status, nr.Duration.Round(time.Millisecond))
		if nr.Error != nil {
			line += "\t" + nr.Error.Error()
		}
		fmt.Fprintln(tw, line)
	}
	_ = tw.Flush()
}
