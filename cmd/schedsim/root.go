package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/utkarsh5026/schedsim/internal/logging"
	"github.com/utkarsh5026/schedsim/internal/report"
	"github.com/utkarsh5026/schedsim/sim"
	"github.com/utkarsh5026/schedsim/task"
)

const envPrefix = "SCHEDSIM"

var (
	bold = color.New(color.Bold)
	cyan = color.New(color.FgCyan)
)

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "schedsim [script]",
		Short: "Simulate a least-loaded task scheduler",
		Long: `schedsim feeds a script of tasks to a central scheduler that assigns
each one to the processor with the smallest scheduled time.

Letters A-D submit a task (5, 10, 15 and 20 time units long), digits pause
the feed for that many time units. Every flag can also be set through a
SCHEDSIM_<FLAG> environment variable, e.g. SCHEDSIM_PROCESSORS=8.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			script := v.GetString("script")
			if len(args) == 1 {
				script = args[0]
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), v, script)
		},
	}

	flags := cmd.Flags()
	flags.IntP("processors", "n", sim.DefaultProcessorCount, "Number of processors")
	flags.DurationP("unit", "u", sim.DefaultTimeUnit, "Wall-clock length of one time unit")
	flags.StringP("policy", "p", "least-loaded", "Assignment policy: 'least-loaded' or 'round-robin'")
	flags.String("script", "", "Feed script, used when no argument is given")
	flags.Float64("feed-rate", 0, "Maximum tasks submitted per second (0 = unlimited)")
	flags.Int("burst", 1, "Tasks that may be submitted back to back under --feed-rate")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Also write JSON logs to this rotating file")
	flags.StringP("format", "f", "table", "Report format: 'table' or 'plain'")
	flags.Bool("progress", true, "Show a task completion progress bar")
	flags.Bool("pin", false, "Pin each processor to its own CPU core")
	flags.Bool("trace", false, "Print every scheduling decision")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, v *viper.Viper, script string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}

	steps, err := task.ParseScript(script)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level: v.GetString("log-level"),
		File:  v.GetString("log-file"),
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := []sim.Option{
		sim.WithProcessorCount(v.GetInt("processors")),
		sim.WithTimeUnit(v.GetDuration("unit")),
		sim.WithPolicy(v.GetString("policy")),
		sim.WithFeedRate(v.GetFloat64("feed-rate"), v.GetInt("burst")),
		sim.WithCPUAffinity(v.GetBool("pin")),
		sim.WithLogger(logger),
	}

	var bar *progressbar.ProgressBar
	if v.GetBool("progress") {
		bar = makeProgressBar(stderr, steps.TaskCount())
		opts = append(opts, sim.WithOnTaskEnd(func(int, *task.Task, error) {
			_ = bar.Add(1)
		}))
	}

	s, err := sim.New(opts...)
	if err != nil {
		return err
	}

	printConfiguration(stdout, v, steps)

	rep, err := s.Run(ctx, script)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("simulation interrupted")
		}
		return err
	}

	if err := report.Render(stdout, rep, format); err != nil {
		return err
	}
	if v.GetBool("trace") {
		return report.Trace(stdout, rep)
	}
	return nil
}

func makeProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Running tasks"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func printConfiguration(w io.Writer, v *viper.Viper, steps task.Script) {
	_, _ = bold.Fprintln(w, "Scheduler Simulation")
	_, _ = cyan.Fprintf(w, "  Processors: %d\n", v.GetInt("processors"))
	_, _ = cyan.Fprintf(w, "  Policy:     %s\n", v.GetString("policy"))
	_, _ = cyan.Fprintf(w, "  Time unit:  %s\n", v.GetDuration("unit"))
	_, _ = cyan.Fprintf(w, "  Tasks:      %d (pauses: %d units)\n", steps.TaskCount(), steps.PauseUnits())
	fmt.Fprintln(w)
}
