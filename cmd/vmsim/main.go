// Command vmsim runs virtual memory simulations from scenario files
// and serves them over HTTP.
//
// Usage:
//
//	vmsim [-log-level LEVEL] [-log-file PATH] COMMAND [ARGS]
//
// Commands:
//
//	init PATH                write an example scenario
//	run PATH                 simulate a scenario and print its timeline
//	compare PATH             rank every policy over a scenario's trace
//	translate [-step N] [-address A] [-page-size S] PATH
//	                         translate an address against a step's snapshot
//	serve [-config PATH]     serve the commands above over HTTP
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/djdv/go-vmsim"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdout)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(exitUsage)
	default:
		fmt.Fprintln(os.Stderr, "vmsim:", err)
		os.Exit(exitFailure)
	}
}

func execute(ctx context.Context, args []string, output io.Writer) error {
	var (
		flags    = flag.NewFlagSet("vmsim", flag.ContinueOnError)
		logLevel = flags.String("log-level", "INFO", "DEBUG, INFO, WARN, or ERROR")
		logFile  = flags.String("log-file", "", "also write logs to this file")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errUsage
	}
	logger, closer, err := newLogger(*logLevel, *logFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	var (
		command = flags.Arg(0)
		rest    = flags.Args()[1:]
	)
	switch command {
	case "init":
		return initCommand(rest)
	case "run":
		return runCommand(rest, output, logger)
	case "compare":
		return compareCommand(ctx, rest, output)
	case "translate":
		return translateCommand(rest, output)
	case "serve":
		return serveCommand(ctx, rest, logger)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func scenarioArg(args []string) (scenario, error) {
	if len(args) != 1 {
		return scenario{}, fmt.Errorf("%w: expected one scenario path", errUsage)
	}
	return loadScenario(args[0])
}

func initCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one output path", errUsage)
	}
	file, err := os.OpenFile(args[0], os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := exampleScenario().encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func runCommand(args []string, output io.Writer, logger *slog.Logger) error {
	scenario, err := scenarioArg(args)
	if err != nil {
		return err
	}
	timeline, err := scenario.run(vmsim.WithLogger(logger))
	if err != nil {
		return err
	}
	stats := timeline.Stats()
	logger.Info("simulated",
		"policy", scenario.Config.Policy,
		"references", len(timeline),
		"faults", stats.PageFaults,
		"hits", stats.PageHits,
		"thrashing_steps", len(timeline.ThrashingSteps()))
	return writeJSON(output, simulateResponse{
		Timeline:       timeline,
		Stats:          stats,
		FaultRate:      stats.FaultRate(),
		HitRatio:       stats.HitRatio(),
		TLBHitRatio:    stats.TLBHitRatio(),
		ThrashingSteps: timeline.ThrashingSteps(),
	})
}

func compareCommand(ctx context.Context, args []string, output io.Writer) error {
	scenario, err := scenarioArg(args)
	if err != nil {
		return err
	}
	trace, err := scenario.trace()
	if err != nil {
		return err
	}
	comparison, err := vmsim.Compare(ctx,
		scenario.Config, scenario.Processes, trace)
	if err != nil {
		return err
	}
	return writeJSON(output, comparison)
}

func translateCommand(args []string, output io.Writer) error {
	const defaultPageSize = 4096
	var (
		flags    = flag.NewFlagSet("translate", flag.ContinueOnError)
		step     = flags.Int("step", -1, "step index (default: last step)")
		address  = flags.Int("address", 0, "virtual address")
		pageSize = flags.Int("page-size", defaultPageSize, "page size in bytes")
		process  = flags.Int("process", vmsim.None, "process ID (default: active process)")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	scenario, err := scenarioArg(flags.Args())
	if err != nil {
		return err
	}
	timeline, err := scenario.run()
	if err != nil {
		return err
	}
	index := *step
	if index == vmsim.None {
		index = len(timeline) - 1
	}
	if index < 0 || index >= len(timeline) {
		return fmt.Errorf("%w: step %d is outside [0, %d)",
			errUsage, index, len(timeline))
	}
	if *process == vmsim.None {
		*process = scenario.Config.ActiveProcess
	}
	translation, err := vmsim.Translate(timeline[index], *process, *address, *pageSize)
	if err != nil {
		return err
	}
	return writeJSON(output, translation)
}

func serveCommand(ctx context.Context, args []string, logger *slog.Logger) error {
	var (
		flags      = flag.NewFlagSet("serve", flag.ContinueOnError)
		configPath = flags.String("config", "", "server configuration file")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	config, err := loadServerConfig(*configPath)
	if err != nil {
		return err
	}
	if config.LogLevel != "" || config.LogFile != "" {
		var closer io.Closer
		if logger, closer, err = newLogger(config.LogLevel, config.LogFile); err != nil {
			return err
		}
		defer closer.Close()
	}
	return (&server{logger: logger}).serve(ctx, config.Port)
}

func writeJSON(output io.Writer, data any) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "\t")
	return encoder.Encode(data)
}
