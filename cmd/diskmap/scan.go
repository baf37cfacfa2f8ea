package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rfowler/diskmap/cmd/diskmap/tui"
	"github.com/rfowler/diskmap/pkg/diskmap/config"
	"github.com/rfowler/diskmap/pkg/diskmap/logging"
	"github.com/rfowler/diskmap/pkg/diskmap/output"
	"github.com/rfowler/diskmap/pkg/diskmap/scanner"
	"github.com/rfowler/diskmap/pkg/diskmap/tree"
	"github.com/rfowler/diskmap/pkg/diskmap/tuner"
	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, args []string) error {
	scanPath := viper.GetString("default_path")
	if len(args) > 0 {
		scanPath = args[0]
	}

	expandedPath, err := config.ExpandPath(scanPath)
	if err != nil {
		return fmt.Errorf("failed to expand path: %w", err)
	}

	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	opts, err := buildScanOptions(absPath)
	if err != nil {
		return err
	}

	s, err := scanner.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	// Handle interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	interrupted := false
	interrupt := func() {
		interrupted = true
		cancel()
	}
	go func() {
		<-sigChan
		interrupt()
	}()

	res, err := runWithProgress(ctx, s, absPath, interrupt)
	if err != nil && !interrupted {
		return fmt.Errorf("scan failed: %w", err)
	}

	root := tree.Finalize(res)

	result := &output.Result{
		Root:        root,
		Stats:       res.Stats,
		Source:      absPath,
		RunID:       res.RunID,
		GeneratedAt: time.Now(),
		Interrupted: interrupted,
	}

	if interrupted {
		// A partial tree would understate sizes, so no artifact is
		// written for an interrupted scan.
		printInfo("Scan interrupted, no output written")
		return printSummary(result)
	}

	format := viper.GetString("format")
	switch format {
	case "html", "json":
		outPath := viper.GetString("output")
		if err := writeArtifact(format, outPath, result); err != nil {
			return err
		}
		printInfo("Wrote %s", outPath)
		return printSummary(result)
	default:
		formatter, err := output.Get(format)
		if err != nil {
			return fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
		}
		var buf bytes.Buffer
		if err := formatter.Format(&buf, result); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Print(buf.String())
		return nil
	}
}

// buildScanOptions assembles scanner options from config, flags, and the
// detected system resources.
func buildScanOptions(absPath string) (scanner.Options, error) {
	resources, err := tuner.Detect()
	if err != nil {
		printVerbose("Failed to detect system resources, using defaults: %v", err)
		resources = tuner.SystemResources{
			CPUCores:     4,
			TotalRAM:     8 << 30,
			AvailableRAM: 4 << 30,
		}
	}

	optConfig := tuner.CalculateWithOverrides(resources, viper.GetInt("workers"))

	printVerbose("System: %d CPUs, %s RAM, %s available",
		resources.CPUCores,
		types.FormatSize(resources.TotalRAM),
		types.FormatSize(resources.AvailableRAM))
	printVerbose("Config: %d workers, queue size %d", optConfig.Workers, optConfig.QueueSize)

	return scanner.Options{
		Root:      absPath,
		Workers:   optConfig.Workers,
		MaxDepth:  viper.GetInt("max_depth"),
		SkipNames: viper.GetStringSlice("skip"),
		QueueSize: optConfig.QueueSize,
	}, nil
}

// runWithProgress runs the scan with either the live TUI, a plain periodic
// reporter, or silently, depending on the terminal and flags.
func runWithProgress(ctx context.Context, s *scanner.Scanner, absPath string, interrupt func()) (*types.ScanResult, error) {
	useTUI := !getQuiet() && !viper.GetBool("no_progress") && isatty.IsTerminal(os.Stdout.Fd())

	if useTUI {
		done := make(chan struct{})
		var res *types.ScanResult
		var scanErr error
		go func() {
			defer close(done)
			res, scanErr = s.Scan(ctx)
		}()

		if err := tui.Run(tui.Options{
			Root:        absPath,
			Progress:    s.Progress,
			Done:        done,
			OnInterrupt: interrupt,
		}); err != nil {
			printVerbose("Progress display failed: %v", err)
		}
		<-done
		return res, scanErr
	}

	if !getQuiet() && !viper.GetBool("no_progress") {
		reporter := scanner.NewReporter(s.Progress, scanner.DefaultReportInterval, func(stats types.ScanStats) {
			fmt.Fprintf(os.Stderr, "scanned %s files, %s dirs, %s (%d errors)\n",
				humanize.Comma(stats.FilesProcessed),
				humanize.Comma(stats.DirsProcessed),
				types.FormatSize(stats.BytesCounted),
				stats.Errors)
		})
		reporter.Start(ctx)
		defer reporter.Stop()
	}

	return s.Scan(ctx)
}

// writeArtifact renders the result with the named formatter and writes it to
// the output path.
func writeArtifact(format, path string, result *output.Result) error {
	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printSummary prints the styled terminal summary unless quiet is set.
func printSummary(result *output.Result) error {
	if getQuiet() {
		return nil
	}

	formatter, err := output.Get("pretty")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return err
	}
	fmt.Print(buf.String())
	return nil
}

// initLogging initializes file logging from configuration, with console
// output in verbose mode.
func initLogging() error {
	cfg := logging.Config{
		Level:    viper.GetString("logging.level"),
		Path:     viper.GetString("logging.path"),
		Rotation: logging.DefaultRotationConfig(),
	}
	if getVerbose() {
		cfg.Level = "debug"
		cfg.ConsoleLevel = "debug"
	}
	return logging.Init(cfg)
}
