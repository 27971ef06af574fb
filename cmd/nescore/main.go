// Package main implements the nescore NES emulator executable.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"nescore/internal/app"
	"nescore/internal/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	configFile string
	nogui      bool
	frames     int
	trace      string
	debug      bool
	version    bool
}

func main() {
	setupGracefulShutdown()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, runs the emulator and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("nescore", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	flags.BoolVar(&opts.nogui, "nogui", false, "Run without a window (headless mode)")
	flags.IntVar(&opts.frames, "frames", 0, "Number of frames to run in headless mode (0 uses the config value)")
	flags.StringVar(&opts.trace, "trace", "", "Write a CPU instruction trace to this file")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&opts.version, "version", false, "Show version information")
	flags.Usage = func() { printUsage(flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one ROM file")
		flags.Usage()
		return exitUsage
	}

	if err := runEmulator(flags.Arg(0), opts); err != nil {
		fmt.Fprintf(stderr, "nescore: %v\n", err)
		return exitError
	}
	return exitOK
}

func runEmulator(romPath string, opts options) error {
	configPath := opts.configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if opts.nogui {
		config.Video.Backend = "headless"
	}
	if opts.frames > 0 {
		config.Emulation.MaxFrames = opts.frames
	}
	if opts.trace != "" {
		config.Emulation.Trace = opts.trace
	}
	if opts.debug {
		config.Debug.Development = true
	}

	logger, err := app.NewLogger(config)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Info("starting",
		zap.String("version", version.String()),
		zap.String("config", configPath),
		zap.Bool("config_loaded", config.IsLoaded()))

	application, err := app.NewApplication(config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			logger.Warn("cleanup failed", zap.Error(err))
		}
	}()

	if err := application.LoadROM(romPath); err != nil {
		return err
	}
	return application.Run()
}

// setupGracefulShutdown sets up signal handling for graceful shutdown
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintln(os.Stderr, "interrupt received, shutting down")
		os.Exit(exitError)
	}()
}

func printUsage(flags *flag.FlagSet) {
	w := flags.Output()
	fmt.Fprintln(w, "nescore - NES emulator core")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  nescore [options] <rom.nes>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  nescore game.nes                          # Play in a window")
	fmt.Fprintln(w, "  nescore -nogui -frames 600 test.nes       # Run 600 frames headless")
	fmt.Fprintln(w, "  nescore -nogui -trace cpu.log nestest.nes # Headless with CPU trace")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CONTROLS (Default):")
	fmt.Fprintln(w, "  Player 1: WASD D-Pad, J A, K B, Enter Start, Space Select")
	fmt.Fprintln(w, "  Player 2: Arrow keys D-Pad, N A, M B, Right Shift Start, Right Ctrl Select")
	fmt.Fprintln(w, "  R Reset, F1 FPS overlay, Escape Quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SUPPORTED FORMATS:")
	fmt.Fprintln(w, "  - iNES (.nes), mappers 0 (NROM) and 4 (MMC3)")
}
