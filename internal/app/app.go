package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nescore/internal/cartridge"
	"nescore/internal/console"
	"nescore/internal/graphics"
)

// Application owns the logger, the frontend and the console for one run.
type Application struct {
	config *Config
	logger *zap.Logger

	frontend graphics.Frontend
	console  *console.Console

	romPath   string
	traceFile *os.File

	startTime time.Time
	frames    uint64
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewLogger builds the process logger. Development mode uses the console
// encoder and always logs at debug level.
func NewLogger(config *Config) (*zap.Logger, error) {
	if config.Debug.Development {
		return zap.NewDevelopment()
	}

	level, err := config.LogLevel()
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapConfig.Build()
}

// NewApplication creates the frontend selected by config.
func NewApplication(config *Config, logger *zap.Logger) (*Application, error) {
	frontend, err := graphics.Create(graphics.BackendType(config.Video.Backend), config.GraphicsConfig(), logger.Named("graphics"))
	if err != nil {
		return nil, &ApplicationError{Component: "graphics", Operation: "create frontend", Err: err}
	}
	return newApplication(config, frontend, logger), nil
}

func newApplication(config *Config, frontend graphics.Frontend, logger *zap.Logger) *Application {
	return &Application{
		config:   config,
		logger:   logger,
		frontend: frontend,
	}
}

// LoadROM loads a ROM file and builds the console around it.
func (app *Application) LoadROM(romPath string) error {
	cart, err := cartridge.Load(romPath, app.logger.Named("cartridge"))
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}

	nes, err := console.New(cart, app.frontend, app.logger.Named("console"))
	if err != nil {
		return &ApplicationError{Component: "console", Operation: "create", Err: err}
	}

	if app.config.Emulation.Trace != "" {
		file, err := os.Create(app.config.Emulation.Trace)
		if err != nil {
			return &ApplicationError{Component: "trace", Operation: "open", Err: err}
		}
		app.traceFile = file
		nes.SetTrace(file)
	}

	app.console = nes
	app.romPath = romPath
	app.logger.Info("ROM loaded",
		zap.String("rom", filepath.Base(romPath)),
		zap.Stringer("mirroring", cart.Mapper.Mirroring()),
		zap.String("backend", app.frontend.Name()))
	return nil
}

// Run drives the console through the frontend until it stops.
func (app *Application) Run() error {
	if app.console == nil {
		return errors.New("no ROM loaded")
	}

	app.startTime = time.Now()
	err := app.frontend.Run(func() error {
		if err := app.console.StepFrame(); err != nil {
			return err
		}
		app.frames++
		return nil
	})

	elapsed := time.Since(app.startTime)
	fields := []zap.Field{
		zap.Uint64("frames", app.frames),
		zap.Duration("elapsed", elapsed),
	}
	if elapsed > 0 {
		fields = append(fields, zap.Float64("fps", float64(app.frames)/elapsed.Seconds()))
	}

	if err != nil {
		app.logger.Error("emulation stopped", append(fields, zap.Error(err))...)
		return &ApplicationError{Component: "console", Operation: "run", Err: err}
	}
	app.logger.Info("emulation finished", fields...)
	return nil
}

// Frames returns the number of frames completed by Run.
func (app *Application) Frames() uint64 {
	return app.frames
}

// Console returns the running console, nil before LoadROM.
func (app *Application) Console() *console.Console {
	return app.console
}

// Cleanup closes the trace file and flushes the logger.
func (app *Application) Cleanup() error {
	var err error
	if app.traceFile != nil {
		err = app.traceFile.Close()
		app.traceFile = nil
	}
	_ = app.logger.Sync()
	return err
}
