// Package graphics provides the presentation side of the console: a frame
// buffer plus headless and windowed frontends.
package graphics

import (
	"fmt"

	"go.uber.org/zap"

	"nescore/internal/console"
)

// BackendType selects a frontend implementation.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
)

// Frontend presents frames and supplies input to a console.
type Frontend interface {
	console.IO

	// Run calls step once per presented frame until the frontend stops or
	// step fails.
	Run(step func() error) error

	// Name returns the backend name for logging.
	Name() string
}

// Config contains configuration for the frontends.
type Config struct {
	// Window configuration
	Title      string
	Scale      int
	Fullscreen bool
	VSync      bool
	ShowFPS    bool

	// Colour adjustment, 1.0 leaves the palette untouched.
	Brightness float32
	Contrast   float32

	// Key names per port in report order: A, B, Select, Start, Up, Down,
	// Left, Right. Names follow ebiten.Key, for example "ArrowUp".
	Keys [2][8]string

	// Headless options
	MaxFrames     int
	CaptureFrames []int
	CaptureDir    string
}

// Create builds the frontend for backendType.
func Create(backendType BackendType, config Config, logger *zap.Logger) (Frontend, error) {
	switch backendType {
	case BackendHeadless:
		return NewHeadless(config, logger), nil
	case BackendEbitengine, "":
		window, err := NewWindow(config, logger)
		if err != nil {
			return nil, err
		}
		return window, nil
	default:
		return nil, fmt.Errorf("unknown graphics backend %q", backendType)
	}
}
