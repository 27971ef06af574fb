//go:build headless
// +build headless

package graphics

import (
	"errors"

	"go.uber.org/zap"
)

// ErrNoWindow is returned by NewWindow in headless builds.
var ErrNoWindow = errors.New("ebitengine backend not available in headless build")

// Window stub for headless builds
type Window struct {
	*FrameBuffer
}

// NewWindow always fails in headless builds.
func NewWindow(config Config, logger *zap.Logger) (*Window, error) {
	return nil, ErrNoWindow
}

func (w *Window) Name() string                { return "Ebitengine-Stub" }
func (w *Window) RenderFrame()                {}
func (w *Window) PollButtons() [2]uint8       { return [2]uint8{} }
func (w *Window) PollReset() bool             { return false }
func (w *Window) ShouldStop() bool            { return true }
func (w *Window) Run(step func() error) error { return ErrNoWindow }
