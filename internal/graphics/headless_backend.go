package graphics

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Headless is a frontend without a window. It counts frames, stops after
// MaxFrames and saves the frames listed in CaptureFrames as PNG files.
type Headless struct {
	*FrameBuffer

	frameCount int
	maxFrames  int
	capture    map[int]bool
	outputDir  string

	// Scripted input, keyed by the frame it takes effect on.
	script  map[int][2]uint8
	buttons [2]uint8
	resetAt map[int]bool
	reset   bool

	err    error
	logger *zap.Logger
}

// NewHeadless creates a headless frontend.
func NewHeadless(config Config, logger *zap.Logger) *Headless {
	h := &Headless{
		FrameBuffer: NewFrameBuffer(NewVideoProcessor(config.Brightness, config.Contrast)),
		maxFrames:   config.MaxFrames,
		capture:     make(map[int]bool),
		outputDir:   config.CaptureDir,
		script:      make(map[int][2]uint8),
		resetAt:     make(map[int]bool),
		logger:      logger,
	}
	for _, frame := range config.CaptureFrames {
		h.capture[frame] = true
	}
	if h.outputDir == "" {
		h.outputDir = "."
	}
	return h
}

// Name returns the backend name
func (h *Headless) Name() string {
	return "Headless"
}

// PressAt sets the button bytes for both ports from the given frame on.
func (h *Headless) PressAt(frame int, buttons [2]uint8) {
	h.script[frame] = buttons
	if frame == 0 {
		h.buttons = buttons
	}
}

// ResetAt requests a console reset once the given frame has been presented.
func (h *Headless) ResetAt(frame int) {
	h.resetAt[frame] = true
}

// RenderFrame counts the frame and saves it when it was asked for.
func (h *Headless) RenderFrame() {
	h.frameCount++
	if buttons, ok := h.script[h.frameCount]; ok {
		h.buttons = buttons
	}
	if h.resetAt[h.frameCount] {
		h.reset = true
	}

	if h.capture[h.frameCount] {
		path := filepath.Join(h.outputDir, fmt.Sprintf("frame_%03d.png", h.frameCount))
		if err := h.savePNG(path); err != nil {
			h.logger.Error("frame capture failed", zap.String("path", path), zap.Error(err))
			if h.err == nil {
				h.err = err
			}
			return
		}
		h.logger.Info("frame captured", zap.Int("frame", h.frameCount), zap.String("path", path))
	}
}

func (h *Headless) savePNG(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create capture directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := png.Encode(file, h.Image()); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

// PollButtons returns the scripted buttons for the current frame.
func (h *Headless) PollButtons() [2]uint8 {
	return h.buttons
}

// PollReset reports a scripted reset once.
func (h *Headless) PollReset() bool {
	reset := h.reset
	h.reset = false
	return reset
}

// ShouldStop is true after MaxFrames frames, or once a capture failed.
func (h *Headless) ShouldStop() bool {
	if h.err != nil {
		return true
	}
	return h.maxFrames > 0 && h.frameCount >= h.maxFrames
}

// Run steps until ShouldStop.
func (h *Headless) Run(step func() error) error {
	for !h.ShouldStop() {
		if err := step(); err != nil {
			return err
		}
	}
	return h.err
}

// FrameCount returns the number of frames presented so far.
func (h *Headless) FrameCount() int {
	return h.frameCount
}

// Err returns the first capture error.
func (h *Headless) Err() error {
	return h.err
}
