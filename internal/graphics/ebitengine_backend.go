//go:build !headless
// +build !headless

package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"nescore/internal/ppu"
)

// Window is the ebiten frontend. The console runs inside Update on the
// ebiten game goroutine.
type Window struct {
	*FrameBuffer

	title      string
	scale      int
	fullscreen bool
	vsync      bool
	showFPS    bool

	keys [2][8]ebiten.Key

	game *EbitengineGame

	buttons    [2]uint8
	reset      bool
	closing    bool
	frameCount int

	logger *zap.Logger
}

// EbitengineGame implements ebiten.Game for the console
type EbitengineGame struct {
	window *Window
	step   func() error
	err    error

	frameImage *ebiten.Image
	// Reusable image buffer for the RGBA conversion
	imageBuffer *image.RGBA
	face        text.Face
}

// NewWindow creates the ebiten frontend. Key names are resolved now so a
// bad binding fails before the window opens.
func NewWindow(config Config, logger *zap.Logger) (*Window, error) {
	w := &Window{
		FrameBuffer: NewFrameBuffer(NewVideoProcessor(config.Brightness, config.Contrast)),
		title:       config.Title,
		scale:       config.Scale,
		fullscreen:  config.Fullscreen,
		vsync:       config.VSync,
		showFPS:     config.ShowFPS,
		logger:      logger,
	}
	if w.scale <= 0 {
		w.scale = 2
	}

	for port, names := range config.Keys {
		for i, name := range names {
			key, err := parseKey(name)
			if err != nil {
				return nil, fmt.Errorf("player %d binding %d: %w", port+1, i, err)
			}
			w.keys[port][i] = key
		}
	}
	return w, nil
}

// parseKey resolves an ebiten key name such as "ArrowUp" or "Enter".
func parseKey(name string) (ebiten.Key, error) {
	var key ebiten.Key
	if name == "" {
		return key, errors.New("empty key name")
	}
	if err := key.UnmarshalText([]byte(name)); err != nil {
		return key, fmt.Errorf("unknown key %q: %w", name, err)
	}
	return key, nil
}

// Name returns the backend name
func (w *Window) Name() string {
	return "Ebitengine"
}

// RenderFrame marks the end of a picture. The frame buffer is uploaded in Draw.
func (w *Window) RenderFrame() {
	w.frameCount++
}

// PollButtons returns the buttons sampled in the last Update.
func (w *Window) PollButtons() [2]uint8 {
	return w.buttons
}

// PollReset reports a reset key press once.
func (w *Window) PollReset() bool {
	reset := w.reset
	w.reset = false
	return reset
}

// ShouldStop is true once Escape was pressed or the window is closing.
func (w *Window) ShouldStop() bool {
	return w.closing
}

// Run opens the window and runs the game loop until it closes. step is
// called once per tick.
func (w *Window) Run(step func() error) error {
	w.game = &EbitengineGame{
		window:      w,
		step:        step,
		frameImage:  ebiten.NewImage(ppu.Width, ppu.Height),
		imageBuffer: image.NewRGBA(image.Rect(0, 0, ppu.Width, ppu.Height)),
		face:        text.NewGoXFace(basicfont.Face7x13),
	}

	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(ppu.Width*w.scale, ppu.Height*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(w.vsync)
	ebiten.SetFullscreen(w.fullscreen)
	ebiten.SetTPS(60)

	w.logger.Info("window opened",
		zap.String("title", w.title),
		zap.Int("scale", w.scale))

	if err := ebiten.RunGame(w.game); err != nil {
		return err
	}
	return w.game.err
}

// FrameCount returns the number of frames presented so far.
func (w *Window) FrameCount() int {
	return w.frameCount
}

// Update implements ebiten.Game.Update
func (g *EbitengineGame) Update() error {
	w := g.window
	g.processInput()
	if w.closing || ebiten.IsWindowBeingClosed() {
		w.closing = true
		return ebiten.Termination
	}

	if err := g.step(); err != nil {
		g.err = err
		return ebiten.Termination
	}
	return nil
}

// processInput samples the bound keys and the control keys.
func (g *EbitengineGame) processInput() {
	w := g.window
	w.buttons = buttonsFromKeys(w.keys, ebiten.IsKeyPressed)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.closing = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w.reset = true
		w.logger.Info("reset requested")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		w.showFPS = !w.showFPS
	}
}

// buttonsFromKeys builds the report byte for each port from the bindings.
func buttonsFromKeys(keys [2][8]ebiten.Key, pressed func(ebiten.Key) bool) [2]uint8 {
	var buttons [2]uint8
	for port := range keys {
		for bit, key := range keys[port] {
			if pressed(key) {
				buttons[port] |= 1 << bit
			}
		}
	}
	return buttons
}

// Draw implements ebiten.Game.Draw
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})

	g.window.FrameBuffer.Draw(g.imageBuffer)
	g.frameImage.WritePixels(g.imageBuffer.Pix)

	// Scale to fit while keeping the aspect ratio, then centre.
	bounds := screen.Bounds()
	scaleX := float64(bounds.Dx()) / float64(ppu.Width)
	scaleY := float64(bounds.Dy()) / float64(ppu.Height)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	offsetX := (float64(bounds.Dx()) - float64(ppu.Width)*scale) / 2
	offsetY := (float64(bounds.Dy()) - float64(ppu.Height)*scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.frameImage, op)

	if g.window.showFPS {
		overlay := &text.DrawOptions{}
		overlay.GeoM.Translate(4, 4)
		overlay.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, fmt.Sprintf("FPS %.1f  frame %d", ebiten.ActualFPS(), g.window.frameCount), g.face, overlay)
	}
}

// Layout implements ebiten.Game.Layout
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return outsideWidth, outsideHeight
}
