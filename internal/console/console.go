// Package console wires the NES components together and drives them in lockstep.
package console

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

// dotsPerCycle is the NTSC PPU to CPU clock ratio.
const dotsPerCycle = 3

// maxFrameCycles bounds StepFrame, a bit over two NTSC frames of CPU time.
const maxFrameCycles = 2 * 29781

// IO is the presentation side of the console: it receives pixels and
// frames, and supplies buttons, reset requests and the stop signal.
type IO interface {
	ppu.Display

	// PollButtons returns the button byte for each controller port, bit 0 is A.
	PollButtons() [2]uint8
	// PollReset reports a pending reset request and clears it.
	PollReset() bool
	// ShouldStop reports that the run loop should return.
	ShouldStop() bool
}

// ErrNoFrame is returned by StepFrame when the PPU stops producing frames.
var ErrNoFrame = errors.New("no frame completed")

// Console owns one CPU, one PPU, the cartridge board and two controllers.
type Console struct {
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	cart   *cartridge.Cartridge
	input  *input.InputState
	cpuBus *memory.CPUBus
	ppuBus *memory.PPUBus

	io        IO
	frameDone bool
	trace     io.Writer
	logger    *zap.Logger
}

// New builds a console around cart and resets it.
func New(cart *cartridge.Cartridge, display IO, logger *zap.Logger) (*Console, error) {
	if cart == nil || cart.Mapper == nil {
		return nil, errors.New("console: no cartridge")
	}
	if display == nil {
		return nil, errors.New("console: no IO")
	}

	c := &Console{
		cart:   cart,
		io:     display,
		input:  input.NewInputState(logger.Named("input")),
		logger: logger,
	}

	c.cpu = cpu.New(logger.Named("cpu"))
	cart.Mapper.ConnectIRQ(c.cpu)

	c.ppuBus = memory.NewPPUBus(cart.Mapper, logger.Named("ppubus"))
	c.ppu = ppu.New(c.ppuBus, c, logger.Named("ppu"))
	c.ppu.ConnectCPU(c.cpu, c.cpu)

	c.cpuBus = memory.NewCPUBus(c.ppu, cart.Mapper, c.input.Controller1, c.input.Controller2, logger.Named("cpubus"))
	c.cpu.Connect(c.cpuBus)

	c.Reset()
	return c, nil
}

// Reset performs a soft reset of every component.
func (c *Console) Reset() {
	c.cpu.Reset()
	c.ppu.Reset()
	c.input.Reset()
	c.logger.Info("console reset", zap.Uint16("pc", c.cpu.PC))
}

// SetTrace writes one trace line per executed instruction to w. A nil
// writer turns tracing off.
func (c *Console) SetTrace(w io.Writer) {
	c.trace = w
}

// Step runs one CPU instruction and the matching PPU dots. It returns the
// number of CPU cycles consumed.
func (c *Console) Step() (int, error) {
	if c.io.PollReset() {
		c.Reset()
	}
	c.input.SetButtons(c.io.PollButtons())

	if c.trace != nil && !c.cpu.Stalled() {
		if _, err := fmt.Fprintln(c.trace, c.cpu.Trace()); err != nil {
			return 0, fmt.Errorf("writing trace: %w", err)
		}
	}

	cycles, err := c.cpu.Step()
	if err != nil {
		return 0, fmt.Errorf("cpu step: %w", err)
	}
	if err := c.ppu.Err(); err != nil {
		return cycles, fmt.Errorf("ppu: %w", err)
	}

	for i := 0; i < cycles*dotsPerCycle; i++ {
		c.ppu.Step()
	}
	return cycles, nil
}

// SetPixel forwards a pixel to the IO.
func (c *Console) SetPixel(x, y int, color uint8) {
	c.io.SetPixel(x, y, color)
}

// RenderFrame marks the frame complete and hands it to the IO.
func (c *Console) RenderFrame() {
	c.frameDone = true
	c.io.RenderFrame()
}

// StepFrame steps until the PPU completes a frame.
func (c *Console) StepFrame() error {
	c.frameDone = false
	spent := 0
	for !c.frameDone {
		cycles, err := c.Step()
		if err != nil {
			return err
		}
		spent += cycles
		if spent > maxFrameCycles {
			return fmt.Errorf("%w after %d cycles", ErrNoFrame, spent)
		}
	}
	return nil
}

// Run steps frames until the IO asks to stop or an error occurs.
func (c *Console) Run() error {
	for !c.io.ShouldStop() {
		if err := c.StepFrame(); err != nil {
			c.logger.Error("emulation stopped", zap.Error(err), zap.Uint64("frame", c.ppu.Frame()))
			return err
		}
	}
	c.logger.Info("emulation finished", zap.Uint64("frames", c.ppu.Frame()))
	return nil
}

// CPU returns the console CPU.
func (c *Console) CPU() *cpu.CPU { return c.cpu }

// PPU returns the console PPU.
func (c *Console) PPU() *ppu.PPU { return c.ppu }

// Cartridge returns the inserted cartridge.
func (c *Console) Cartridge() *cartridge.Cartridge { return c.cart }

// Input returns the controller ports.
func (c *Console) Input() *input.InputState { return c.input }
