// Package ppu implements the Picture Processing Unit (2C02) of the NES.
package ppu

import (
	"go.uber.org/zap"
)

const (
	dotsPerLine    = 341
	linesPerFrame  = 262
	visibleLines   = 240
	vblankLine     = 241
	preRenderLine  = 261
	nmiDelayDots   = 15
	oamSize        = 256
	maxLineSprites = 8

	// Width and Height of the emitted picture.
	Width  = 256
	Height = 240
)

// Bus is the PPU address space.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	// Clock is called once per dot.
	Clock()
}

// Display receives the picture.
type Display interface {
	SetPixel(x, y int, colorIndex uint8)
	RenderFrame()
}

// InterruptSink is the CPU's NMI input.
type InterruptSink interface {
	TriggerNMI()
}

// DMAHost is the CPU side of an OAM DMA transfer.
type DMAHost interface {
	Read(address uint16) uint8
	Stall(cycles int)
	Cycles() uint64
}

type sprite struct {
	pattern  uint32
	x        uint8
	priority uint8
	index    uint8
}

// PPU is the picture processor state machine. Step advances it by one dot.
type PPU struct {
	ctrl    ctrlRegister
	mask    maskRegister
	status  statusRegister
	oamAddr oamAddrRegister
	oamData oamDataRegister
	scroll  scrollRegister
	addr    addrRegister
	data    dataRegister
	dma     dmaRegister

	// loopy registers
	v uint16
	t uint16
	x uint8
	w bool

	latch uint8

	dot      int
	scanline int
	oddFrame bool
	frame    uint64

	nmiPrevious bool
	nmiDelay    int

	// background pipeline
	nametableByte uint8
	attributeByte uint8
	lowTileByte   uint8
	highTileByte  uint8
	tileData      uint64

	// sprite pipeline
	oam         [oamSize]uint8
	sprites     [maxLineSprites]sprite
	spriteCount int

	bus     Bus
	display Display
	nmi     InterruptSink
	cpu     DMAHost

	err    error
	logger *zap.Logger
}

// New creates a PPU drawing through bus onto display.
func New(bus Bus, display Display, logger *zap.Logger) *PPU {
	p := &PPU{
		bus:     bus,
		display: display,
		nmi:     detachedCPU{},
		cpu:     detachedCPU{},
		logger:  logger,
	}
	p.Reset()
	return p
}

// ConnectCPU attaches the CPU once it exists.
func (p *PPU) ConnectCPU(nmi InterruptSink, cpu DMAHost) {
	p.nmi = nmi
	p.cpu = cpu
}

// Reset puts the PPU just before the start of vertical blank.
func (p *PPU) Reset() {
	p.dot = dotsPerLine - 1
	p.scanline = visibleLines
	p.frame = 0
	p.ctrl.write(p, 0)
	p.mask.write(p, 0)
	p.oamAddr.write(p, 0)
	p.w = false
	p.nmiDelay = 0
}

// Err returns the first fatal register access error.
func (p *PPU) Err() error { return p.err }

// Frame returns the number of completed frames.
func (p *PPU) Frame() uint64 { return p.frame }

// Position returns the current scanline and dot.
func (p *PPU) Position() (scanline, dot int) { return p.scanline, p.dot }

func (p *PPU) fail(err error) {
	if p.err == nil {
		p.err = err
		p.logger.Error("fatal PPU register access", zap.Error(err))
	}
}

func (p *PPU) renderingEnabled() bool {
	return p.mask.showBackground || p.mask.showSprites
}

// nmiChange arms the NMI delay on a rising edge of the NMI output.
func (p *PPU) nmiChange() {
	nmi := p.ctrl.nmiEnabled && p.status.vblank
	if nmi && !p.nmiPrevious {
		p.nmiDelay = nmiDelayDots
	}
	p.nmiPrevious = nmi
}

// tick advances the dot and scanline counters.
func (p *PPU) tick() {
	if p.nmiDelay > 0 {
		p.nmiDelay--
		if p.nmiDelay == 0 && p.ctrl.nmiEnabled && p.status.vblank {
			p.nmi.TriggerNMI()
		}
	}

	if p.renderingEnabled() && p.oddFrame && p.scanline == preRenderLine && p.dot == dotsPerLine-2 {
		p.dot = 0
		p.scanline = 0
		p.endFrame()
		return
	}

	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		p.scanline++
		if p.scanline == linesPerFrame {
			p.scanline = 0
			p.endFrame()
		}
	}
}

func (p *PPU) endFrame() {
	p.oddFrame = !p.oddFrame
	p.frame++
	p.display.RenderFrame()
}

// Step executes one PPU dot.
func (p *PPU) Step() {
	p.tick()
	p.bus.Clock()

	preLine := p.scanline == preRenderLine
	visibleLine := p.scanline < visibleLines
	renderLine := preLine || visibleLine
	visibleDot := p.dot >= 1 && p.dot <= 256
	prefetchDot := p.dot >= 321 && p.dot <= 336
	fetchDot := visibleDot || prefetchDot

	if p.renderingEnabled() {
		if visibleLine && visibleDot {
			p.renderPixel()
		}
		if renderLine && fetchDot {
			p.fetchBackground()
		}
		if preLine && p.dot >= 280 && p.dot <= 304 {
			p.copyY()
		}
		if renderLine {
			if fetchDot && p.dot%8 == 0 {
				p.incrementX()
			}
			if p.dot == 256 {
				p.incrementY()
			}
			if p.dot == 257 {
				p.copyX()
				p.loadSprites(visibleLine)
			}
		}
	}

	if p.scanline == vblankLine && p.dot == 1 {
		p.status.vblank = true
		p.nmiChange()
	}
	if preLine && p.dot == 1 {
		p.status.vblank = false
		p.status.spriteZeroHit = false
		p.status.spriteOverflow = false
		p.nmiChange()
	}
}

// detachedCPU stands in until ConnectCPU is called.
type detachedCPU struct{}

func (detachedCPU) TriggerNMI() {}

func (detachedCPU) Read(uint16) uint8 { return 0 }

func (detachedCPU) Stall(int) {}

func (detachedCPU) Cycles() uint64 { return 0 }
