package ppu

import (
	"errors"
	"fmt"
)

// ErrRegisterAccess is wrapped by RegisterAccessError.
var ErrRegisterAccess = errors.New("illegal PPU register access")

// RegisterAccessError reports a read of a write-only register or a write
// of a read-only one.
type RegisterAccessError struct {
	Register string
	Address  uint16
	Write    bool
}

func (e *RegisterAccessError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("%s of %s (0x%04X)", op, e.Register, e.Address)
}

func (e *RegisterAccessError) Unwrap() error { return ErrRegisterAccess }

// registerHost is the part of the PPU that the registers may touch.
type registerHost interface {
	tempAddress() uint16
	setTempAddress(value uint16)
	vramAddress() uint16
	setVRAMAddress(value uint16)
	setFineX(value uint8)
	writeToggle() bool
	setWriteToggle(second bool)

	readVRAM(address uint16) uint8
	writeVRAM(address uint16, value uint8)
	vramIncrement() uint16

	setOAMAddress(value uint8)
	readOAM() uint8
	writeOAM(value uint8)
	transferOAM(page uint8)

	lastWrite() uint8
	statusFlags() (vblank, spriteZeroHit, spriteOverflow bool)
	acknowledgeVBlank()
	nmiOutputChanged()
}

type register interface {
	read(h registerHost) (uint8, error)
	write(h registerHost, value uint8) error
}

var errReadOnly = errors.New("read only")
var errWriteOnly = errors.New("write only")

type writeOnly struct{}

func (writeOnly) read(registerHost) (uint8, error) { return 0, errWriteOnly }

// PPUCTRL 0x2000
type ctrlRegister struct {
	writeOnly
	nametable       uint8
	increment32     bool
	spriteTable     bool
	backgroundTable bool
	largeSprites    bool
	master          bool
	nmiEnabled      bool
}

func (r *ctrlRegister) write(h registerHost, value uint8) error {
	r.nametable = value & 0x03
	r.increment32 = value&0x04 != 0
	r.spriteTable = value&0x08 != 0
	r.backgroundTable = value&0x10 != 0
	r.largeSprites = value&0x20 != 0
	r.master = value&0x40 != 0
	r.nmiEnabled = value&0x80 != 0
	h.setTempAddress(h.tempAddress()&0xF3FF | uint16(r.nametable)<<10)
	h.nmiOutputChanged()
	return nil
}

// PPUMASK 0x2001
type maskRegister struct {
	writeOnly
	greyscale          bool
	showLeftBackground bool
	showLeftSprites    bool
	showBackground     bool
	showSprites        bool
	emphasis           uint8
}

func (r *maskRegister) write(_ registerHost, value uint8) error {
	r.greyscale = value&0x01 != 0
	r.showLeftBackground = value&0x02 != 0
	r.showLeftSprites = value&0x04 != 0
	r.showBackground = value&0x08 != 0
	r.showSprites = value&0x10 != 0
	r.emphasis = value >> 5
	return nil
}

// PPUSTATUS 0x2002
type statusRegister struct {
	spriteOverflow bool
	spriteZeroHit  bool
	vblank         bool
}

// read returns the flags over the low five bits of the last register write.
func (r *statusRegister) read(h registerHost) (uint8, error) {
	vblank, zero, overflow := h.statusFlags()
	value := h.lastWrite() & 0x1F
	if overflow {
		value |= 0x20
	}
	if zero {
		value |= 0x40
	}
	if vblank {
		value |= 0x80
	}
	h.acknowledgeVBlank()
	h.setWriteToggle(false)
	return value, nil
}

func (r *statusRegister) write(registerHost, uint8) error { return errReadOnly }

// OAMADDR 0x2003
type oamAddrRegister struct {
	writeOnly
	address uint8
}

func (r *oamAddrRegister) write(h registerHost, value uint8) error {
	h.setOAMAddress(value)
	return nil
}

// OAMDATA 0x2004
type oamDataRegister struct{}

func (oamDataRegister) read(h registerHost) (uint8, error) {
	return h.readOAM(), nil
}

func (oamDataRegister) write(h registerHost, value uint8) error {
	h.writeOAM(value)
	return nil
}

// PPUSCROLL 0x2005
type scrollRegister struct{ writeOnly }

func (scrollRegister) write(h registerHost, value uint8) error {
	t := h.tempAddress()
	if !h.writeToggle() {
		t = t&0xFFE0 | uint16(value)>>3
		h.setFineX(value & 0x07)
	} else {
		t = t&0x8FFF | uint16(value&0x07)<<12
		t = t&0xFC1F | uint16(value&0xF8)<<2
	}
	h.setTempAddress(t)
	h.setWriteToggle(!h.writeToggle())
	return nil
}

// PPUADDR 0x2006
type addrRegister struct{ writeOnly }

func (addrRegister) write(h registerHost, value uint8) error {
	t := h.tempAddress()
	if !h.writeToggle() {
		t = t&0x80FF | uint16(value&0x3F)<<8
	} else {
		t = t&0xFF00 | uint16(value)
		h.setVRAMAddress(t)
	}
	h.setTempAddress(t)
	h.setWriteToggle(!h.writeToggle())
	return nil
}

// PPUDATA 0x2007
type dataRegister struct {
	buffer uint8
}

// read lags one byte behind VRAM, except for palette reads which refill
// the buffer from the nametable underneath.
func (r *dataRegister) read(h registerHost) (uint8, error) {
	address := h.vramAddress() & 0x3FFF
	value := h.readVRAM(address)
	if address < 0x3F00 {
		value, r.buffer = r.buffer, value
	} else {
		r.buffer = h.readVRAM(address - 0x1000)
	}
	h.setVRAMAddress(h.vramAddress() + h.vramIncrement())
	return value, nil
}

func (r *dataRegister) write(h registerHost, value uint8) error {
	h.writeVRAM(h.vramAddress(), value)
	h.setVRAMAddress(h.vramAddress() + h.vramIncrement())
	return nil
}

// OAMDMA 0x4014
type dmaRegister struct{ writeOnly }

func (dmaRegister) write(h registerHost, value uint8) error {
	h.transferOAM(value)
	return nil
}

var registerNames = [...]string{"PPUCTRL", "PPUMASK", "PPUSTATUS", "OAMADDR", "OAMDATA", "PPUSCROLL", "PPUADDR", "PPUDATA", "OAMDMA"}

func (p *PPU) register(address uint16) (register, int) {
	switch address {
	case 0x2000:
		return &p.ctrl, 0
	case 0x2001:
		return &p.mask, 1
	case 0x2002:
		return &p.status, 2
	case 0x2003:
		return &p.oamAddr, 3
	case 0x2004:
		return &p.oamData, 4
	case 0x2005:
		return &p.scroll, 5
	case 0x2006:
		return &p.addr, 6
	case 0x2007:
		return &p.data, 7
	case 0x4014:
		return &p.dma, 8
	}
	return nil, -1
}

// ReadRegister services a CPU read of 0x2000-0x2007 or 0x4014.
func (p *PPU) ReadRegister(address uint16) uint8 {
	reg, index := p.register(address)
	if reg == nil {
		p.fail(fmt.Errorf("%w: no register at 0x%04X", ErrRegisterAccess, address))
		return 0
	}
	value, err := reg.read(p)
	if err != nil {
		p.fail(&RegisterAccessError{Register: registerNames[index], Address: address})
		return 0
	}
	return value
}

// WriteRegister services a CPU write of 0x2000-0x2007 or 0x4014.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	p.latch = value
	reg, index := p.register(address)
	if reg == nil {
		p.fail(fmt.Errorf("%w: no register at 0x%04X", ErrRegisterAccess, address))
		return
	}
	if err := reg.write(p, value); err != nil {
		p.fail(&RegisterAccessError{Register: registerNames[index], Address: address, Write: true})
	}
}

func (p *PPU) tempAddress() uint16         { return p.t }
func (p *PPU) setTempAddress(value uint16) { p.t = value & 0x7FFF }
func (p *PPU) vramAddress() uint16         { return p.v }
func (p *PPU) setVRAMAddress(value uint16) { p.v = value & 0x7FFF }
func (p *PPU) setFineX(value uint8)        { p.x = value }
func (p *PPU) writeToggle() bool           { return p.w }
func (p *PPU) setWriteToggle(second bool)  { p.w = second }

func (p *PPU) readVRAM(address uint16) uint8         { return p.bus.Read(address) }
func (p *PPU) writeVRAM(address uint16, value uint8) { p.bus.Write(address, value) }

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl.increment32 {
		return 32
	}
	return 1
}

func (p *PPU) setOAMAddress(value uint8) { p.oamAddr.address = value }
func (p *PPU) readOAM() uint8            { return p.oam[p.oamAddr.address] }

func (p *PPU) writeOAM(value uint8) {
	p.oam[p.oamAddr.address] = value
	p.oamAddr.address++
}

// transferOAM copies a CPU page into OAM and stalls the CPU for the
// duration of the transfer, one extra cycle when it starts on an odd cycle.
func (p *PPU) transferOAM(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < oamSize; i++ {
		p.writeOAM(p.cpu.Read(base + i))
	}
	stall := 513
	if p.cpu.Cycles()%2 == 1 {
		stall++
	}
	p.cpu.Stall(stall)
}

func (p *PPU) lastWrite() uint8 { return p.latch }

func (p *PPU) statusFlags() (vblank, spriteZeroHit, spriteOverflow bool) {
	return p.status.vblank, p.status.spriteZeroHit, p.status.spriteOverflow
}

func (p *PPU) acknowledgeVBlank() {
	p.status.vblank = false
	p.nmiChange()
}

func (p *PPU) nmiOutputChanged() { p.nmiChange() }
