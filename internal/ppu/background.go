package ppu

// fetchBackground runs one dot of the eight-dot tile fetch.
func (p *PPU) fetchBackground() {
	p.tileData <<= 4
	switch p.dot % 8 {
	case 1:
		p.fetchNametableByte()
	case 3:
		p.fetchAttributeByte()
	case 5:
		p.lowTileByte = p.bus.Read(p.tileAddress())
	case 7:
		p.highTileByte = p.bus.Read(p.tileAddress() + 8)
	case 0:
		p.storeTileData()
	}
}

func (p *PPU) fetchNametableByte() {
	p.nametableByte = p.bus.Read(0x2000 | p.v&0x0FFF)
}

func (p *PPU) fetchAttributeByte() {
	v := p.v
	address := 0x23C0 | v&0x0C00 | (v>>4)&0x38 | (v>>2)&0x07
	shift := (v>>4)&4 | v&2
	p.attributeByte = (p.bus.Read(address) >> shift) & 3 << 2
}

func (p *PPU) tileAddress() uint16 {
	fineY := (p.v >> 12) & 7
	var table uint16
	if p.ctrl.backgroundTable {
		table = 0x1000
	}
	return table + 16*uint16(p.nametableByte) + fineY
}

// storeTileData decodes eight pixels into the low half of the shift register.
func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		p1 := (p.lowTileByte & 0x80) >> 7
		p2 := (p.highTileByte & 0x80) >> 6
		p.lowTileByte <<= 1
		p.highTileByte <<= 1
		data <<= 4
		data |= uint32(p.attributeByte | p1 | p2)
	}
	p.tileData |= uint64(data)
}

func (p *PPU) backgroundPixel() uint8 {
	if !p.mask.showBackground {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0F)
}

// incrementX advances coarse X, switching horizontal nametable at 31.
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY advances fine Y then coarse Y. Coarse Y wraps at 29 into the
// next vertical nametable, and at 31 without switching.
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

// copyX copies the horizontal bits of t into v.
func (p *PPU) copyX() {
	p.v = p.v&0xFBE0 | p.t&0x041F
}

// copyY copies the vertical bits of t into v.
func (p *PPU) copyY() {
	p.v = p.v&0x841F | p.t&0x7BE0
}
