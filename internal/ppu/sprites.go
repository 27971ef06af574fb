package ppu

// loadSprites evaluates the sprites for the next line. Empty slots still
// fetch tile 0xFF so the pattern bus sees the same traffic as hardware.
func (p *PPU) loadSprites(visibleLine bool) {
	height := 8
	if p.ctrl.largeSprites {
		height = 16
	}

	count := 0
	if visibleLine {
		for i := 0; i < 64; i++ {
			y := p.oam[i*4]
			attributes := p.oam[i*4+2]
			row := p.scanline - int(y)
			if row < 0 || row >= height {
				continue
			}
			if count < maxLineSprites {
				p.sprites[count] = sprite{
					pattern:  p.fetchSpritePattern(p.oam[i*4+1], attributes, row),
					x:        p.oam[i*4+3],
					priority: (attributes >> 5) & 1,
					index:    uint8(i),
				}
			}
			count++
		}
	}
	if count > maxLineSprites {
		count = maxLineSprites
		p.status.spriteOverflow = true
	}
	p.spriteCount = count

	for i := count; i < maxLineSprites; i++ {
		p.fetchSpritePattern(0xFF, 0, 0)
	}
}

func (p *PPU) fetchSpritePattern(tile, attributes uint8, row int) uint32 {
	var address uint16
	if !p.ctrl.largeSprites {
		if attributes&0x80 != 0 {
			row = 7 - row
		}
		var table uint16
		if p.ctrl.spriteTable {
			table = 0x1000
		}
		address = table + 16*uint16(tile) + uint16(row)
	} else {
		if attributes&0x80 != 0 {
			row = 15 - row
		}
		table := uint16(tile & 1)
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = 0x1000*table + 16*uint16(tile) + uint16(row)
	}

	palette := (attributes & 3) << 2
	low := p.bus.Read(address)
	high := p.bus.Read(address + 8)

	var data uint32
	for i := 0; i < 8; i++ {
		var p1, p2 uint8
		if attributes&0x40 != 0 {
			p1 = low & 1
			p2 = (high & 1) << 1
			low >>= 1
			high >>= 1
		} else {
			p1 = (low & 0x80) >> 7
			p2 = (high & 0x80) >> 6
			low <<= 1
			high <<= 1
		}
		data <<= 4
		data |= uint32(palette | p1 | p2)
	}
	return data
}

// spritePixel returns the first opaque sprite pixel at the current dot.
func (p *PPU) spritePixel() (int, uint8) {
	if !p.mask.showSprites {
		return 0, 0
	}
	x := p.dot - 1
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.sprites[i].x)
		if offset < 0 || offset > 7 {
			continue
		}
		offset = 7 - offset
		color := uint8((p.sprites[i].pattern >> uint(offset*4)) & 0x0F)
		if color%4 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}
