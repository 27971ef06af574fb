package ppu

// renderPixel composites background and sprite for the current dot and
// emits the palette colour.
func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	background := p.backgroundPixel()
	i, spriteColor := p.spritePixel()
	if x < 8 && !p.mask.showLeftBackground {
		background = 0
	}
	if x < 8 && !p.mask.showLeftSprites {
		spriteColor = 0
	}

	opaqueBackground := background%4 != 0
	opaqueSprite := spriteColor%4 != 0

	var color uint8
	switch {
	case !opaqueBackground && !opaqueSprite:
		color = 0
	case !opaqueBackground:
		color = spriteColor | 0x10
	case !opaqueSprite:
		color = background
	default:
		if p.sprites[i].index == 0 && x < 255 {
			p.status.spriteZeroHit = true
		}
		if p.sprites[i].priority == 0 {
			color = spriteColor | 0x10
		} else {
			color = background
		}
	}

	index := p.bus.Read(0x3F00+uint16(color)) & 0x3F
	if p.mask.greyscale {
		index &= 0x30
	}
	p.display.SetPixel(x, y, index)
}
