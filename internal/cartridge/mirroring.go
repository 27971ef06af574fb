package cartridge

// Mirroring selects how the four logical nametables map onto the two physical ones.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreen
)

var mirrorTables = [...][4]int{
	Horizontal:   {0, 0, 1, 1},
	Vertical:     {0, 1, 0, 1},
	SingleScreen: {0, 0, 0, 0},
}

// MirroringFromID converts the header mirroring id.
func MirroringFromID(id uint8) Mirroring {
	switch id {
	case 0:
		return Horizontal
	case 1:
		return Vertical
	default:
		return SingleScreen
	}
}

// Table returns the physical nametable backing a logical quadrant (0-3).
func (m Mirroring) Table(quadrant int) int {
	return mirrorTables[m][quadrant&3]
}

// MirrorAddress translates a nametable address in 0x2000-0x2FFF to its
// physical address, 0x2000 plus the table offset.
func MirrorAddress(m Mirroring, address uint16) uint16 {
	address = (address - 0x2000) % 0x1000
	quadrant := int(address / 0x400)
	offset := address % 0x400
	return 0x2000 + uint16(m.Table(quadrant))*0x400 + offset
}

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleScreen:
		return "single"
	default:
		return "unknown"
	}
}
