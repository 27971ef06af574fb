package cartridge

import "fmt"

func hex8(v uint8) string { return fmt.Sprintf("0x%02X", v) }

func hex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
