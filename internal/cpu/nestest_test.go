package cpu

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nescore/internal/cartridge"
)

// nestestBus maps 2KB of mirrored RAM and the cartridge, nothing else.
type nestestBus struct {
	ram    [0x800]uint8
	mapper cartridge.Mapper
}

func (b *nestestBus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address%0x800]
	case address >= 0x6000:
		return b.mapper.ReadPRG(address)
	default:
		return 0
	}
}

func (b *nestestBus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address%0x800] = value
	case address >= 0x6000:
		b.mapper.WritePRG(address, value)
	}
}

type nestestLine struct {
	pc             uint16
	a, x, y, p, sp uint8
	cycles         uint64
	text           string
}

func parseNestestLine(line string) (nestestLine, error) {
	var l nestestLine
	l.text = line
	if _, err := fmt.Sscanf(line[:4], "%04X", &l.pc); err != nil {
		return l, fmt.Errorf("parsing PC: %w", err)
	}
	registers := line[strings.Index(line, "A:"):]
	if _, err := fmt.Sscanf(registers, "A:%02X X:%02X Y:%02X P:%02X SP:%02X", &l.a, &l.x, &l.y, &l.p, &l.sp); err != nil {
		return l, fmt.Errorf("parsing registers: %w", err)
	}
	cyc := line[strings.LastIndex(line, "CYC:"):]
	if _, err := fmt.Sscanf(cyc, "CYC:%d", &l.cycles); err != nil {
		return l, fmt.Errorf("parsing cycles: %w", err)
	}
	return l, nil
}

// TestNestestGoldenTrace runs the nestest ROM in automation mode from $C000
// and compares every instruction boundary against the reference log.
func TestNestestGoldenTrace(t *testing.T) {
	romPath := filepath.Join("testdata", "nestest.nes")
	logPath := filepath.Join("testdata", "nestest.log")
	if _, err := os.Stat(romPath); err != nil {
		t.Skip("testdata/nestest.nes not present")
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Skip("testdata/nestest.log not present")
	}

	cart, err := cartridge.Load(romPath, zap.NewNop())
	require.NoError(t, err)

	bus := &nestestBus{mapper: cart.Mapper}
	cpu := New(zap.NewNop())
	cpu.Connect(bus)
	cpu.Reset()
	cpu.PC = 0xC000

	file, err := os.Open(logPath)
	require.NoError(t, err)
	defer file.Close()

	scanner := bufio.NewScanner(file)
	previous := ""
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		want, err := parseNestestLine(line)
		require.NoError(t, err, "line %d", n)

		got := cpu.State()
		require.Equal(t,
			fmt.Sprintf("%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d", want.pc, want.a, want.x, want.y, want.p, want.sp, want.cycles),
			fmt.Sprintf("%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d", got.PC, got.A, got.X, got.Y, got.P, got.SP, got.Cycles),
			"line %d, after %q", n, previous)

		_, err = cpu.Step()
		require.NoError(t, err, "line %d", n)
		previous = line
	}
	require.NoError(t, scanner.Err())

	// Automation mode leaves the error codes in $02 and $03.
	require.Zero(t, bus.ram[0x02], "documented opcode failure code")
	require.Zero(t, bus.ram[0x03], "undocumented opcode failure code")
}
