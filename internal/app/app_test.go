package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"nescore/internal/cartridge"
	"nescore/internal/cpu"
)

func writeROM(t *testing.T, builder *cartridge.ROMBuilder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, builder.Build(), 0644))
	return path
}

func headlessConfig(t *testing.T, frames int) *Config {
	t.Helper()
	c := NewConfig()
	c.Video.Backend = "headless"
	c.Emulation.MaxFrames = frames
	c.Paths.Screenshots = t.TempDir()
	return c
}

func TestApplication_RunHeadless(t *testing.T) {
	config := headlessConfig(t, 3)
	config.Paths.CaptureFrames = []int{2}

	application, err := NewApplication(config, zaptest.NewLogger(t))
	require.NoError(t, err)

	rom := writeROM(t, cartridge.NewROMBuilder().WithProgram(0x4C, 0x00, 0xC0)) // JMP $C000
	require.NoError(t, application.LoadROM(rom))
	require.NotNil(t, application.Console())

	require.NoError(t, application.Run())
	assert.Equal(t, uint64(3), application.Frames())
	assert.FileExists(t, filepath.Join(config.Paths.Screenshots, "frame_002.png"))
	assert.NoError(t, application.Cleanup())
}

func TestApplication_TraceFile(t *testing.T) {
	config := headlessConfig(t, 1)
	config.Emulation.Trace = filepath.Join(t.TempDir(), "trace.log")

	application, err := NewApplication(config, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, application.LoadROM(writeROM(t, cartridge.NewROMBuilder().WithProgram(
		0xEA,             // NOP
		0x4C, 0x00, 0xC0, // JMP $C000
	))))
	require.NoError(t, application.Run())
	require.NoError(t, application.Cleanup())

	data, err := os.ReadFile(config.Emulation.Trace)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Greater(t, len(lines), 100)
	assert.True(t, strings.HasPrefix(lines[0], "C000  EA"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "C001  4C 00 C0"), lines[1])
}

func TestApplication_RunPropagatesFatalError(t *testing.T) {
	application, err := NewApplication(headlessConfig(t, 5), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, application.LoadROM(writeROM(t, cartridge.NewROMBuilder().WithProgram(0x02))))

	err = application.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, cpu.ErrNotImplemented)
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "console", appErr.Component)
	assert.Zero(t, application.Frames())
}

func TestApplication_LoadROMErrors(t *testing.T) {
	application, err := NewApplication(headlessConfig(t, 1), zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, application.Run(), "no ROM loaded")

	err = application.LoadROM(filepath.Join(t.TempDir(), "missing.nes"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.nes")
	require.NoError(t, os.WriteFile(garbage, []byte("not a rom at all"), 0644))
	err = application.LoadROM(garbage)
	assert.ErrorIs(t, err, cartridge.ErrInvalidROM)

	err = application.LoadROM(writeROM(t, cartridge.NewROMBuilder().WithMapper(1)))
	assert.ErrorIs(t, err, cartridge.ErrUnsupportedMapper)
}

func TestNewLogger(t *testing.T) {
	config := NewConfig()
	config.Debug.LogLevel = "warn"

	logger, err := NewLogger(config)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	config.Debug.Development = true
	logger, err = NewLogger(config)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
