package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nescore/internal/cartridge"
)

func writeROM(t *testing.T, code ...uint8) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, cartridge.NewROMBuilder().WithProgram(code...).Build(), 0644))
	return path
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no rom", nil},
		{"two roms", []string{"a.nes", "b.nes"}},
		{"unknown flag", []string{"-bogus", "a.nes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(tt.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), "USAGE")
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitOK, run([]string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "nescore")
}

func TestRun_HeadlessFrames(t *testing.T) {
	rom := writeROM(t, 0x4C, 0x00, 0xC0) // JMP $C000
	config := filepath.Join(t.TempDir(), "none.json")
	trace := filepath.Join(t.TempDir(), "trace.log")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", config, "-nogui", "-frames", "2", "-trace", trace, rom}, &stdout, &stderr)

	assert.Equal(t, exitOK, code, stderr.String())
	info, err := os.Stat(trace)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_FatalErrorExitsOne(t *testing.T) {
	rom := writeROM(t, 0x02) // KIL
	config := filepath.Join(t.TempDir(), "none.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", config, "-nogui", rom}, &stdout, &stderr)

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "not implemented")
}

func TestRun_MissingROM(t *testing.T) {
	config := filepath.Join(t.TempDir(), "none.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", config, "-nogui", filepath.Join(t.TempDir(), "missing.nes")}, &stdout, &stderr)

	assert.Equal(t, exitError, code)
}
