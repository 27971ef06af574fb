//go:build !headless
// +build !headless

package graphics

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testKeys = [2][8]string{
	{"J", "K", "Space", "Enter", "W", "S", "A", "D"},
	{"N", "M", "ControlRight", "ShiftRight", "ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight"},
}

func TestNewWindow_ResolvesKeyBindings(t *testing.T) {
	w, err := NewWindow(Config{Title: "test", Keys: testKeys}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ebiten.KeyJ, w.keys[0][0])
	assert.Equal(t, ebiten.KeyEnter, w.keys[0][3])
	assert.Equal(t, ebiten.KeyArrowUp, w.keys[1][4])
	assert.Equal(t, 2, w.scale, "scale defaults to 2")
	assert.Equal(t, "Ebitengine", w.Name())
}

func TestNewWindow_RejectsUnknownKey(t *testing.T) {
	keys := testKeys
	keys[1][2] = "NoSuchKey"

	_, err := NewWindow(Config{Keys: keys}, zap.NewNop())
	assert.Error(t, err)

	keys[1][2] = ""
	_, err = NewWindow(Config{Keys: keys}, zap.NewNop())
	assert.Error(t, err)
}

func TestButtonsFromKeys(t *testing.T) {
	w, err := NewWindow(Config{Keys: testKeys}, zap.NewNop())
	require.NoError(t, err)

	down := map[ebiten.Key]bool{
		ebiten.KeyJ:          true, // P1 A
		ebiten.KeyD:          true, // P1 Right
		ebiten.KeyShiftRight: true, // P2 Start
	}
	buttons := buttonsFromKeys(w.keys, func(k ebiten.Key) bool { return down[k] })

	assert.Equal(t, [2]uint8{0x81, 0x08}, buttons)
}

func TestWindow_PollResetIsOneShot(t *testing.T) {
	w, err := NewWindow(Config{Keys: testKeys}, zap.NewNop())
	require.NoError(t, err)

	w.reset = true
	assert.True(t, w.PollReset())
	assert.False(t, w.PollReset())

	assert.False(t, w.ShouldStop())
	w.closing = true
	assert.True(t, w.ShouldStop())

	w.RenderFrame()
	assert.Equal(t, 1, w.FrameCount())
}
