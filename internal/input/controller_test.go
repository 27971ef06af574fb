package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func readReport(c *Controller, n int) []uint8 {
	report := make([]uint8, n)
	for i := range report {
		report[i] = c.Read()
	}
	return report
}

func TestNew_ShouldCreateControllerWithDefaultState(t *testing.T) {
	controller := New(zap.NewNop())

	assert.Zero(t, controller.buttons)
	assert.Zero(t, controller.snapshot)
	assert.False(t, controller.strobe)
}

func TestSetButton_ShouldUpdateButtonState(t *testing.T) {
	controller := New(zap.NewNop())

	for _, button := range []Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight} {
		controller.SetButton(button, true)
		assert.True(t, controller.IsPressed(button), button.String())
		assert.Equal(t, uint8(button), controller.buttons)

		controller.SetButton(button, false)
		assert.False(t, controller.IsPressed(button), button.String())
	}
}

func TestSetButton_MultipleButtons_ShouldCombineStates(t *testing.T) {
	controller := New(zap.NewNop())

	controller.SetButton(ButtonA, true)
	controller.SetButton(ButtonStart, true)
	controller.SetButton(ButtonRight, true)

	assert.Equal(t, uint8(0x89), controller.buttons)
}

// TestControllerReadOrder is the protocol contract: after a strobe pulse the
// eight buttons come out in fixed order and the ninth read repeats A.
func TestControllerReadOrder(t *testing.T) {
	controller := New(zap.NewNop())
	// A, Select, Up, Left pressed.
	controller.SetButtons(0b0101_0101)

	controller.Write(1)
	controller.Write(0)

	assert.Equal(t, []uint8{1, 0, 1, 0, 1, 0, 1, 0, 1}, readReport(controller, 9))
}

func TestRead_EachButtonInPosition(t *testing.T) {
	for position := 0; position < buttonCount; position++ {
		button := Button(1 << position)
		t.Run(button.String(), func(t *testing.T) {
			controller := New(zap.NewNop())
			controller.SetButton(button, true)
			controller.Write(1)
			controller.Write(0)

			report := readReport(controller, buttonCount)
			for i, bit := range report {
				if i == position {
					assert.Equal(t, uint8(1), bit)
				} else {
					assert.Equal(t, uint8(0), bit)
				}
			}
		})
	}
}

func TestRead_StrobeActive_ShouldReturnButtonAState(t *testing.T) {
	controller := New(zap.NewNop())
	controller.SetButtons(uint8(ButtonA | ButtonB))
	controller.Write(1)

	assert.Equal(t, []uint8{1, 1, 1}, readReport(controller, 3))

	controller.SetButton(ButtonA, false)
	assert.Equal(t, uint8(0), controller.Read(), "strobe high follows the live A state")
}

func TestRead_ButtonChangeAfterStrobe_ShouldUseSnapshot(t *testing.T) {
	controller := New(zap.NewNop())
	controller.SetButton(ButtonB, true)
	controller.Write(1)
	controller.Write(0)

	controller.SetButton(ButtonB, false)
	controller.SetButton(ButtonA, true)

	assert.Equal(t, []uint8{0, 1}, readReport(controller, 2))
}

func TestWrite_StrobeWithHigherBits_ShouldIgnoreHigherBits(t *testing.T) {
	controller := New(zap.NewNop())
	controller.SetButton(ButtonA, true)

	controller.Write(0xFE)
	assert.False(t, controller.strobe)

	controller.Write(0xFF)
	assert.True(t, controller.strobe)
}

func TestController_IncompleteReadSequence_ShouldRestartOnStrobe(t *testing.T) {
	controller := New(zap.NewNop())
	controller.SetButton(ButtonA, true)
	controller.Write(1)
	controller.Write(0)
	readReport(controller, 3)

	controller.Write(1)
	controller.Write(0)
	assert.Equal(t, uint8(1), controller.Read())
}

func TestReset_ShouldClearAllState(t *testing.T) {
	controller := New(zap.NewNop())
	controller.SetButtons(0xFF)
	controller.Write(1)

	controller.Reset()

	assert.Zero(t, controller.buttons)
	assert.False(t, controller.strobe)
	controller.Write(1)
	controller.Write(0)
	assert.Equal(t, make([]uint8, buttonCount), readReport(controller, buttonCount))
}

func TestInputState_SetButtons_RoutesPerPort(t *testing.T) {
	state := NewInputState(zap.NewNop())

	state.SetButtons([2]uint8{uint8(ButtonStart), uint8(ButtonLeft)})

	assert.True(t, state.Controller1.IsPressed(ButtonStart))
	assert.False(t, state.Controller1.IsPressed(ButtonLeft))
	assert.True(t, state.Controller2.IsPressed(ButtonLeft))

	state.Reset()
	assert.False(t, state.Controller1.IsPressed(ButtonStart))
	assert.False(t, state.Controller2.IsPressed(ButtonLeft))
}

func BenchmarkController_ReadSequence(b *testing.B) {
	controller := New(zap.NewNop())
	controller.SetButtons(0xA5)
	for i := 0; i < b.N; i++ {
		controller.Write(1)
		controller.Write(0)
		for j := 0; j < buttonCount; j++ {
			controller.Read()
		}
	}
}
