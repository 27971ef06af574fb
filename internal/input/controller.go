// Package input implements the standard NES controller.
package input

import (
	"go.uber.org/zap"
)

// Button is a bit in the controller report, in shift order.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// buttonCount is the length of the report before it wraps.
const buttonCount = 8

var buttonNames = [buttonCount]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	for i, name := range buttonNames {
		if b == 1<<i {
			return name
		}
	}
	return "unknown"
}

// Controller is a strobe latched shift register over eight buttons.
type Controller struct {
	// Live button state, bit 0 is A.
	buttons uint8

	// Snapshot latched by the last strobe.
	snapshot uint8
	index    uint8
	strobe   bool

	logger *zap.Logger
}

// New creates a controller with no buttons pressed.
func New(logger *zap.Logger) *Controller {
	return &Controller{logger: logger}
}

// SetButton sets the state of a single button.
func (c *Controller) SetButton(button Button, pressed bool) {
	buttons := c.buttons
	if pressed {
		buttons |= uint8(button)
	} else {
		buttons &^= uint8(button)
	}
	c.SetButtons(buttons)
}

// SetButtons replaces the whole button state, bit 0 is A and bit 7 is Right.
func (c *Controller) SetButtons(buttons uint8) {
	if buttons != c.buttons {
		c.logger.Debug("buttons changed",
			zap.Uint8("old", c.buttons),
			zap.Uint8("new", buttons))
	}
	c.buttons = buttons
}

// IsPressed returns true if the button is currently pressed
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles the strobe register. Bit 0 set latches the buttons and
// rewinds the report.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.snapshot = c.buttons
		c.index = 0
	}
}

// Read returns the next report bit in bit 0. While strobe is held high every
// read returns button A. After RIGHT the report starts over with A.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.index = 0
		return c.buttons & 1
	}
	value := (c.snapshot >> c.index) & 1
	c.index = (c.index + 1) % buttonCount
	return value
}

// Reset releases all buttons and clears the strobe latch.
func (c *Controller) Reset() {
	c.buttons = 0
	c.snapshot = 0
	c.index = 0
	c.strobe = false
}

// InputState holds the two controller ports.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates a new input state with two controllers
func NewInputState(logger *zap.Logger) *InputState {
	return &InputState{
		Controller1: New(logger.Named("port1")),
		Controller2: New(logger.Named("port2")),
	}
}

// SetButtons applies one button byte per port.
func (is *InputState) SetButtons(buttons [2]uint8) {
	is.Controller1.SetButtons(buttons[0])
	is.Controller2.SetButtons(buttons[1])
}

// Reset resets all input devices
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}
