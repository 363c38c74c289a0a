package host

import (
	"github.com/ezrec/runtimeos/internal"
)

const (
	KEYBOARD_STATUS_OUTPUT = 0x01 // Status bit: a scancode is waiting.
)

// Keyboard is a PS/2 controller. Reading the data port returns the next
// scancode; the status port reports whether one is waiting.
type Keyboard struct {
	IRQ      int
	DataPort uint16

	codes internal.Queue[uint8]
	last  uint8
	raise func(line int)
}

var _ Device = (*Keyboard)(nil)

func (kbd *Keyboard) press(code uint8) {
	kbd.codes.Push(code)
	if kbd.raise != nil {
		kbd.raise(kbd.IRQ)
	}
}

// In reads the data or status port.
func (kbd *Keyboard) In(port uint16) (value uint8) {
	if port != kbd.DataPort {
		if !kbd.codes.Empty() {
			value |= KEYBOARD_STATUS_OUTPUT
		}
		return
	}

	// An empty buffer repeats the last scancode, like the real controller.
	if code, ok := kbd.codes.Pop(); ok {
		kbd.last = code
	}

	return kbd.last
}

// Out ignores controller commands.
func (kbd *Keyboard) Out(port uint16, value uint8) {
}
