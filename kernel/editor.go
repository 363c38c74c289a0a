package kernel

import (
	"fmt"
	"strings"

	"github.com/ezrec/runtimeos/console"
	"github.com/ezrec/runtimeos/keymap"
	"github.com/ezrec/runtimeos/serial"
)

const (
	SERIAL_BACKSPACE = 0x08
	SERIAL_DELETE    = 0x7F
)

// mirror copies console output to the serial line, with CRLF line endings.
type mirror struct {
	console *console.Console
	serial  *serial.Driver
}

func (m *mirror) Write(p []byte) (n int, err error) {
	n, err = m.console.Write(p)
	if err != nil {
		return
	}

	_, err = m.serial.WriteString(strings.ReplaceAll(string(p), "\n", "\r\n"))
	return
}

func (k *Kernel) print(msg string) {
	fmt.Fprintln(k.Output, msg)
}

// Prompt writes the line editor prompt.
func (k *Kernel) Prompt() {
	fmt.Fprint(k.Output, k.Config.Console.Prompt)
}

// Keystroke handles a raw keyboard scancode.
func (k *Kernel) Keystroke(code uint8) {
	k.edit(keymap.Translate(code))
}

// receive handles a byte from the serial line.
func (k *Kernel) receive(value byte) {
	switch {
	case value == '\r', value == '\n':
		k.edit(keymap.KEY_ENTER)
	case value == SERIAL_BACKSPACE, value == SERIAL_DELETE:
		k.edit(keymap.KEY_BACKSPACE)
	case value >= ' ' && value < SERIAL_DELETE:
		k.edit(rune(value))
	}
}

func (k *Kernel) edit(r rune) {
	switch r {
	case 0:
	case keymap.KEY_BACKSPACE:
		if len(k.line) == 0 {
			return
		}
		k.line = k.line[:len(k.line)-1]
		k.Console.Backspace()
		if k.Config.Serial.Mirror {
			k.Serial.WriteString("\b \b")
		}
	case keymap.KEY_ENTER:
		k.submit()
	default:
		k.line = append(k.line, r)
		fmt.Fprint(k.Output, string(r))
	}
}

// submit evaluates the line being edited and shows the result.
func (k *Kernel) submit() {
	text := string(k.line)
	k.line = k.line[:0]

	fmt.Fprintln(k.Output)

	if strings.TrimSpace(text) != "" {
		display, err := k.Evaluator.Evaluate(text)
		switch {
		case err != nil:
			fmt.Fprintln(k.Output, err.Error())
		case display != "":
			fmt.Fprintln(k.Output, display)
		}
	}

	k.Prompt()
}
