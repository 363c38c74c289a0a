// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config describes the simulated machine and how the kernel boots on it.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	PORT_SPACE   = 0x10000 // Number of I/O ports.
	SERIAL_PORTS = 8       // Ports decoded by the UART.
)

// Console configures the text mode framebuffer.
type Console struct {
	Base     uint64 `toml:"base"`     // Physical address of the framebuffer.
	Rows     int    `toml:"rows"`     // Rows of text.
	Cols     int    `toml:"cols"`     // Columns of text.
	Color    uint8  `toml:"color"`    // Default attribute.
	Banner   bool   `toml:"banner"`   // Draw the boot banner.
	Greeting string `toml:"greeting"` // Printed after the screen is cleared.
	Prompt   string `toml:"prompt"`   // Line editor prompt.
}

// Serial configures the UART.
type Serial struct {
	Port    uint16 `toml:"port"`    // Base I/O port.
	Divisor uint16 `toml:"divisor"` // Baud rate divisor of 115200.
	IRQ     int    `toml:"irq"`     // Interrupt line.
	Mirror  bool   `toml:"mirror"`  // Copy console output to the serial line.
}

// Keyboard configures the PS/2 controller.
type Keyboard struct {
	Port   uint16 `toml:"port"`   // Data port.
	Status uint16 `toml:"status"` // Status port.
	IRQ    int    `toml:"irq"`    // Interrupt line.
}

// Boot configures the kernel startup.
type Boot struct {
	Init string `toml:"init"` // Script run at boot, none if empty.
}

// Config is the complete machine description.
type Config struct {
	Verbose  bool     `toml:"verbose"`
	Locale   string   `toml:"locale"` // Overrides the message language.
	Console  Console  `toml:"console"`
	Serial   Serial   `toml:"serial"`
	Keyboard Keyboard `toml:"keyboard"`
	Boot     Boot     `toml:"boot"`
}

// Default returns the configuration of a standard PC: 80x25 text at
// 0xB8000, COM1 on IRQ 4, the keyboard on IRQ 1.
func Default() Config {
	return Config{
		Console: Console{
			Base:     0xB8000,
			Rows:     25,
			Cols:     80,
			Color:    0x0A,
			Greeting: "Welcome to Runtime",
			Prompt:   "runtime > ",
		},
		Serial: Serial{
			Port:    0x3F8,
			Divisor: 1,
			IRQ:     4,
		},
		Keyboard: Keyboard{
			Port:   0x60,
			Status: 0x64,
			IRQ:    1,
		},
	}
}

// FramebufferSize is the size in bytes of the framebuffer.
func (cfg *Config) FramebufferSize() int {
	return cfg.Console.Rows * cfg.Console.Cols * 2
}

func overlaps(a uint16, acount int, b uint16, bcount int) bool {
	return int(a) < int(b)+bcount && int(b) < int(a)+acount
}

// Validate checks the configuration for impossible values, including
// devices sharing I/O ports.
func (cfg *Config) Validate() (err error) {
	switch {
	case cfg.Console.Rows < 2:
		err = &ErrInvalid{Key: "console.rows", Value: cfg.Console.Rows}
	case cfg.Console.Cols < 1:
		err = &ErrInvalid{Key: "console.cols", Value: cfg.Console.Cols}
	case cfg.Serial.Divisor == 0:
		err = &ErrInvalid{Key: "serial.divisor", Value: cfg.Serial.Divisor}
	case cfg.Serial.IRQ == cfg.Keyboard.IRQ:
		err = &ErrInvalid{Key: "serial.irq", Value: cfg.Serial.IRQ}
	case int(cfg.Serial.Port)+SERIAL_PORTS > PORT_SPACE:
		err = &ErrInvalid{Key: "serial.port", Value: cfg.Serial.Port}
	case overlaps(cfg.Keyboard.Port, 1, cfg.Serial.Port, SERIAL_PORTS):
		err = &ErrInvalid{Key: "keyboard.port", Value: cfg.Keyboard.Port}
	case cfg.Keyboard.Status == cfg.Keyboard.Port,
		overlaps(cfg.Keyboard.Status, 1, cfg.Serial.Port, SERIAL_PORTS):
		err = &ErrInvalid{Key: "keyboard.status", Value: cfg.Keyboard.Status}
	}

	return
}

// Decode overlays TOML from r onto the configuration.
func (cfg *Config) Decode(r io.Reader) (err error) {
	meta, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		err = ErrUnknownKey(strings.Join(keys, ", "))
		return
	}

	return cfg.Validate()
}

// Load reads a TOML configuration file on top of the defaults.
func Load(path string) (cfg Config, err error) {
	cfg = Default()

	if len(path) == 0 {
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	err = cfg.Decode(inf)
	return
}
