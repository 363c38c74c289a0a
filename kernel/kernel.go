// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package kernel is the cooperative event loop tying the console, the
// keyboard, the serial line and the script evaluator together.
package kernel

import (
	"context"
	"io"
	"iter"
	"log"

	"github.com/ezrec/runtimeos/config"
	"github.com/ezrec/runtimeos/console"
	"github.com/ezrec/runtimeos/host"
	"github.com/ezrec/runtimeos/internal"
	"github.com/ezrec/runtimeos/loader"
	"github.com/ezrec/runtimeos/script"
	"github.com/ezrec/runtimeos/serial"
)

// Evaluator evaluates a line of text for the console.
type Evaluator interface {
	Evaluate(text string) (display string, err error)
}

type timer struct {
	callback  func()
	remaining int
}

// Kernel is the device context: it owns every driver and runs the loop
// servicing them. All methods must be called from the same goroutine.
type Kernel struct {
	Verbose bool // If set, logs interrupts and boot progress.

	Host   host.Host
	Config config.Config

	Console   *console.Console
	Serial    *serial.Driver
	Loader    *loader.Loader
	Executor  *script.Executor
	Session   *script.Session
	Evaluator Evaluator

	Output io.Writer // Console output, mirrored to the serial line if configured.

	line       []rune
	timers     []*timer
	immediates internal.Queue[func()]
	handlers   map[int]func()
	ticks      int
}

// NewKernel creates a kernel on a host. The framebuffer is mapped from the
// host memory; the serial line is not programmed until Boot.
func NewKernel(h host.Host, cfg config.Config) (k *Kernel, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	view, err := h.Map(cfg.Console.Base, cfg.FramebufferSize())
	if err != nil {
		return
	}

	k = &Kernel{
		Verbose:  cfg.Verbose,
		Host:     h,
		Config:   cfg,
		Console:  console.NewConsole(view, cfg.Console.Cols),
		Serial:   serial.NewDriver(h),
		handlers: map[int]func(){},
	}

	k.Console.Color = cfg.Console.Color

	k.Serial.Verbose = cfg.Verbose
	k.Serial.Port = cfg.Serial.Port
	k.Serial.Divisor = cfg.Serial.Divisor
	k.handlers[cfg.Serial.IRQ] = k.Serial.HandleInterrupt

	k.Output = k.Console
	if cfg.Serial.Mirror {
		k.Output = &mirror{console: k.Console, serial: k.Serial}
	}

	k.Executor = script.NewExecutor(k.print)
	k.Executor.Verbose = cfg.Verbose

	k.Loader = loader.NewLoader(h, k.Executor)
	k.Loader.Verbose = cfg.Verbose

	k.Session = script.NewSession(k.Executor, k.Globals())
	k.Evaluator = k.Session

	return
}

// Defines returns an iter of the kernel and driver constants.
func (k *Kernel) Defines() iter.Seq2[string, int] {
	cfg := &k.Config
	defines := map[string]int{
		"CONSOLE_BASE":  int(cfg.Console.Base),
		"CONSOLE_ROWS":  cfg.Console.Rows,
		"CONSOLE_COLS":  cfg.Console.Cols,
		"KEYBOARD_PORT": int(cfg.Keyboard.Port),
		"KEYBOARD_IRQ":  cfg.Keyboard.IRQ,
		"SERIAL_PORT":   int(cfg.Serial.Port),
		"SERIAL_IRQ":    cfg.Serial.IRQ,
		"REGISTER_CR3":  host.REGISTER_CR3,
		"REGISTER_RAX":  host.REGISTER_RAX,
	}

	return internal.IterSeq2Concat(internal.SortedDefines(defines),
		k.Serial.Defines(),
	)
}

// Ticks returns the number of loop iterations run.
func (k *Kernel) Ticks() int {
	return k.ticks
}

// Line returns the text being edited.
func (k *Kernel) Line() string {
	return string(k.line)
}

// SetTimeout runs callback once, on the ticks'th following iteration.
func (k *Kernel) SetTimeout(callback func(), ticks int) {
	k.timers = append(k.timers, &timer{callback: callback, remaining: ticks})
}

// SetImmediate runs callback on the next drain of the immediate queue.
func (k *Kernel) SetImmediate(callback func()) {
	k.immediates.Push(callback)
}

// HandleIRQ routes an interrupt line to a handler, replacing any previous
// handler. The keyboard line cannot be rerouted.
func (k *Kernel) HandleIRQ(line int, handler func()) (err error) {
	if line == k.Config.Keyboard.IRQ {
		err = ErrIRQReserved
		return
	}

	if handler == nil {
		delete(k.handlers, line)
	} else {
		k.handlers[line] = handler
	}

	return
}

// Interrupt services an interrupt line.
func (k *Kernel) Interrupt(line int) {
	if k.Verbose {
		log.Printf("kernel: irq %v", line)
	}

	if line == k.Config.Keyboard.IRQ {
		k.Keystroke(k.Host.In(k.Config.Keyboard.Port))
		return
	}

	handler, ok := k.handlers[line]
	if !ok {
		if k.Verbose {
			log.Printf("kernel: irq %v: no handler", line)
		}
		return
	}

	handler()
}

// Tick runs one iteration of the loop: due timers, then the immediate queue,
// then at most one pending interrupt. Returns true if anything ran.
func (k *Kernel) Tick() (busy bool) {
	k.ticks++

	timers := k.timers
	k.timers = nil

	var due []func()
	for _, t := range timers {
		t.remaining--
		if t.remaining <= 0 {
			due = append(due, t.callback)
		} else {
			k.timers = append(k.timers, t)
		}
	}

	for _, callback := range due {
		callback()
	}

	immediates := k.immediates.Take()
	for _, callback := range immediates {
		callback()
	}

	line, ok := k.Host.Poll()
	if ok {
		k.Interrupt(line)
	}

	busy = len(due) > 0 || len(immediates) > 0 || ok
	return
}

// Run runs the loop until the context is done.
func (k *Kernel) Run(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		k.Tick()
	}
}
