// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package host

import (
	"io"

	"github.com/ezrec/runtimeos/config"
	"github.com/ezrec/runtimeos/internal"
)

// UART register offsets from the base port.
const (
	UART_DATA    = 0 // Receive/transmit buffer, divisor latch low with DLAB.
	UART_IER     = 1 // Interrupt enable, divisor latch high with DLAB.
	UART_IIR     = 2 // Interrupt identification (read), FIFO control (write).
	UART_LCR     = 3 // Line control.
	UART_MCR     = 4 // Modem control.
	UART_LSR     = 5 // Line status.
	UART_MSR     = 6 // Modem status.
	UART_SCRATCH = 7 // Scratch.
	UART_PORTS   = config.SERIAL_PORTS

	UART_CLOCK = 115200 // Baud rate at divisor 1.
)

// UART register bits.
const (
	IER_DATA   = 0x01 // Received data available.
	IER_THRE   = 0x02 // Transmit holding register empty.
	IER_LINE   = 0x04 // Receiver line status.
	IER_MODEM  = 0x08 // Modem status.
	IIR_NONE   = 0x01 // No interrupt pending.
	IIR_MODEM  = 0x00
	IIR_THRE   = 0x02
	IIR_DATA   = 0x04
	IIR_LINE   = 0x06
	IIR_FIFO   = 0xC0 // FIFOs enabled.
	FCR_ENABLE = 0x01
	FCR_CLEAR  = 0x02 // Clear the receive FIFO.
	LCR_DLAB   = 0x80
	LSR_DATA   = 0x01 // Data ready.
	LSR_THRE   = 0x20 // Transmit holding register empty.
	LSR_TEMT   = 0x40 // Transmitter empty.
)

// Uart is a 16550 compatible serial port. Transmitted bytes are written to
// Output; the remote end delivers bytes with Machine.Receive.
type Uart struct {
	IRQ    int
	Base   uint16
	Output io.Writer

	Divisor uint16
	Ier     uint8
	Lcr     uint8
	Mcr     uint8
	Fcr     uint8
	Msr     uint8
	Scratch uint8

	rx    internal.Queue[uint8]
	thre  bool // Transmit holding register empty interrupt pending.
	raise func(line int)
}

var _ Device = (*Uart)(nil)

// Baud returns the configured line rate.
func (uart *Uart) Baud() int {
	if uart.Divisor == 0 {
		return 0
	}
	return UART_CLOCK / int(uart.Divisor)
}

func (uart *Uart) interrupt(enable uint8) {
	if uart.Ier&enable != 0 && uart.raise != nil {
		uart.raise(uart.IRQ)
	}
}

func (uart *Uart) receive(value uint8) {
	uart.rx.Push(value)
	uart.interrupt(IER_DATA)
}

func (uart *Uart) dlab() bool {
	return uart.Lcr&LCR_DLAB != 0
}

// In reads a UART register.
func (uart *Uart) In(port uint16) (value uint8) {
	switch port - uart.Base {
	case UART_DATA:
		if uart.dlab() {
			return uint8(uart.Divisor)
		}
		value, _ = uart.rx.Pop()
	case UART_IER:
		if uart.dlab() {
			return uint8(uart.Divisor >> 8)
		}
		value = uart.Ier
	case UART_IIR:
		value = uart.identify()
	case UART_LCR:
		value = uart.Lcr
	case UART_MCR:
		value = uart.Mcr
	case UART_LSR:
		value = LSR_THRE | LSR_TEMT
		if !uart.rx.Empty() {
			value |= LSR_DATA
		}
	case UART_MSR:
		value = uart.Msr
	case UART_SCRATCH:
		value = uart.Scratch
	}

	return
}

// identify reports the highest priority pending interrupt. Reporting a
// transmit holding register empty interrupt acknowledges it.
func (uart *Uart) identify() (value uint8) {
	switch {
	case uart.Ier&IER_DATA != 0 && !uart.rx.Empty():
		value = IIR_DATA
	case uart.Ier&IER_THRE != 0 && uart.thre:
		value = IIR_THRE
		uart.thre = false
	default:
		value = IIR_NONE
	}

	if uart.Fcr&FCR_ENABLE != 0 {
		value |= IIR_FIFO
	}

	return
}

// Out writes a UART register.
func (uart *Uart) Out(port uint16, value uint8) {
	switch port - uart.Base {
	case UART_DATA:
		if uart.dlab() {
			uart.Divisor = uart.Divisor&0xFF00 | uint16(value)
			return
		}
		if uart.Output != nil {
			uart.Output.Write([]byte{value})
		}
		uart.thre = true
		uart.interrupt(IER_THRE)
	case UART_IER:
		if uart.dlab() {
			uart.Divisor = uart.Divisor&0x00FF | uint16(value)<<8
			return
		}
		enabled := value &^ uart.Ier
		uart.Ier = value & 0x0F
		// The holding register is empty, so enabling its interrupt fires it.
		if enabled&IER_THRE != 0 {
			uart.thre = true
			uart.interrupt(IER_THRE)
		}
	case UART_IIR:
		uart.Fcr = value
		if value&FCR_CLEAR != 0 {
			uart.rx.Reset()
		}
	case UART_LCR:
		uart.Lcr = value
	case UART_MCR:
		uart.Mcr = value
	case UART_SCRATCH:
		uart.Scratch = value
	}
}
