// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package serial drives a 16550 UART with interrupt driven transmit and
// receive.
package serial

import (
	"iter"
	"log"

	"github.com/ezrec/runtimeos/host"
	"github.com/ezrec/runtimeos/internal"
)

const (
	COM1_PORT = 0x3F8 // Base port of the first serial line.
	COM1_IRQ  = 4     // Interrupt line of the first serial line.

	CMOS_INDEX  = 0x70 // CMOS index port, bit 7 masks NMI.
	NMI_DISABLE = 0x80

	PIC1_COMMAND = 0x20
	PIC1_DATA    = 0x21
	PIC2_COMMAND = 0xA0
	PIC2_DATA    = 0xA1

	ICW1_INIT    = 0x11 // Initialize, ICW4 follows.
	PIC1_VECTOR  = 0x40 // IRQ 0-7 become vectors 0x40-0x47.
	PIC2_VECTOR  = 0x48 // IRQ 8-15 become vectors 0x48-0x4F.
	ICW3_MASTER  = 0x04 // Slave PIC on IRQ 2.
	ICW3_SLAVE   = 0x02 // Cascade identity.
	ICW4_8086    = 0x01
	PIC_MASK_ALL = 0xFF

	LCR_8N1     = 0x03 // 8 data bits, no parity, 1 stop bit.
	FCR_INIT    = 0x03 // Enable and clear FIFO, 1 byte trigger.
	MCR_INIT    = 0x0B // DTR, RTS and OUT2 (interrupt output).
	IER_ALL     = 0x0F // All four interrupt sources.
	IIR_PENDING = 0x01 // Clear when an interrupt is pending.
	IIR_CAUSE   = 0x0E
	IIR_TIMEOUT = 0x0C // FIFO character timeout.

	DIVISOR_DEFAULT = 1 // 115200 baud.
)

var _serial_defines = map[string]int{
	"COM1_PORT":    COM1_PORT,
	"COM1_IRQ":     COM1_IRQ,
	"PIC1_VECTOR":  PIC1_VECTOR,
	"PIC2_VECTOR":  PIC2_VECTOR,
	"UART_DATA":    host.UART_DATA,
	"UART_IER":     host.UART_IER,
	"UART_IIR":     host.UART_IIR,
	"UART_LCR":     host.UART_LCR,
	"UART_MCR":     host.UART_MCR,
	"UART_LSR":     host.UART_LSR,
	"UART_MSR":     host.UART_MSR,
	"UART_CLOCK":   host.UART_CLOCK,
	"CMOS_INDEX":   CMOS_INDEX,
	"PIC1_COMMAND": PIC1_COMMAND,
	"PIC2_COMMAND": PIC2_COMMAND,
}

// Driver is an interrupt driven UART driver.
//
// Write queues bytes and HandleInterrupt sends them one at a time as the
// transmitter empties. Both must be called from the same goroutine, or with
// the interrupt handler never running concurrently with Write.
type Driver struct {
	Verbose bool   // If set, logs interrupts.
	Port    uint16 // Base port.
	Divisor uint16 // Baud rate divisor.
	Ports   host.Ports

	queue   internal.Queue[byte]
	receive func(value byte)
}

// NewDriver creates a driver for COM1.
func NewDriver(ports host.Ports) (drv *Driver) {
	drv = &Driver{
		Port:    COM1_PORT,
		Divisor: DIVISOR_DEFAULT,
		Ports:   ports,
	}

	return
}

// Defines returns an iter of the driver's constants.
func (drv *Driver) Defines() iter.Seq2[string, int] {
	return internal.SortedDefines(_serial_defines)
}

func (drv *Driver) out(offset uint16, value uint8) {
	drv.Ports.Out(drv.Port+offset, value)
}

func (drv *Driver) in(offset uint16) uint8 {
	return drv.Ports.In(drv.Port + offset)
}

// Init programs the interrupt controllers and the UART. Received bytes are
// passed to receive from HandleInterrupt.
func (drv *Driver) Init(receive func(value byte)) {
	drv.receive = receive
	drv.queue.Reset()

	ports := drv.Ports
	ports.Out(CMOS_INDEX, ports.In(CMOS_INDEX)|NMI_DISABLE)

	ports.Out(PIC1_COMMAND, ICW1_INIT)
	ports.Out(PIC2_COMMAND, ICW1_INIT)
	ports.Out(PIC1_DATA, PIC1_VECTOR)
	ports.Out(PIC2_DATA, PIC2_VECTOR)
	ports.Out(PIC1_DATA, ICW3_MASTER)
	ports.Out(PIC2_DATA, ICW3_SLAVE)
	ports.Out(PIC1_DATA, ICW4_8086)
	ports.Out(PIC2_DATA, ICW4_8086)

	ports.Out(PIC1_DATA, PIC_MASK_ALL)
	ports.Out(PIC2_DATA, PIC_MASK_ALL)

	drv.out(host.UART_IER, 0x00)
	drv.out(host.UART_LCR, host.LCR_DLAB)
	drv.out(host.UART_DATA, uint8(drv.Divisor))
	drv.out(host.UART_IER, uint8(drv.Divisor>>8))
	drv.out(host.UART_LCR, LCR_8N1)
	drv.out(host.UART_IIR, FCR_INIT)
	drv.out(host.UART_MCR, MCR_INIT)

	drv.out(host.UART_IER, IER_ALL)
}

// Pending returns the number of bytes waiting to be sent.
func (drv *Driver) Pending() int {
	return drv.queue.Len()
}

// Write queues data for transmission. If nothing was queued, the first byte
// is written to the transmitter immediately; the transmitter is assumed to be
// ready.
func (drv *Driver) Write(data []byte) (n int, err error) {
	idle := drv.queue.Empty()

	for _, value := range data {
		drv.queue.Push(value)
	}

	if idle {
		if value, ok := drv.queue.Pop(); ok {
			drv.out(host.UART_DATA, value)
		}
	}

	return len(data), nil
}

// WriteString queues a string for transmission.
func (drv *Driver) WriteString(s string) (n int, err error) {
	return drv.Write([]byte(s))
}

// HandleInterrupt services one UART interrupt.
func (drv *Driver) HandleInterrupt() {
	iir := drv.in(host.UART_IIR)
	if iir&IIR_PENDING != 0 {
		return
	}

	if drv.Verbose {
		log.Printf("serial: iir %#02x, %d queued", iir, drv.queue.Len())
	}

	switch iir & IIR_CAUSE {
	case host.IIR_MODEM:
		drv.in(host.UART_MSR)
	case host.IIR_THRE:
		if value, ok := drv.queue.Pop(); ok {
			drv.out(host.UART_DATA, value)
		} else {
			drv.in(host.UART_IIR)
		}
	case host.IIR_DATA, IIR_TIMEOUT:
		drv.deliver(drv.in(host.UART_DATA))
	case host.IIR_LINE:
		if drv.in(host.UART_LSR)&host.LSR_DATA != 0 {
			drv.deliver(drv.in(host.UART_DATA))
		}
	}
}

func (drv *Driver) deliver(value byte) {
	if drv.receive != nil {
		drv.receive(value)
	}
}
