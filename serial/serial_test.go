package serial

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/runtimeos/config"
	"github.com/ezrec/runtimeos/host"
)

type portWrite struct {
	port  uint16
	value uint8
}

type mockPorts struct {
	writes []portWrite
	reads  []uint16
	values map[uint16][]uint8
}

func (mp *mockPorts) In(port uint16) (value uint8) {
	mp.reads = append(mp.reads, port)
	if queued := mp.values[port]; len(queued) > 0 {
		value = queued[0]
		mp.values[port] = queued[1:]
	}
	return
}

func (mp *mockPorts) Out(port uint16, value uint8) {
	mp.writes = append(mp.writes, portWrite{port, value})
}

func (mp *mockPorts) queue(port uint16, values ...uint8) {
	if mp.values == nil {
		mp.values = map[uint16][]uint8{}
	}
	mp.values[port] = append(mp.values[port], values...)
}

func TestDriver_Init(t *testing.T) {
	assert := assert.New(t)

	mp := &mockPorts{}
	mp.queue(CMOS_INDEX, 0x0D)

	drv := NewDriver(mp)
	drv.Init(nil)

	assert.Equal([]portWrite{
		{0x70, 0x8D},
		{0x20, 0x11}, {0xA0, 0x11},
		{0x21, 0x40}, {0xA1, 0x48},
		{0x21, 0x04}, {0xA1, 0x02},
		{0x21, 0x01}, {0xA1, 0x01},
		{0x21, 0xFF}, {0xA1, 0xFF},
		{0x3F9, 0x00},
		{0x3FB, 0x80},
		{0x3F8, 0x01},
		{0x3F9, 0x00},
		{0x3FB, 0x03},
		{0x3FA, 0x03},
		{0x3FC, 0x0B},
		{0x3F9, 0x0F},
	}, mp.writes)
}

func TestDriver_InitDivisor(t *testing.T) {
	assert := assert.New(t)

	mp := &mockPorts{}
	drv := NewDriver(mp)
	drv.Port = 0x2F8
	drv.Divisor = 0x0180
	drv.Init(nil)

	assert.Contains(mp.writes, portWrite{0x2F8, 0x80})
	assert.Contains(mp.writes, portWrite{0x2F9, 0x01})
	assert.Equal(portWrite{0x2F9, 0x0F}, mp.writes[len(mp.writes)-1])
}

func TestDriver_Write(t *testing.T) {
	assert := assert.New(t)

	mp := &mockPorts{}
	drv := NewDriver(mp)

	n, err := drv.WriteString("ab")
	assert.NoError(err)
	assert.Equal(2, n)

	// Exactly one direct write for the first byte.
	assert.Equal([]portWrite{{0x3F8, 'a'}}, mp.writes)
	assert.Equal(1, drv.Pending())

	// A busy queue does not write directly.
	drv.WriteString("c")
	assert.Len(mp.writes, 1)
	assert.Equal(2, drv.Pending())

	mp.queue(0x3FA, host.IIR_THRE, host.IIR_THRE, host.IIR_THRE)
	drv.HandleInterrupt()
	assert.Equal(portWrite{0x3F8, 'b'}, mp.writes[1])
	drv.HandleInterrupt()
	assert.Equal(portWrite{0x3F8, 'c'}, mp.writes[2])
	assert.Equal(0, drv.Pending())

	// Empty queue: acknowledge by reading the IIR again.
	mp.reads = nil
	drv.HandleInterrupt()
	assert.Len(mp.writes, 3)
	assert.Equal([]uint16{0x3FA, 0x3FA}, mp.reads)
}

func TestDriver_Write_Empty(t *testing.T) {
	assert := assert.New(t)

	mp := &mockPorts{}
	drv := NewDriver(mp)
	drv.Write(nil)

	assert.Empty(mp.writes)
	assert.Equal(0, drv.Pending())
}

func TestDriver_HandleInterrupt(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name     string
		iir      uint8
		lsr      uint8
		reads    []uint16
		received []byte
	}{
		{"none pending", host.IIR_NONE, 0, []uint16{0x3FA}, nil},
		{"modem status", host.IIR_MODEM, 0, []uint16{0x3FA, 0x3FE}, nil},
		{"data", host.IIR_DATA, 0, []uint16{0x3FA, 0x3F8}, []byte{'z'}},
		{"data with fifo", host.IIR_FIFO | host.IIR_DATA, 0, []uint16{0x3FA, 0x3F8}, []byte{'z'}},
		{"timeout", host.IIR_FIFO | IIR_TIMEOUT, 0, []uint16{0x3FA, 0x3F8}, []byte{'z'}},
		{"line status data", host.IIR_LINE, host.LSR_DATA, []uint16{0x3FA, 0x3FD, 0x3F8}, []byte{'z'}},
		{"line status idle", host.IIR_LINE, host.LSR_THRE, []uint16{0x3FA, 0x3FD}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := &mockPorts{}
			mp.queue(0x3FA, tt.iir)
			mp.queue(0x3FD, tt.lsr)
			mp.queue(0x3F8, 'z')

			var received []byte
			drv := NewDriver(mp)
			drv.Init(func(value byte) { received = append(received, value) })
			mp.reads = nil
			mp.writes = nil

			drv.HandleInterrupt()
			assert.Equal(tt.reads, mp.reads)
			assert.Equal(tt.received, received)
			assert.Empty(mp.writes)
		})
	}
}

func TestDriver_Machine(t *testing.T) {
	assert := assert.New(t)

	m := host.NewMachine(config.Default())
	out := &bytes.Buffer{}
	m.Uart.Output = out

	var received []byte
	drv := NewDriver(m)
	drv.Init(func(value byte) { received = append(received, value) })

	assert.Equal(115200, m.Uart.Baud())
	assert.Equal(uint8(0x0F), m.Uart.Ier)

	service := func() {
		for line, ok := m.Poll(); ok; line, ok = m.Poll() {
			assert.Equal(COM1_IRQ, line)
			drv.HandleInterrupt()
		}
	}

	// Enabling the interrupts raised THRE with nothing queued.
	service()
	assert.Empty(out.String())

	drv.WriteString("hello")
	assert.Equal("h", out.String())
	service()
	assert.Equal("hello", out.String())
	assert.Equal(0, drv.Pending())

	m.Receive([]byte("ok"))
	service()
	assert.Equal("ok", string(received))
}

func TestDriver_Defines(t *testing.T) {
	assert := assert.New(t)

	drv := NewDriver(&mockPorts{})
	defines := map[string]int{}
	for key, value := range drv.Defines() {
		defines[key] = value
	}

	assert.Equal(COM1_PORT, defines["COM1_PORT"])
	assert.Equal(host.UART_LSR, defines["UART_LSR"])
}
