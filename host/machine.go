// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package host

import (
	"io/fs"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/ezrec/runtimeos/config"
	"github.com/ezrec/runtimeos/internal"
)

const (
	REGISTER_COUNT = 64 // Size of the simulated register file.
	REGISTER_CR3   = 13 // Index of the page table base register.
	REGISTER_RAX   = 50 // Index of the accumulator.
)

// Region is a range of physical memory.
type Region struct {
	Base uint64
	Data []byte
}

// PortAccess is a traced port read or write.
type PortAccess struct {
	Port  uint16
	Value uint8
	Write bool
}

// Machine is a simulated PC implementing Host. Ports with no device attached
// latch the last value written to them.
//
// The kernel calls Machine from a single goroutine. Press and Receive may be
// called from any goroutine.
type Machine struct {
	Verbose bool // If set, logs port accesses.
	Trace   bool // If set, records port accesses in Accesses.

	Accesses  []PortAccess
	Registers [REGISTER_COUNT]uint64
	Assets    fs.FS // Boot image.

	Keyboard Keyboard
	Uart     Uart

	mutex   sync.Mutex
	latch   map[uint16]uint8
	devices map[uint16]Device
	regions []*Region
	irq     internal.Queue[int]
}

var _ Host = (*Machine)(nil)

// NewMachine creates a machine with a framebuffer, a keyboard and a UART
// placed as described by the configuration. A configuration that does not
// pass Validate panics with the validation error.
func NewMachine(cfg config.Config) (m *Machine) {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	m = &Machine{
		latch:   map[uint16]uint8{},
		devices: map[uint16]Device{},
	}

	m.Keyboard.IRQ = cfg.Keyboard.IRQ
	m.Keyboard.DataPort = cfg.Keyboard.Port
	m.Keyboard.raise = m.raise
	m.Attach(cfg.Keyboard.Port, 1, &m.Keyboard)
	m.Attach(cfg.Keyboard.Status, 1, &m.Keyboard)

	m.Uart.IRQ = cfg.Serial.IRQ
	m.Uart.Base = cfg.Serial.Port
	m.Uart.raise = m.raise
	m.Attach(cfg.Serial.Port, UART_PORTS, &m.Uart)

	m.AddRegion(cfg.Console.Base, cfg.FramebufferSize())

	return
}

// Attach places a device on count ports starting at port.
func (m *Machine) Attach(port uint16, count int, dev Device) (err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for n := range count {
		if _, busy := m.devices[port+uint16(n)]; busy {
			return ErrPortBusy
		}
	}

	for n := range count {
		m.devices[port+uint16(n)] = dev
	}

	return
}

// AddRegion backs a physical memory range with zeroed memory.
func (m *Machine) AddRegion(base uint64, size int) (region *Region) {
	region = &Region{Base: base, Data: make([]byte, size)}
	m.regions = append(m.regions, region)
	return
}

// In reads a port.
func (m *Machine) In(port uint16) (value uint8) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if dev, ok := m.devices[port]; ok {
		value = dev.In(port)
	} else {
		value = m.latch[port]
	}

	m.trace(PortAccess{Port: port, Value: value})

	return
}

// Out writes a port.
func (m *Machine) Out(port uint16, value uint8) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if dev, ok := m.devices[port]; ok {
		dev.Out(port, value)
	} else {
		m.latch[port] = value
	}

	m.trace(PortAccess{Port: port, Value: value, Write: true})
}

func (m *Machine) trace(access PortAccess) {
	if m.Trace {
		m.Accesses = append(m.Accesses, access)
	}
	if m.Verbose {
		op := "in"
		if access.Write {
			op = "out"
		}
		log.Printf("%v %#04x %#02x", op, access.Port, access.Value)
	}
}

// Register returns a register from the register file, or zero.
func (m *Machine) Register(index int) uint64 {
	if index < 0 || index >= len(m.Registers) {
		return 0
	}

	return m.Registers[index]
}

// Map returns a view of a physical memory range.
func (m *Machine) Map(base uint64, length int) (view []byte, err error) {
	for _, region := range m.regions {
		if base < region.Base || length < 0 {
			continue
		}
		offset := base - region.Base
		if offset+uint64(length) > uint64(len(region.Data)) {
			continue
		}
		view = region.Data[offset : offset+uint64(length) : offset+uint64(length)]
		return
	}

	err = &ErrUnmapped{Base: base, Length: length}
	return
}

// Poll returns the next pending interrupt line.
func (m *Machine) Poll() (line int, ok bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.irq.Pop()
}

// raise queues an interrupt. The mutex must be held.
func (m *Machine) raise(line int) {
	m.irq.Push(line)
}

// Raise queues an interrupt on a line.
func (m *Machine) Raise(line int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.raise(line)
}

// Press queues keyboard scancodes.
func (m *Machine) Press(codes ...uint8) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, code := range codes {
		m.Keyboard.press(code)
	}
}

// Receive delivers bytes from the remote end of the serial line.
func (m *Machine) Receive(data []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, value := range data {
		m.Uart.receive(value)
	}
}

// Load reads an asset from the boot image by absolute path.
func (m *Machine) Load(name string) (data []byte, err error) {
	if m.Assets == nil {
		err = &ErrAsset{Path: name, Err: ErrNoAssets}
		return
	}

	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if !fs.ValidPath(clean) {
		err = &ErrAsset{Path: name, Err: ErrAssetPath}
		return
	}

	data, err = fs.ReadFile(m.Assets, clean)
	if err != nil {
		err = &ErrAsset{Path: name, Err: err}
		return
	}

	return
}
