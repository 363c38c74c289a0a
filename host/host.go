// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package host defines the hardware primitives the console stack is built on,
// and provides a simulated PC (Machine) implementing them.
//
// Every primitive is synchronous and returns immediately. Port I/O and input
// polling have no error path; mapping memory and loading assets can fail.
package host

// Ports reads and writes numbered I/O ports.
type Ports interface {
	// In reads a byte from a port.
	In(port uint16) uint8
	// Out writes a byte to a port.
	Out(port uint16, value uint8)
}

// Registers reads CPU registers by index, for diagnostics.
type Registers interface {
	Register(index int) uint64
}

// Memory maps a range of physical memory.
type Memory interface {
	// Map returns a mutable view of length bytes at physical address base.
	Map(base uint64, length int) (view []byte, err error)
}

// Input polls for pending hardware events.
type Input interface {
	// Poll returns the interrupt line of the oldest pending event.
	Poll() (line int, ok bool)
}

// Assets loads named assets from the boot image.
type Assets interface {
	// Load returns the contents of the asset at an absolute path.
	Load(path string) (data []byte, err error)
}

// Host is the full set of primitives.
type Host interface {
	Ports
	Registers
	Memory
	Input
	Assets
}

// Device is a peripheral attached to a range of I/O ports.
type Device interface {
	Ports
}
