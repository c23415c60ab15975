package chip8

import (
	"errors"
	"fmt"
)

const (
	/// MemorySize is the number of bytes addressable by CHIP-8.
	///
	MemorySize = 0x1000

	/// AddressMask reduces any computed address into the heap.
	///
	AddressMask = MemorySize - 1

	/// ProgramOrigin is where all programs are loaded and begin.
	///
	ProgramOrigin = 0x200

	/// StackWarnDepth is the depth of the original 1802 interpreter's stack.
	/// Going deeper than this works, but almost always means a program bug.
	///
	StackWarnDepth = 16
)

var (
	/// ErrStackUnderflow is returned when returning with an empty stack.
	///
	ErrStackUnderflow = errors.New("stack underflow")

	/// ErrProgramTooLarge is returned when a program doesn't fit in memory.
	///
	ErrProgramTooLarge = errors.New("program too large to fit in memory")
)

/// Memory is the 4K heap and the call stack of the CHIP-8.
///
type Memory struct {
	/// Heap is all the memory addressable by CHIP-8 instructions. The
	/// first 512 bytes are reserved for the font sprites.
	///
	Heap [MemorySize]byte

	/// Stack holds return addresses. Unlike the 1802 interpreter, it
	/// is not stored in the heap and isn't limited to 16 entries.
	///
	Stack []uint16
}

/// NewMemory returns memory with the font loaded.
///
func NewMemory() *Memory {
	m := &Memory{
		Stack: make([]uint16, 0, StackWarnDepth),
	}

	// fonts are always present
	copy(m.Heap[FontAddress:], Font[:])

	return m
}

/// Read a single byte of memory.
///
func (m *Memory) Read(address uint16) byte {
	return m.Heap[address&AddressMask]
}

/// Write a single byte of memory.
///
func (m *Memory) Write(address uint16, b byte) {
	m.Heap[address&AddressMask] = b
}

/// Word returns the big-endian 16-bit value at address.
///
func (m *Memory) Word(address uint16) uint16 {
	return uint16(m.Read(address))<<8 | uint16(m.Read(address+1))
}

/// Load copies data into memory starting at origin.
///
func (m *Memory) Load(origin uint16, data []byte) error {
	if int(origin)+len(data) > MemorySize {
		return fmt.Errorf("%w: %d bytes at #%04X", ErrProgramTooLarge, len(data), origin)
	}

	copy(m.Heap[origin:], data)

	return nil
}

/// Slice returns n bytes starting at address. Reads past the end of
/// memory wrap back around to the beginning.
///
func (m *Memory) Slice(address uint16, n int) []byte {
	b := make([]byte, n)

	for i := range b {
		b[i] = m.Read(address + uint16(i))
	}

	return b
}

/// Push a return address onto the stack.
///
func (m *Memory) Push(address uint16) {
	m.Stack = append(m.Stack, address)
}

/// Pop the most recent return address off the stack.
///
func (m *Memory) Pop() (uint16, error) {
	n := len(m.Stack)
	if n == 0 {
		return 0, ErrStackUnderflow
	}

	address := m.Stack[n-1]
	m.Stack = m.Stack[:n-1]

	return address, nil
}

/// Depth is the number of return addresses on the stack.
///
func (m *Memory) Depth() int {
	return len(m.Stack)
}
