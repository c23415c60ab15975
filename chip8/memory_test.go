package chip8

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestNewMemoryHasFont(t *testing.T) {
	m := NewMemory()

	if diff := cmp.Diff(Font[:], m.Heap[FontAddress:FontAddress+len(Font)]); diff != "" {
		t.Errorf("font: (-want, +got)\n%s", diff)
	}

	assert.Equal(t, uint16(FontAddress+5*0xA), GlyphAddress(0xA))
	assert.Equal(t, uint16(FontAddress+5*0xF), GlyphAddress(0xFF))
}

func TestMemoryLoad(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, false},
		{"fits", MemorySize - ProgramOrigin, false},
		{"too large", MemorySize - ProgramOrigin + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory()
			err := m.Load(ProgramOrigin, make([]byte, tt.size))

			assert.Equal(t, tt.wantErr, errors.Is(err, ErrProgramTooLarge))
		})
	}
}

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory()

	m.Write(0x300, 0x12)
	m.Write(0x301, 0x34)

	assert.Equal(t, byte(0x12), m.Read(0x300))
	assert.Equal(t, uint16(0x1234), m.Word(0x300))

	// addresses wrap into the heap
	m.Write(0x1FFF, 0xAB)
	assert.Equal(t, byte(0xAB), m.Read(0xFFF))
}

func TestMemorySliceWraps(t *testing.T) {
	m := NewMemory()

	m.Write(0xFFF, 0x11)

	assert.Equal(t, []byte{0x11, Font[0], Font[1]}, m.Slice(0xFFF, 3))
}

func TestStack(t *testing.T) {
	m := NewMemory()

	m.Push(0x202)
	m.Push(0x40A)
	assert.Equal(t, 2, m.Depth())

	a, err := m.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x40A), a)

	a, err = m.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), a)

	_, err = m.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestStackIsUnbounded(t *testing.T) {
	m := NewMemory()

	for i := 0; i < 100; i++ {
		m.Push(uint16(i))
	}

	assert.Equal(t, 100, m.Depth())

	for i := 99; i >= 0; i-- {
		a, err := m.Pop()
		assert.NoError(t, err)
		assert.Equal(t, uint16(i), a)
	}
}
