package chip8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoadROM(t *testing.T) {
	vm, err := LoadROM([]byte{0x12, 0x00}, Options{Quirks: DefaultQuirks(), Logger: log.NewTestLogger(t)})
	assert.NoError(t, err)

	assert.Equal(t, uint16(ProgramOrigin), vm.PC)
	assert.Equal(t, uint16(0x1200), vm.Memory.Word(ProgramOrigin))
	assert.Equal(t, Font[0], vm.Memory.Read(FontAddress))
	assert.Equal(t, DefaultSpeed, vm.Speed)
	assert.NotNil(t, vm.Keypad)
	assert.Equal(t, DefaultQuirks(), vm.Quirks)
}

func TestLoadROMTooLarge(t *testing.T) {
	_, err := LoadROM(make([]byte, MemorySize-ProgramOrigin+1), Options{})
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(file, []byte{0x00, 0xE0}, 0o644))

	vm, err := LoadFile(file, Options{Logger: log.NewTestLogger(t)})
	assert.NoError(t, err)
	assert.Equal(t, OpCLS, Decode(vm.Memory.Word(ProgramOrigin)).Op)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.ch8"), Options{})
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, DefaultQuirks(), 0x6A02, 0xA2EA, 0x2300)

	vm.Timers.Sound = 10
	vm.PressKey(3)
	vm.Display.Pixels[1][1] = true

	stepN(t, vm, 3)
	vm.Memory.Write(ProgramOrigin, 0xFF)

	assert.NoError(t, vm.Reset())

	assert.Equal(t, uint16(ProgramOrigin), vm.PC)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, [16]byte{}, vm.V)
	assert.Equal(t, Timers{}, vm.Timers)
	assert.Equal(t, 0, vm.Memory.Depth())
	assert.Equal(t, int64(0), vm.Cycles)
	assert.False(t, vm.Keys.Pressed(3))
	assert.False(t, vm.Display.Pixel(1, 1))

	// the program is restored
	assert.Equal(t, uint16(0x6A02), vm.Memory.Word(ProgramOrigin))
}

func TestWrapQuirkReachesDisplay(t *testing.T) {
	quirks := DefaultQuirks()
	quirks.WrapSprites = true

	vm := newTestVM(t, quirks)
	assert.True(t, vm.Display.Wrap)
}

func TestProcessPacing(t *testing.T) {
	ft := newFakeTime()
	vm := newTestVM(t, DefaultQuirks(), 0x1200)

	vm.Clock.Now = ft.Now
	vm.Clock.Resync()
	vm.SetSpeed(600)
	vm.Timers.Delay = 100

	ft.Advance(100 * time.Millisecond)
	assert.NoError(t, vm.Process(false))
	assert.Equal(t, int64(60), vm.Cycles)

	// timers only decrement once per call
	assert.Equal(t, byte(99), vm.Timers.Delay)

	// nothing more is owed
	assert.NoError(t, vm.Process(false))
	assert.Equal(t, int64(60), vm.Cycles)
}

func TestProcessPaused(t *testing.T) {
	ft := newFakeTime()
	vm := newTestVM(t, DefaultQuirks(), 0x1200)

	vm.Clock.Now = ft.Now
	vm.Clock.Resync()
	vm.SetSpeed(600)
	vm.Timers.Delay = 100

	ft.Advance(time.Second)
	assert.NoError(t, vm.Process(true))
	assert.Equal(t, int64(0), vm.Cycles)
	assert.Equal(t, byte(100), vm.Timers.Delay)

	// paused time isn't made up for
	ft.Advance(10 * time.Millisecond)
	assert.NoError(t, vm.Process(false))
	assert.Equal(t, int64(6), vm.Cycles)
	assert.Equal(t, byte(100), vm.Timers.Delay)
}

func TestProcessDropsLag(t *testing.T) {
	ft := newFakeTime()
	vm := newTestVM(t, DefaultQuirks(), 0x1200)

	vm.Clock.Now = ft.Now
	vm.Clock.Resync()
	vm.SetSpeed(600)

	ft.Advance(time.Second)
	assert.NoError(t, vm.Process(false))
	assert.Equal(t, int64(61), vm.Cycles)

	assert.NoError(t, vm.Process(false))
	assert.Equal(t, int64(61), vm.Cycles)
}

func TestProcessStopsOnError(t *testing.T) {
	ft := newFakeTime()
	vm := newTestVM(t, DefaultQuirks(), 0x00EE)

	vm.Clock.Now = ft.Now
	vm.Clock.Resync()
	vm.SetSpeed(600)

	ft.Advance(100 * time.Millisecond)
	err := vm.Process(false)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, int64(0), vm.Cycles)
}

func TestSpeed(t *testing.T) {
	vm := newTestVM(t, DefaultQuirks())

	vm.SetSpeed(MinSpeed)
	vm.DecSpeed()
	assert.Equal(t, MinSpeed, vm.Speed)

	vm.IncSpeed()
	assert.Equal(t, MinSpeed+SpeedStep, vm.Speed)

	vm.SetSpeed(MaxSpeed + 1)
	assert.Equal(t, MaxSpeed, vm.Speed)
}

func TestDisassemble(t *testing.T) {
	vm := newTestVM(t, DefaultQuirks(), 0x00E0, 0xD01F)

	assert.Equal(t, "0200 - CLS", vm.Disassemble(0x200))
	assert.Equal(t, "0202 - DRW    V0, V1, 15", vm.Disassemble(0x202))
}

func TestTrace(t *testing.T) {
	vm := newTestVM(t, DefaultQuirks(), 0x6A02, 0x1200)

	var traced []uint16
	vm.Trace = func(pc uint16, inst Instruction) {
		traced = append(traced, pc, inst.Raw)
	}

	stepN(t, vm, 3)
	assert.Equal(t, []uint16{0x200, 0x6A02, 0x202, 0x1200, 0x200, 0x6A02}, traced)
}

type heldKey byte

func (k heldKey) Pressed(key byte) bool {
	return key == byte(k)
}

func (k heldKey) AnyPressed() (byte, bool) {
	return byte(k), true
}

func TestKeypadOverride(t *testing.T) {
	vm, err := LoadROM([]byte{0xF2, 0x0A, 0xE2, 0x9E}, Options{
		Quirks: DefaultQuirks(),
		Logger: log.NewTestLogger(t),
		Keypad: heldKey(0xB),
	})
	assert.NoError(t, err)

	// the VM's own keys are ignored
	vm.PressKey(0x1)

	stepN(t, vm, 2)
	assert.Equal(t, byte(0xB), vm.V[2])
	assert.Equal(t, uint16(0x206), vm.PC)
}
