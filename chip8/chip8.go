package chip8

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// DefaultSpeed is how many instructions are executed per second.
	///
	DefaultSpeed = 700

	/// MinSpeed and MaxSpeed bound IncSpeed and DecSpeed.
	///
	MinSpeed = 100
	MaxSpeed = 5000

	/// SpeedStep is how much IncSpeed and DecSpeed change the speed by.
	///
	SpeedStep = 100
)

/// Options configure a new CHIP-8 virtual machine. The zero value is
/// usable, but zero Quirks are all the legacy behaviors; most programs
/// want DefaultQuirks().
///
type Options struct {
	Quirks Quirks

	/// Speed in instructions per second. Zero is DefaultSpeed.
	///
	Speed int

	/// Logger for diagnostics. If nil, a default logger is created.
	///
	Logger *log.Logger

	/// Rand is the source for RND. If nil, one is seeded from the time.
	///
	Rand *rand.Rand

	/// Now is the wall-clock used for timers and pacing. Default time.Now.
	///
	Now func() time.Time

	/// Keypad overrides the keys the CHIP-8 reads. If nil, the VM's own
	/// Keys are used (see PressKey and ReleaseKey).
	///
	Keypad Keypad

	/// Trace is called with every instruction just before it executes.
	///
	Trace func(pc uint16, inst Instruction)
}

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// ROM is the program image. It is loaded back into memory on Reset.
	///
	ROM []byte

	/// Memory is the heap and call stack.
	///
	Memory *Memory

	/// Display is the 64x32 video memory.
	///
	Display *Display

	/// Quirks in effect for this run.
	///
	Quirks Quirks

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers. VF is also the carry, borrow, and
	/// collision flag.
	///
	V [16]byte

	/// Timers are the delay and sound timers.
	///
	Timers Timers

	/// Clock decrements the timers at 60 Hz.
	///
	Clock *Clock

	/// Keys hold the current state for the 16-key pad keys.
	///
	Keys Keys

	/// Keypad is what instructions read; it's &Keys unless overridden.
	///
	Keypad Keypad

	/// Speed is the number of instructions executed per second.
	///
	Speed int

	/// Cycles is how many instructions have been executed.
	///
	Cycles int64

	/// Logger for diagnostics.
	///
	Logger *log.Logger

	/// Trace, if set, sees every instruction before it is executed.
	///
	Trace func(pc uint16, inst Instruction)

	// random source for RND
	rand *rand.Rand

	// pacing reference: Cycles executed as of pacedAt
	pacedAt time.Time
	paced   int64
}

/// LoadROM creates a new CHIP-8 virtual machine running program.
///
func LoadROM(program []byte, opts Options) (*CHIP_8, error) {
	if len(program) > MemorySize-ProgramOrigin {
		return nil, fmt.Errorf("%w: %d bytes", ErrProgramTooLarge, len(program))
	}

	vm := &CHIP_8{
		ROM:     append([]byte(nil), program...),
		Quirks:  opts.Quirks,
		Speed:   opts.Speed,
		Keypad:  opts.Keypad,
		Logger:  opts.Logger,
		Trace:   opts.Trace,
		rand:    opts.Rand,
		Clock:   NewClock(opts.Now),
		Display: &Display{},
	}

	if vm.Speed <= 0 {
		vm.Speed = DefaultSpeed
	}
	if vm.Keypad == nil {
		vm.Keypad = &vm.Keys
	}
	if vm.Logger == nil {
		vm.Logger = log.NewWithConfig(log.DefaultConfig())
	}
	if vm.rand == nil {
		vm.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// reset the VM memory
	if err := vm.Reset(); err != nil {
		return nil, err
	}

	return vm, nil
}

/// LoadFile reads a ROM file and returns a new CHIP-8 virtual machine.
///
func LoadFile(file string, opts Options) (*CHIP_8, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	return LoadROM(program, opts)
}

/// Reset the CHIP-8 virtual machine to the state it was loaded in.
///
func (vm *CHIP_8) Reset() error {
	vm.Memory = NewMemory()

	// copy the program into the CHIP-8
	if err := vm.Memory.Load(ProgramOrigin, vm.ROM); err != nil {
		return err
	}

	// reset video memory
	vm.Display.Clear()
	vm.Display.Wrap = vm.Quirks.WrapSprites

	// reset keys
	vm.Keys.Reset()

	// reset program counter and registers
	vm.PC = ProgramOrigin
	vm.I = 0
	vm.V = [16]byte{}
	vm.Timers = Timers{}

	// reset the clock and cycles executed
	vm.Cycles = 0
	vm.Clock.Resync()
	vm.repace()

	return nil
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key byte) {
	vm.Keys.Press(key)
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key byte) {
	vm.Keys.Release(key)
}

/// ShouldSignalTone is true while the sound timer is running.
///
func (vm *CHIP_8) ShouldSignalTone() bool {
	return vm.Timers.Tone()
}

/// IncSpeed increases the number of instructions executed per second.
///
func (vm *CHIP_8) IncSpeed() {
	vm.SetSpeed(vm.Speed + SpeedStep)
}

/// DecSpeed decreases the number of instructions executed per second.
///
func (vm *CHIP_8) DecSpeed() {
	vm.SetSpeed(vm.Speed - SpeedStep)
}

/// SetSpeed sets the number of instructions executed per second.
///
func (vm *CHIP_8) SetSpeed(speed int) {
	switch {
	case speed < MinSpeed:
		speed = MinSpeed
	case speed > MaxSpeed:
		speed = MaxSpeed
	}

	vm.Speed = speed
	vm.repace()
}

/// Process CHIP-8 emulation. Ticks the timers and executes instructions
/// until the number executed catches up with the clock. While paused,
/// time passes without executing anything or counting down the timers.
///
func (vm *CHIP_8) Process(paused bool) error {
	if paused {
		vm.Clock.Resync()
		vm.repace()
		return nil
	}

	vm.Clock.Tick(&vm.Timers)

	// calculate how many cycles should have been executed
	elapsed := vm.Clock.Now().Sub(vm.pacedAt)
	count := vm.paced + int64(elapsed)*int64(vm.Speed)/int64(time.Second)

	// never try to catch up more than a tenth of a second
	limit := int64(vm.Speed/10) + 1
	lagging := count-vm.Cycles > limit
	if lagging {
		count = vm.Cycles + limit
	}

	for vm.Cycles < count {
		if err := vm.Step(); err != nil {
			return err
		}
	}

	// drop the time that couldn't be caught up
	if lagging {
		vm.repace()
	}

	return nil
}

/// Step the CHIP-8 virtual machine a single instruction.
///
func (vm *CHIP_8) Step() error {
	pc := vm.PC

	// fetch and decode the next instruction
	inst := Decode(vm.fetch())

	if vm.Trace != nil {
		vm.Trace(pc, inst)
	}

	if err := vm.execute(pc, inst); err != nil {
		return fmt.Errorf("%04X - %s: %w", pc, inst, err)
	}

	// increment the cycle count
	vm.Cycles++

	return nil
}

/// Fetch the next 16-bit instruction to execute.
///
func (vm *CHIP_8) fetch() uint16 {
	inst := vm.Memory.Word(vm.PC)

	// advance the program counter
	vm.PC = (vm.PC + 2) & AddressMask

	return inst
}

/// Restart instruction pacing from the current time and cycle count.
///
func (vm *CHIP_8) repace() {
	vm.pacedAt = vm.Clock.Now()
	vm.paced = vm.Cycles
}
