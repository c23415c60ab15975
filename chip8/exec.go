package chip8

import "github.com/retroenv/retrogolib/log"

/// Execute a decoded instruction fetched from pc. The program counter
/// has already been advanced past it.
///
func (vm *CHIP_8) execute(pc uint16, inst Instruction) error {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpSYS:
		vm.sys(inst.NNN)
	case OpJP:
		vm.jump(inst.NNN)
	case OpCALL:
		vm.call(inst.NNN)
	case OpSE:
		vm.skipIf(vm.V[x] == inst.NN)
	case OpSNE:
		vm.skipIf(vm.V[x] != inst.NN)
	case OpSEXY:
		vm.skipIf(vm.V[x] == vm.V[y])
	case OpSNEXY:
		vm.skipIf(vm.V[x] != vm.V[y])
	case OpSKP:
		vm.skipIf(vm.Keypad.Pressed(vm.V[x] & 0xF))
	case OpSKNP:
		vm.skipIf(!vm.Keypad.Pressed(vm.V[x] & 0xF))
	case OpLD:
		vm.V[x] = inst.NN
	case OpADD:
		vm.V[x] += inst.NN
	case OpLDXY:
		vm.V[x] = vm.V[y]
	case OpOR:
		vm.V[x] |= vm.V[y]
	case OpAND:
		vm.V[x] &= vm.V[y]
	case OpXOR:
		vm.V[x] ^= vm.V[y]
	case OpADDXY:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHR:
		vm.shr(x, y)
	case OpSHL:
		vm.shl(x, y)
	case OpLDI:
		vm.I = inst.NNN
	case OpJPV0:
		vm.jumpOffset(inst.NNN)
	case OpRND:
		vm.rnd(x, inst.NN)
	case OpDRW:
		vm.drw(x, y, inst.N)
	case OpLDXDT:
		vm.V[x] = vm.Timers.Delay
	case OpLDXK:
		vm.loadXK(x)
	case OpLDDTX:
		vm.Timers.Delay = vm.V[x]
	case OpLDSTX:
		vm.Timers.Sound = vm.V[x]
	case OpADDIX:
		vm.addIX(x)
	case OpLDF:
		vm.I = GlyphAddress(vm.V[x])
	case OpLDB:
		vm.loadB(x)
	case OpSTORE:
		vm.saveRegs(x)
	case OpLOAD:
		vm.loadRegs(x)
	default:
		vm.Logger.Debug("Invalid instruction ignored",
			log.Hex("address", pc),
			log.Hex("opcode", inst.Raw))
	}

	return nil
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	vm.Display.Clear()
}

/// System call an RCA 1802 program at address. There's no 1802, so this
/// does nothing.
///
func (vm *CHIP_8) sys(address uint16) {
	vm.Logger.Debug("Machine code call ignored", log.Hex("address", address))
}

/// Jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// Jump to address + v0 (or vx with the modern quirk).
///
func (vm *CHIP_8) jumpOffset(address uint16) {
	r := byte(0)

	// BXNN - the register is the high nibble of the address
	if vm.Quirks.ModernJumpOffset {
		r = byte(address >> 8 & 0xF)
	}

	vm.PC = (address + uint16(vm.V[r])) & AddressMask
}

/// Call a subroutine at address.
///
func (vm *CHIP_8) call(address uint16) {
	vm.Memory.Push(vm.PC)

	// the stack is unbounded, but 1802 programs never went this deep
	if vm.Memory.Depth() == StackWarnDepth+1 {
		vm.Logger.Warn("Call stack deeper than 16",
			log.Hex("address", address),
			log.Int("depth", vm.Memory.Depth()))
	}

	vm.PC = address
}

/// Return from subroutine.
///
func (vm *CHIP_8) ret() error {
	address, err := vm.Memory.Pop()
	if err != nil {
		return err
	}

	vm.PC = address

	return nil
}

/// Skip the next instruction if cond is true.
///
func (vm *CHIP_8) skipIf(cond bool) {
	if cond {
		vm.PC = (vm.PC + 2) & AddressMask
	}
}

/// Add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])
	vm.V[x] = byte(sum)

	// flag is written last, it wins if x is F
	if sum > 0xFF {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// Subtract vy from vx, set carry only if vx was greater than vy.
///
func (vm *CHIP_8) subXY(x, y byte) {
	f := flag(vm.V[x] > vm.V[y])

	vm.V[x] -= vm.V[y]
	vm.V[0xF] = f
}

/// Subtract vx from vy and store in vx, set carry only if vy was greater
/// than vx.
///
func (vm *CHIP_8) subYX(x, y byte) {
	f := flag(vm.V[y] > vm.V[x])

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.V[0xF] = f
}

/// Shift right 1 bit, set carry to LSB before shift.
///
func (vm *CHIP_8) shr(x, y byte) {
	if !vm.Quirks.ModernShift {
		vm.V[x] = vm.V[y]
	}

	f := vm.V[x] & 1

	vm.V[x] >>= 1
	vm.V[0xF] = f
}

/// Shift left 1 bit, set carry to MSB before shift.
///
func (vm *CHIP_8) shl(x, y byte) {
	if !vm.Quirks.ModernShift {
		vm.V[x] = vm.V[y]
	}

	f := vm.V[x] >> 7

	vm.V[x] <<= 1
	vm.V[0xF] = f
}

/// Load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x, b byte) {
	vm.V[x] = byte(vm.rand.Intn(0x100)) & b
}

/// Draw an n-byte sprite at I to video memory at vx, vy.
///
func (vm *CHIP_8) drw(x, y, n byte) {
	px, py := vm.V[x], vm.V[y]

	vm.V[0xF] = 0

	// set carry flag if any collision occurred
	if vm.Display.Draw(px, py, vm.Memory.Slice(vm.I, int(n))) {
		vm.V[0xF] = 1
	}
}

/// Load vx with the key being pressed. If there isn't one, the
/// instruction is executed again next step.
///
func (vm *CHIP_8) loadXK(x byte) {
	if key, ok := vm.Keypad.AnyPressed(); ok {
		vm.V[x] = key
	} else {
		vm.PC = (vm.PC - 2) & AddressMask
	}
}

/// Add vx to I, keeping I in the address space.
///
func (vm *CHIP_8) addIX(x byte) {
	sum := vm.I + uint16(vm.V[x])

	if !vm.Quirks.ModernIndexAddition {
		vm.V[0xF] = flag(sum > AddressMask)
	}

	vm.I = sum & AddressMask
}

/// Store the BCD of vx at I, I+1, I+2.
///
func (vm *CHIP_8) loadB(x byte) {
	n := vm.V[x]

	vm.Memory.Write(vm.I+0, n/100)
	vm.Memory.Write(vm.I+1, n/10%10)
	vm.Memory.Write(vm.I+2, n%10)
}

/// Save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x byte) {
	for i := uint16(0); i <= uint16(x); i++ {
		vm.Memory.Write(vm.I+i, vm.V[i])
	}

	vm.advanceI(x)
}

/// Load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x byte) {
	for i := uint16(0); i <= uint16(x); i++ {
		vm.V[i] = vm.Memory.Read(vm.I + i)
	}

	vm.advanceI(x)
}

/// Advance I after storing or loading v0..vx, unless the modern quirk
/// leaves it alone.
///
func (vm *CHIP_8) advanceI(x byte) {
	if vm.Quirks.ModernStoreAndLoad {
		return
	}

	n := uint16(x) + 1
	if vm.Quirks.ShortStoreAndLoad {
		n = uint16(x)
	}

	vm.I = (vm.I + n) & AddressMask
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
