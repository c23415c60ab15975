package chip8

import "fmt"

/// String returns the assembly mnemonic and operands of an instruction,
/// in the same syntax the assembler accepts.
///
func (i Instruction) String() string {
	switch i.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpSYS:
		return fmt.Sprintf("SYS    #%03X", i.NNN)
	case OpJP:
		return fmt.Sprintf("JP     #%03X", i.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL   #%03X", i.NNN)
	case OpSE:
		return fmt.Sprintf("SE     V%X, #%02X", i.X, i.NN)
	case OpSNE:
		return fmt.Sprintf("SNE    V%X, #%02X", i.X, i.NN)
	case OpSEXY:
		return fmt.Sprintf("SE     V%X, V%X", i.X, i.Y)
	case OpLD:
		return fmt.Sprintf("LD     V%X, #%02X", i.X, i.NN)
	case OpADD:
		return fmt.Sprintf("ADD    V%X, #%02X", i.X, i.NN)
	case OpLDXY:
		return fmt.Sprintf("LD     V%X, V%X", i.X, i.Y)
	case OpOR:
		return fmt.Sprintf("OR     V%X, V%X", i.X, i.Y)
	case OpAND:
		return fmt.Sprintf("AND    V%X, V%X", i.X, i.Y)
	case OpXOR:
		return fmt.Sprintf("XOR    V%X, V%X", i.X, i.Y)
	case OpADDXY:
		return fmt.Sprintf("ADD    V%X, V%X", i.X, i.Y)
	case OpSUB:
		return fmt.Sprintf("SUB    V%X, V%X", i.X, i.Y)
	case OpSHR:
		return fmt.Sprintf("SHR    V%X, V%X", i.X, i.Y)
	case OpSUBN:
		return fmt.Sprintf("SUBN   V%X, V%X", i.X, i.Y)
	case OpSHL:
		return fmt.Sprintf("SHL    V%X, V%X", i.X, i.Y)
	case OpSNEXY:
		return fmt.Sprintf("SNE    V%X, V%X", i.X, i.Y)
	case OpLDI:
		return fmt.Sprintf("LD     I, #%03X", i.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP     V0, #%03X", i.NNN)
	case OpRND:
		return fmt.Sprintf("RND    V%X, #%02X", i.X, i.NN)
	case OpDRW:
		return fmt.Sprintf("DRW    V%X, V%X, %d", i.X, i.Y, i.N)
	case OpSKP:
		return fmt.Sprintf("SKP    V%X", i.X)
	case OpSKNP:
		return fmt.Sprintf("SKNP   V%X", i.X)
	case OpLDXDT:
		return fmt.Sprintf("LD     V%X, DT", i.X)
	case OpLDXK:
		return fmt.Sprintf("LD     V%X, K", i.X)
	case OpLDDTX:
		return fmt.Sprintf("LD     DT, V%X", i.X)
	case OpLDSTX:
		return fmt.Sprintf("LD     ST, V%X", i.X)
	case OpADDIX:
		return fmt.Sprintf("ADD    I, V%X", i.X)
	case OpLDF:
		return fmt.Sprintf("LD     F, V%X", i.X)
	case OpLDB:
		return fmt.Sprintf("LD     B, V%X", i.X)
	case OpSTORE:
		return fmt.Sprintf("LD     [I], V%X", i.X)
	case OpLOAD:
		return fmt.Sprintf("LD     V%X, [I]", i.X)
	}

	// not an instruction, show it as data
	return fmt.Sprintf("WORD   #%04X", i.Raw)
}

/// Disassemble the instruction at an address in memory.
///
func (vm *CHIP_8) Disassemble(address uint16) string {
	return fmt.Sprintf("%04X - %s", address&AddressMask, Decode(vm.Memory.Word(address)))
}
