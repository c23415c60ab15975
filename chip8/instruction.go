package chip8

/// Op identifies the kind of a decoded instruction.
///
type Op uint8

/// Every instruction in the base CHIP-8 instruction set.
///
const (
	OpInvalid Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpSYS        // 0NNN
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSE         // 3XNN
	OpSNE        // 4XNN
	OpSEXY       // 5XY0
	OpLD         // 6XNN
	OpADD        // 7XNN
	OpLDXY       // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDXY      // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEXY      // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXNN
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDXDT      // FX07
	OpLDXK       // FX0A
	OpLDDTX      // FX15
	OpLDSTX      // FX18
	OpADDIX      // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpSTORE      // FX55
	OpLOAD       // FX65
)

/// Instruction is a single decoded 16-bit CHIP-8 instruction. Every
/// operand field is extracted regardless of whether Op uses it.
///
type Instruction struct {
	Op Op

	/// Raw is the 16-bit word the instruction was decoded from.
	///
	Raw uint16

	/// X and Y are register operands.
	///
	X, Y byte

	/// N is the low nibble (sprite height).
	///
	N byte

	/// NN is the low byte.
	///
	NN byte

	/// NNN is the 12-bit address.
	///
	NNN uint16
}

/// Decode a raw instruction word. Every word decodes to something; words
/// that aren't part of the instruction set decode to OpInvalid.
///
func Decode(raw uint16) Instruction {
	return Instruction{
		Op:  decodeOp(raw),
		Raw: raw,
		X:   byte(raw >> 8 & 0xF),
		Y:   byte(raw >> 4 & 0xF),
		N:   byte(raw & 0xF),
		NN:  byte(raw & 0xFF),
		NNN: raw & 0xFFF,
	}
}

/// Valid is false for words that aren't part of the instruction set.
///
func (i Instruction) Valid() bool {
	return i.Op != OpInvalid
}

func decodeOp(raw uint16) Op {
	switch raw & 0xF000 {
	case 0x0000:
		// return and clear are matched on the low byte only
		switch {
		case raw&0xFF == 0xEE:
			return OpRET
		case raw&0xF0 == 0xE0:
			return OpCLS
		}
		return OpSYS
	case 0x1000:
		return OpJP
	case 0x2000:
		return OpCALL
	case 0x3000:
		return OpSE
	case 0x4000:
		return OpSNE
	case 0x5000:
		if raw&0xF == 0 {
			return OpSEXY
		}
	case 0x6000:
		return OpLD
	case 0x7000:
		return OpADD
	case 0x8000:
		return decodeALU(raw)
	case 0x9000:
		if raw&0xF == 0 {
			return OpSNEXY
		}
	case 0xA000:
		return OpLDI
	case 0xB000:
		return OpJPV0
	case 0xC000:
		return OpRND
	case 0xD000:
		return OpDRW
	case 0xE000:
		switch raw & 0xFF {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF000:
		return decodeMisc(raw)
	}

	return OpInvalid
}

/// Decode the 8XYN register arithmetic family.
///
func decodeALU(raw uint16) Op {
	switch raw & 0xF {
	case 0x0:
		return OpLDXY
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDXY
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}

	return OpInvalid
}

/// Decode the FXNN timer, index and memory family.
///
func decodeMisc(raw uint16) Op {
	switch raw & 0xFF {
	case 0x07:
		return OpLDXDT
	case 0x0A:
		return OpLDXK
	case 0x15:
		return OpLDDTX
	case 0x18:
		return OpLDSTX
	case 0x1E:
		return OpADDIX
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpSTORE
	case 0x65:
		return OpLOAD
	}

	return OpInvalid
}
