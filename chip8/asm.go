/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at ProgramOrigin.
	///
	ROM []byte

	/// Labels map names to addresses.
	///
	Labels map[string]int

	/// Unresolved maps the address of instructions referencing a label
	/// that wasn't yet defined to the label.
	///
	Unresolved map[int]string

	// addresses in Unresolved that are WORD directives
	words map[int]struct{}
}

/// A label reference that couldn't be resolved yet.
///
type forwardRef string

/// Assemble CHIP-8 source code into a ROM image.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, ProgramOrigin, MemorySize),
		Labels:     make(map[string]int),
		Unresolved: make(map[int]string),
		words:      make(map[int]struct{}),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d: %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic("program too large")
		}
	}

	// clear the line number as we're done assembling
	line = 0

	// resolve all label addresses
	for address, label := range out.Unresolved {
		target, ok := out.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		// every forward reference is either a 12-bit address operand or a WORD
		if out.isWord(address) {
			out.ROM[address] = byte(target >> 8)
		} else {
			out.ROM[address] |= byte(target >> 8 & 0xF)
		}

		out.ROM[address+1] = byte(target)
	}

	// drop the reserved bytes before the program
	out.ROM = out.ROM[ProgramOrigin:]

	return out, nil
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == TOKEN_LABEL {
		a.assembleLabel(t.val.(string))

		// an instruction may follow the label
		t = s.scanToken()
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.ROM = append(a.ROM, a.assembleInstruction(t.val.(string), s.scanOperands())...)
	case TOKEN_END:
	default:
		panic("unexpected token")
	}
}

/// Add a label at the current address.
///
func (a *Assembly) assembleLabel(label string) {
	if _, exists := a.Labels[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	a.Labels[label] = len(a.ROM)
}

/// Compile a single instruction or directive.
///
func (a *Assembly) assembleInstruction(i string, tokens []token) []byte {
	switch i {
	case "CLS":
		return a.assembleNoOperands(tokens, 0x00E0)
	case "RET":
		return a.assembleNoOperands(tokens, 0x00EE)
	case "SYS":
		return a.assembleAddress(tokens, 0x0000)
	case "JP":
		return a.assembleJP(tokens)
	case "CALL":
		return a.assembleAddress(tokens, 0x2000)
	case "SE":
		return a.assembleSkip(tokens, 0x3000, 0x5000)
	case "SNE":
		return a.assembleSkip(tokens, 0x4000, 0x9000)
	case "SKP":
		return a.assembleX(tokens, 0xE09E)
	case "SKNP":
		return a.assembleX(tokens, 0xE0A1)
	case "OR":
		return a.assembleXY(tokens, 0x8001)
	case "AND":
		return a.assembleXY(tokens, 0x8002)
	case "XOR":
		return a.assembleXY(tokens, 0x8003)
	case "SUB":
		return a.assembleXY(tokens, 0x8005)
	case "SUBN":
		return a.assembleXY(tokens, 0x8007)
	case "SHR":
		return a.assembleShift(tokens, 0x8006)
	case "SHL":
		return a.assembleShift(tokens, 0x800E)
	case "ADD":
		return a.assembleADD(tokens)
	case "RND":
		return a.assembleRND(tokens)
	case "DRW":
		return a.assembleDRW(tokens)
	case "LD":
		return a.assembleLD(tokens)
	case "BYTE":
		return a.assembleBYTE(tokens)
	case "WORD":
		return a.assembleWORD(tokens)
	case "ALIGN":
		return a.assembleALIGN(tokens)
	case "PAD":
		return a.assemblePAD(tokens)
	}

	panic("unknown instruction")
}

/// Assemble a single operand, expanding label references.
///
func (a *Assembly) assembleOperand(t token) token {
	if t.typ == TOKEN_REF {
		label := t.val.(string)

		if v, exists := a.Labels[label]; exists {
			return token{typ: TOKEN_LIT, val: v}
		}

		return token{typ: TOKEN_LIT, val: forwardRef(label)}
	}

	return t
}

/// Match the desired tokens with a list of tokens. Expands labels.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	ops := make([]token, 0, 3)

	// the number of desired tokens should match
	if len(tokens) != len(m) {
		return nil, false
	}

	// expand and compare the token types
	for i, typ := range m {
		t := a.assembleOperand(tokens[i])

		if t.typ != typ {
			return nil, false
		}

		ops = append(ops, t)
	}

	return ops, true
}

/// Get the value of a literal operand, which must be less than limit.
/// Forward references are only allowed when the operand is an address.
///
func (a *Assembly) literal(t token, limit int, address bool) int {
	if ref, ok := t.val.(forwardRef); ok {
		if !address {
			panic(fmt.Errorf("label used before defined: %s", ref))
		}

		// patched after assembly
		a.Unresolved[len(a.ROM)] = string(ref)

		return 0
	}

	n := t.val.(int)
	if n < 0 || n >= limit {
		panic(fmt.Errorf("operand out of range: %d", n))
	}

	return n
}

/// True if the fixup at address is from a WORD directive.
///
func (a *Assembly) isWord(address int) bool {
	_, ok := a.words[address]
	return ok
}

/// Encode a 16-bit instruction.
///
func word(op int) []byte {
	return []byte{byte(op >> 8), byte(op)}
}

/// Assemble an instruction with no operands.
///
func (a *Assembly) assembleNoOperands(tokens []token, op int) []byte {
	if len(tokens) == 0 {
		return word(op)
	}

	panic("illegal instruction")
}

/// Assemble an instruction with a single 12-bit address operand.
///
func (a *Assembly) assembleAddress(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		return word(op | a.literal(ops[0], 0x1000, true))
	}

	panic("illegal instruction")
}

/// Assemble an instruction with a single v-register operand.
///
func (a *Assembly) assembleX(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		return word(op | ops[0].val.(int)<<8)
	}

	panic("illegal instruction")
}

/// Assemble an instruction with a vx, vy operand pair.
///
func (a *Assembly) assembleXY(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return word(op | ops[0].val.(int)<<8 | ops[1].val.(int)<<4)
	}

	panic("illegal instruction")
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if ops[0].val.(int) != 0 {
			panic("illegal instruction")
		}

		return word(0xB000 | a.literal(ops[1], 0x1000, true))
	}

	return a.assembleAddress(tokens, 0x1000)
}

/// Assemble a SE or SNE instruction.
///
func (a *Assembly) assembleSkip(tokens []token, opByte, opReg int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return word(opByte | ops[0].val.(int)<<8 | a.literal(ops[1], 0x100, false))
	}

	return a.assembleXY(tokens, opReg)
}

/// Assemble a SHR or SHL instruction. VY is optional.
///
func (a *Assembly) assembleShift(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return word(op | x<<8 | x<<4)
	}

	return a.assembleXY(tokens, op)
}

/// Assemble an ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return word(0x7000 | ops[0].val.(int)<<8 | a.literal(ops[1], 0x100, false))
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_V); ok {
		return word(0xF01E | ops[1].val.(int)<<8)
	}

	return a.assembleXY(tokens, 0x8004)
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return word(0xC000 | ops[0].val.(int)<<8 | a.literal(ops[1], 0x100, false))
	}

	panic("illegal instruction")
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return word(0xD000 | x<<8 | y<<4 | a.literal(ops[2], 0x10, false))
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction.
///
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return word(0x6000 | ops[0].val.(int)<<8 | a.literal(ops[1], 0x100, false))
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_LIT); ok {
		return word(0xA000 | a.literal(ops[1], 0x1000, true))
	}

	// LD Vx, <special>
	for typ, op := range map[tokenType]int{TOKEN_DT: 0xF007, TOKEN_K: 0xF00A, TOKEN_EFFECTIVE_ADDRESS: 0xF065} {
		if ops, ok := a.assembleOperands(tokens, TOKEN_V, typ); ok {
			return word(op | ops[0].val.(int)<<8)
		}
	}

	// LD <special>, Vx
	for typ, op := range map[tokenType]int{TOKEN_DT: 0xF015, TOKEN_ST: 0xF018, TOKEN_F: 0xF029, TOKEN_B: 0xF033, TOKEN_EFFECTIVE_ADDRESS: 0xF055} {
		if ops, ok := a.assembleOperands(tokens, typ, TOKEN_V); ok {
			return word(op | ops[1].val.(int)<<8)
		}
	}

	return a.assembleXY(tokens, 0x8000)
}

/// Assemble a BYTE directive: bytes and strings.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t)

		switch op.typ {
		case TOKEN_LIT:
			b = append(b, byte(a.literal(op, 0x100, false)))
		case TOKEN_TEXT:
			b = append(b, op.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

/// Assemble a WORD directive: 16-bit values, MSB first.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := a.assembleOperand(t)

		if op.typ != TOKEN_LIT {
			panic("invalid word")
		}

		// forward references are patched as full words
		if ref, ok := op.val.(forwardRef); ok {
			address := len(a.ROM) + len(b)

			a.Unresolved[address] = string(ref)
			a.words[address] = struct{}{}

			b = append(b, 0, 0)
			continue
		}

		b = append(b, word(a.literal(op, 0x10000, false))...)
	}

	return b
}

/// Assemble an ALIGN directive, padding with zeros.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := a.literal(ops[0], MemorySize, false)

		if n > 0 && n&(n-1) == 0 {
			return make([]byte, (n-len(a.ROM)&(n-1))&(n-1))
		}
	}

	panic("illegal alignment")
}

/// Assemble a PAD directive, reserving n zero bytes.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		return make([]byte, a.literal(ops[0], MemorySize-len(a.ROM)+1, false))
	}

	panic("illegal size")
}
