package chip8

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestAssembleEveryInstruction(t *testing.T) {
	tests := map[string]uint16{
		"CLS":             0x00E0,
		"RET":             0x00EE,
		"SYS #123":        0x0123,
		"JP #228":         0x1228,
		"CALL #2EA":       0x22EA,
		"SE VA, #12":      0x3A12,
		"SNE VA, 18":      0x4A12,
		"SE VA, VB":       0x5AB0,
		"LD VA, #02":      0x6A02,
		"ADD VA, 1":       0x7A01,
		"LD VA, VB":       0x8AB0,
		"OR VA, VB":       0x8AB1,
		"AND VA, VB":      0x8AB2,
		"XOR VA, VB":      0x8AB3,
		"ADD VA, VB":      0x8AB4,
		"SUB VA, VB":      0x8AB5,
		"SHR VA":          0x8AA6,
		"SHR VA, VB":      0x8AB6,
		"SUBN VA, VB":     0x8AB7,
		"SHL VA, VB":      0x8ABE,
		"SNE VA, VB":      0x9AB0,
		"LD I, #2EA":      0xA2EA,
		"JP V0, #300":     0xB300,
		"RND V3, $1111":   0xC30F,
		"DRW V0, V1, 15":  0xD01F,
		"SKP V1":          0xE19E,
		"SKNP V1":         0xE1A1,
		"LD V1, DT":       0xF107,
		"LD V1, K":        0xF10A,
		"LD DT, V1":       0xF115,
		"LD ST, V1":       0xF118,
		"ADD I, V1":       0xF11E,
		"LD F, V1":        0xF129,
		"LD B, V1":        0xF133,
		"LD [I], V1":      0xF155,
		"LD V1, [I]":      0xF165,
		"ld v1, [i] ; hi": 0xF165,
	}

	for src, want := range tests {
		asm, err := Assemble([]byte(src))
		assert.NoError(t, err, src)
		assert.Equal(t, []byte{byte(want >> 8), byte(want)}, asm.ROM, src)
	}
}

func TestAssembleDisassembleRoundTrip(t *testing.T) {
	for raw := 0; raw <= 0xFFFF; raw += 7 {
		inst := Decode(uint16(raw))
		if !inst.Valid() {
			continue
		}

		asm, err := Assemble([]byte(inst.String()))
		assert.NoError(t, err, inst.String())

		// every 00Ex word disassembles as CLS, but assembles to 00E0
		got := Decode(uint16(asm.ROM[0])<<8 | uint16(asm.ROM[1]))
		assert.Equal(t, inst.Op, got.Op, inst.String())
		assert.Equal(t, inst.String(), got.String())
	}
}

func TestAssembleLabels(t *testing.T) {
	src := `
start:
	CALL draw   ; forward reference
	JP   start
draw:
	LD   I, sprite
	DRW  V0, V1, 2
	RET
sprite:
	BYTE $1111...., #0F
table:
	WORD sprite, table
`
	asm, err := Assemble([]byte(src))
	assert.NoError(t, err)

	want := []byte{
		0x22, 0x04, // 200: CALL draw
		0x12, 0x00, // 202: JP start
		0xA2, 0x0A, // 204: LD I, sprite
		0xD0, 0x12, // 206: DRW V0, V1, 2
		0x00, 0xEE, // 208: RET
		0xF0, 0x0F, // 20A: sprite
		0x02, 0x0A, // 20C: table
		0x02, 0x0C,
	}

	if diff := cmp.Diff(want, asm.ROM); diff != "" {
		t.Errorf("rom: (-want, +got)\n%s", diff)
	}

	assert.Equal(t, 0x20A, asm.Labels["SPRITE"])
}

func TestAssembleDirectives(t *testing.T) {
	asm, err := Assemble([]byte("BYTE 1, \"AB\"\nALIGN 4\nPAD 2\nWORD #1234"))
	assert.NoError(t, err)

	assert.Equal(t, []byte{0x01, 'A', 'B', 0x00, 0x00, 0x00, 0x12, 0x34}, asm.ROM)
}

func TestAssembleErrors(t *testing.T) {
	tests := map[string]string{
		"FOO V0":                 "unexpected token",
		"JP nowhere":             "unresolved label: NOWHERE",
		"LD V0, later\nlater:":   "line 1: label used before defined",
		"LD V0, 256":             "line 1: operand out of range",
		"DRW V0, V1, 16":         "operand out of range",
		"JP V1, #200":            "illegal instruction",
		"a:\na:":                 "line 2: duplicate label",
		"CLS V0":                 "illegal instruction",
		"LD V0, [V1]":            "only [I]",
		"ALIGN 3":                "illegal alignment",
		"BYTE \"open":            "unterminated string",
		"PAD 4000":               "operand out of range",
	}

	for src, msg := range tests {
		_, err := Assemble([]byte(src))
		assert.Error(t, err, src)
		assert.True(t, strings.Contains(err.Error(), msg), "%q: %v", src, err)
	}
}

func TestAssembledProgramRuns(t *testing.T) {
	asm, err := Assemble([]byte(`
	LD   V0, 250
	LD   V1, 10
	ADD  V0, V1      ; 260 wraps to 4, carry
	LD   V2, VF
	LD   I, #300
	LD   B, V0
	LD   [I], V2
`))
	assert.NoError(t, err)

	vm, err := LoadROM(asm.ROM, Options{Quirks: DefaultQuirks()})
	assert.NoError(t, err)

	stepN(t, vm, 7)
	assert.Equal(t, byte(4), vm.V[0])
	assert.Equal(t, byte(1), vm.V[2])
	assert.Equal(t, []byte{4, 10, 1}, vm.Memory.Slice(0x300, 3))
}
