package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_Quirks(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(q *chip8.Quirks)
	}{
		{
			name: "default flags",
			args: []string{"pong.ch8"},
			want: func(q *chip8.Quirks) {},
		},
		{
			name: "shift-vy flag",
			args: []string{"-shift-vy", "pong.ch8"},
			want: func(q *chip8.Quirks) { q.ModernShift = false },
		},
		{
			name: "jump-vx flag",
			args: []string{"-jump-vx", "pong.ch8"},
			want: func(q *chip8.Quirks) { q.ModernJumpOffset = true },
		},
		{
			name: "index-advance flag",
			args: []string{"-index-advance", "pong.ch8"},
			want: func(q *chip8.Quirks) { q.ModernStoreAndLoad = false },
		},
		{
			name: "index-advance-short flag",
			args: []string{"-index-advance-short", "pong.ch8"},
			want: func(q *chip8.Quirks) {
				q.ModernStoreAndLoad = false
				q.ShortStoreAndLoad = true
			},
		},
		{
			name: "index-overflow flag",
			args: []string{"-index-overflow", "pong.ch8"},
			want: func(q *chip8.Quirks) { q.ModernIndexAddition = false },
		},
		{
			name: "wrap flag",
			args: []string{"-wrap", "pong.ch8"},
			want: func(q *chip8.Quirks) { q.WrapSprites = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseFlags(tt.args)
			assert.NoError(t, err)

			want := chip8.DefaultQuirks()
			tt.want(&want)
			assert.Equal(t, want, opts.Quirks)
			assert.Equal(t, "pong.ch8", opts.ROM)
		})
	}
}

func TestParseFlags_Options(t *testing.T) {
	opts, err := ParseFlags([]string{"-speed", "1200", "-debug", "-tty", "-stats", "localhost:12600", "demo.ASM"})
	assert.NoError(t, err)

	assert.Equal(t, 1200, opts.Speed)
	assert.True(t, opts.Debug)
	assert.True(t, opts.Terminal)
	assert.True(t, opts.Assemble)
	assert.Equal(t, "localhost:12600", opts.Stats)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{name: "no rom", args: nil, usage: true},
		{name: "argument after rom", args: []string{"pong.ch8", "-wrap"}, usage: true},
		{name: "unknown flag", args: []string{"-nope", "pong.ch8"}, usage: true},
		{name: "speed too low", args: []string{"-speed", "10", "pong.ch8"}},
		{name: "exclusive index flags", args: []string{"-index-advance", "-index-advance-short", "pong.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}

func TestParseFlags_Prompt(t *testing.T) {
	opts, err := ParseFlags([]string{"-prompt"})
	assert.NoError(t, err)
	assert.True(t, opts.Prompt)
	assert.Equal(t, "", opts.ROM)
}

func TestLoadProgram(t *testing.T) {
	dir := t.TempDir()

	rom := filepath.Join(dir, "loop.ch8")
	assert.NoError(t, os.WriteFile(rom, []byte{0x12, 0x00}, 0o600))

	src := filepath.Join(dir, "loop.asm")
	assert.NoError(t, os.WriteFile(src, []byte("loop: JP loop\n"), 0o600))

	data, err := LoadProgram(Options{ROM: rom})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x00}, data)

	data, err = LoadProgram(Options{ROM: src, Assemble: true})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x00}, data)

	bad := filepath.Join(dir, "bad.asm")
	assert.NoError(t, os.WriteFile(bad, []byte("JP nowhere\n"), 0o600))

	_, err = LoadProgram(Options{ROM: bad, Assemble: true})
	assert.ErrorContains(t, err, "unresolved label")

	_, err = LoadProgram(Options{ROM: filepath.Join(dir, "missing.ch8")})
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}
