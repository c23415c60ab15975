package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/internal/cli"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
)

/// PickROM opens a native file dialog to choose a ROM or assembly file.
/// Returns an empty string if cancelled.
///
func PickROM() (string, error) {
	file, err := dialog.File().
		Title("Load CHIP-8 ROM").
		Filter("CHIP-8 ROMs", "ch8", "c8", "rom").
		Filter("CHIP-8 assembly", "asm", "c8s").
		Filter("All files", "*").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}

	return file, err
}

/// PromptQuirks asks which legacy behaviors the program expects.
///
func PromptQuirks(q *chip8.Quirks) {
	ask := func(question string) bool {
		return dialog.Message("%s", question).Title("CHIP-8 Quirks").YesNo()
	}

	q.ModernShift = !ask("Should 8XY6 and 8XYE shift VY into VX?")
	q.ModernJumpOffset = ask("Should BXNN jump to XNN + VX instead of NNN + V0?")
	q.ModernStoreAndLoad = !ask("Should FX55 and FX65 advance I?")
	if !q.ModernStoreAndLoad {
		q.ShortStoreAndLoad = ask("Should I be advanced by X instead of X+1?")
	}
	q.ModernIndexAddition = !ask("Should FX1E set VF when I overflows?")
	q.WrapSprites = ask("Should sprites wrap at the bottom of the screen?")
}

/// Prompt fills in the ROM and quirks with dialogs.
///
func Prompt(opts *cli.Options) error {
	if opts.ROM == "" {
		file, err := PickROM()
		if err != nil {
			return err
		}
		if file == "" {
			return errors.New("no rom file selected")
		}

		opts.ROM = file
	}

	opts.Assemble = opts.Assemble || isSource(opts.ROM)

	PromptQuirks(&opts.Quirks)
	return nil
}

/// LoadDialog picks a new ROM and loads it, keeping the current quirks.
///
func LoadDialog() {
	file, err := PickROM()
	if err != nil {
		Logger.Error("Load dialog failed", log.Err(err))
		return
	}
	if file == "" {
		return
	}

	opts := Options
	opts.ROM = file
	opts.Assemble = isSource(file)

	if err := Load(opts); err != nil {
		Logger.Error("Loading failed", log.Err(err))
	}
}

/// True if the file is assembly source rather than a ROM image.
///
func isSource(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".asm", ".c8s":
		return true
	}

	return false
}
