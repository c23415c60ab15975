// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Options are the emulator options selected on the command line.
type Options struct {
	ROM      string // program to run, raw words or assembly source
	Assemble bool   // assemble ROM before running it
	Prompt   bool   // ask for the ROM and quirks with native dialogs
	Terminal bool   // run in the terminal instead of an SDL window

	Speed  int
	Quirks chip8.Quirks

	Debug bool
	Quiet bool

	Stats  string // statsview server address, disabled if empty
	Memviz string // file the VM structure graph is written to on exit
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <rom file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// ParseFlags parses the command line arguments, without the program name.
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)

	var opts Options
	quirks := readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 1:
		opts.ROM = rest[0]
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("Potential argument %s found after rom file, please pass the rom file as last argument", rest[1]),
		}
	case !opts.Prompt:
		return opts, &UsageError{flags: flags, msg: "no rom file given"}
	}

	if err := normalizeOptions(&opts, quirks); err != nil {
		return opts, err
	}

	return opts, nil
}

// quirkFlags are the raw quirk switches, applied on top of chip8.DefaultQuirks.
type quirkFlags struct {
	shiftVY           bool
	jumpVX            bool
	indexAdvance      bool
	indexAdvanceShort bool
	indexOverflow     bool
	wrap              bool
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) *quirkFlags {
	var q quirkFlags

	flags.BoolVar(&q.shiftVY, "shift-vy", false, "8XY6/8XYE copy VY into VX before shifting")
	flags.BoolVar(&q.jumpVX, "jump-vx", false, "BXNN jumps to XNN + VX instead of NNN + V0")
	flags.BoolVar(&q.indexAdvance, "index-advance", false, "FX55/FX65 advance I by X+1")
	flags.BoolVar(&q.indexAdvanceShort, "index-advance-short", false, "FX55/FX65 advance I by X")
	flags.BoolVar(&q.indexOverflow, "index-overflow", false, "FX1E sets VF when I leaves the address space")
	flags.BoolVar(&q.wrap, "wrap", false, "wrap sprites at the bottom of the screen instead of clipping")

	flags.IntVar(&opts.Speed, "speed", chip8.DefaultSpeed, "instructions executed per second")
	flags.BoolVar(&opts.Assemble, "asm", false, "assemble the rom file before running it (implied by .asm and .c8s)")
	flags.BoolVar(&opts.Prompt, "prompt", false, "pick the rom file and quirks with dialogs")
	flags.BoolVar(&opts.Terminal, "tty", false, "run inside the terminal")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log errors")
	flags.StringVar(&opts.Stats, "stats", "", "serve runtime statistics on this address, for example localhost:12600")
	flags.StringVar(&opts.Memviz, "memviz", "", "write a graphviz dump of the virtual machine to this file on exit")

	return &q
}

// normalizeOptions validates option values and builds the quirks.
func normalizeOptions(opts *Options, q *quirkFlags) error {
	if opts.Speed < chip8.MinSpeed || opts.Speed > chip8.MaxSpeed {
		return fmt.Errorf("speed %d out of range %d-%d", opts.Speed, chip8.MinSpeed, chip8.MaxSpeed)
	}

	if q.indexAdvance && q.indexAdvanceShort {
		return fmt.Errorf("-index-advance and -index-advance-short are exclusive")
	}

	switch strings.ToLower(filepath.Ext(opts.ROM)) {
	case ".asm", ".c8s":
		opts.Assemble = true
	}

	opts.Quirks = chip8.DefaultQuirks()
	opts.Quirks.ModernShift = !q.shiftVY
	opts.Quirks.ModernJumpOffset = q.jumpVX
	opts.Quirks.ModernStoreAndLoad = !q.indexAdvance && !q.indexAdvanceShort
	opts.Quirks.ShortStoreAndLoad = q.indexAdvanceShort
	opts.Quirks.ModernIndexAddition = !q.indexOverflow
	opts.Quirks.WrapSprites = q.wrap

	return nil
}

// CreateLogger creates a logger honoring the debug and quiet options.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// LoadProgram reads the ROM file, assembling it first if asked to.
func LoadProgram(opts Options) ([]byte, error) {
	data, err := os.ReadFile(opts.ROM)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	if !opts.Assemble {
		return data, nil
	}

	asm, err := chip8.Assemble(data)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", filepath.Base(opts.ROM), err)
	}

	return asm.ROM, nil
}
