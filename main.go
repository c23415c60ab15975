package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/internal/cli"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// TraceLength is how many executed instructions are kept for debugging.
///
const TraceLength = 32

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.CHIP_8

	/// Options the emulator was started with.
	///
	Options cli.Options

	/// Logger shared by the host and the VM.
	///
	Logger *log.Logger

	/// Keypad overriding the VM's own keys, set by hosts without key
	/// release events.
	///
	Keypad chip8.Keypad

	/// Trace of the most recently executed instructions.
	///
	Trace = NewHistory(TraceLength)

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var err error

	Options, err = cli.ParseFlags(os.Args[1:])
	Logger = cli.CreateLogger(Options.Debug, Options.Quiet)

	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		}
		Logger.Fatal(err.Error())
	}

	if err := run(); err != nil {
		Logger.Error("Emulation stopped", log.Err(err))

		// show what led up to host-level failures
		if errors.Is(err, chip8.ErrStackUnderflow) {
			Trace.Dump(Logger)
		}

		os.Exit(1)
	}
}

func run() error {
	if Options.Prompt {
		if err := Prompt(&Options); err != nil {
			return err
		}
	}

	if Options.Stats != "" {
		LaunchStats(Options.Stats)
	}

	// terminals only report key presses
	var keys *TermKeys
	if Options.Terminal {
		keys = NewTermKeys(time.Now)
		Keypad = keys
	}

	if err := Load(Options); err != nil {
		return err
	}

	if Options.Memviz != "" {
		defer func() {
			if err := DumpVM(Options.Memviz, VM); err != nil {
				Logger.Error("Dumping virtual machine failed", log.Err(err))
			}
		}()
	}

	if Options.Terminal {
		return RunTerminal(keys)
	}

	return RunWindow()
}

/// Load a ROM (or assembly source) and create a new virtual machine.
///
func Load(opts cli.Options) error {
	program, err := cli.LoadProgram(opts)
	if err != nil {
		return err
	}

	vm, err := chip8.LoadROM(program, chip8.Options{
		Quirks: opts.Quirks,
		Speed:  opts.Speed,
		Logger: Logger,
		Keypad: Keypad,
		Trace:  Trace.Record,
	})
	if err != nil {
		return err
	}

	VM = vm
	Options.ROM = opts.ROM
	Trace.Clear()

	Logger.Info("Loaded",
		log.String("rom", filepath.Base(opts.ROM)),
		log.Int("size", len(program)),
		log.String("quirks", opts.Quirks.String()),
		log.Int("speed", VM.Speed),
	)

	Title()
	return nil
}

/// Title shows the ROM, speed and pause state in the window title.
///
func Title() {
	if Window == nil {
		return
	}

	title := fmt.Sprintf("CHIP-8 - %s (%d ips)", filepath.Base(Options.ROM), VM.Speed)
	if Paused {
		title += " - paused"
	}

	Window.SetTitle(title)
}

/// RunWindow runs the CHIP-8 in an SDL window until it's closed.
///
func RunWindow() error {
	var err error

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	// create the main window and renderer
	flags := sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(chip8.Width*Scale, chip8.Height*Scale, uint32(flags)); err != nil {
		return err
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	Title()

	screen, err := NewScreen(Renderer)
	if err != nil {
		return err
	}
	defer screen.Destroy()

	// run silently without an audio device
	audio, err := NewAudio()
	if err != nil {
		Logger.Warn("No audio", log.Err(err))
	} else {
		defer audio.Close()
	}

	// processor pacing and refresh rate
	clock := time.NewTicker(time.Millisecond)
	video := time.NewTicker(time.Second / 60)
	defer clock.Stop()
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		select {
		case <-video.C:
			if err := Refresh(screen); err != nil {
				return err
			}

			if audio != nil {
				if err := audio.Update(!Paused && VM.ShouldSignalTone()); err != nil {
					return err
				}
			}
		case <-clock.C:
			if err := VM.Process(Paused); err != nil {
				return err
			}
		}
	}

	return nil
}

/// Refresh presents the display if it changed and redraws the window.
///
func Refresh(screen *Screen) error {
	if VM.Display.Dirty() {
		if err := VM.Display.Present(screen); err != nil {
			return err
		}
	}

	w, h := Window.GetSize()

	Renderer.SetDrawColor(32, 42, 53, 255)
	Renderer.Clear()

	// keep the 2:1 aspect ratio, centered
	sw, sh := w, w/2
	if sh > h {
		sw, sh = h*2, h
	}

	if err := screen.Copy((w-sw)/2, (h-sh)/2, sw, sh); err != nil {
		return err
	}

	Renderer.Present()
	return nil
}
