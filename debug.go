package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

var (
	/// True if pausing emulation (single stepping).
	///
	Paused bool
)

/// Show the HELP text in the log.
///
func DebugHelp() {
	Logger.Info("Virtual keys: 1-2-3-4 / Q-W-E-R / A-S-D-F / Z-X-C-V")
	Logger.Info("Emulation keys:")
	Logger.Info("  ESC      - Quit")
	Logger.Info("  BS       - Reboot (hold CTRL to reboot paused)")
	Logger.Info("  F1/H     - Help")
	Logger.Info("  F3       - Load ROM")
	Logger.Info("  F5/SPACE - Pause")
	Logger.Info("  F6/F10   - Step")
	Logger.Info("  F8       - Registers")
	Logger.Info("  F9       - Trace")
	Logger.Info("  [ / ]    - Slower / faster")
}

/// DebugPause pauses or resumes emulation, showing where it stopped.
///
func DebugPause(pause bool) {
	Paused = pause

	if Paused {
		Logger.Info("Paused", log.String("next", VM.Disassemble(VM.PC)))
	} else {
		Logger.Info("Resumed")
	}

	Title()
}

/// DebugStep executes a single instruction while paused.
///
func DebugStep() {
	if err := VM.Step(); err != nil {
		Logger.Error("Step failed", log.Err(err))
		return
	}

	Logger.Info("Step", log.String("next", VM.Disassemble(VM.PC)))
}

/// DebugSpeed shows the current processor speed.
///
func DebugSpeed() {
	Logger.Info("Speed", log.Int("instructions_per_second", VM.Speed))
	Title()
}

/// Show the current value of all the CHIP-8 registers.
///
func DebugRegisters() {
	for i := 0; i < 16; i += 4 {
		Logger.Info(fmt.Sprintf("V%X - #%02X  V%X - #%02X  V%X - #%02X  V%X - #%02X",
			i, VM.V[i], i+1, VM.V[i+1], i+2, VM.V[i+2], i+3, VM.V[i+3]))
	}

	Logger.Info("Registers",
		log.Hex("pc", VM.PC),
		log.Hex("i", VM.I),
		log.Int("sp", VM.Memory.Depth()),
		log.Hex("dt", VM.Timers.Delay),
		log.Hex("st", VM.Timers.Sound),
	)
}

/// DebugTrace logs the most recently executed instructions.
///
func DebugTrace() {
	for _, line := range Trace.Window(16) {
		Logger.Info(line)
	}
}

/// LaunchStats serves runtime statistics on a new goroutine.
///
func LaunchStats(addr string) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	Logger.Info("Stats server available", log.String("url", fmt.Sprintf("http://%s/debug/statsview", addr)))
}

/// DumpVM writes a graphviz graph of the virtual machine to file.
///
func DumpVM(file string, vm *chip8.CHIP_8) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("creating memviz file: %w", err)
	}
	defer f.Close()

	memviz.Map(f, vm)

	return nil
}
