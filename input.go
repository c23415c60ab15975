package main

import (
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]byte{
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_V: 0xF,
	}

	/// The same mapping for characters typed in a terminal.
	///
	KeyRunes = map[rune]byte{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				break
			}

			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				if ev.Type == sdl.KEYDOWN {
					VM.PressKey(key)
				} else {
					VM.ReleaseKey(key)
				}
			} else if ev.Type == sdl.KEYDOWN {
				if !EmulationKey(ev.Keysym) {
					return false
				}
			}
		}
	}

	return true
}

/// EmulationKey handles keys that control the emulator instead of the
/// CHIP-8. Returns false if the emulator should quit.
///
func EmulationKey(key sdl.Keysym) bool {
	switch key.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		if err := VM.Reset(); err != nil {
			Logger.Error(err.Error())
			return false
		}

		// holding control during reset will reboot paused
		if key.Mod&sdl.KMOD_CTRL != 0 {
			Paused = true
		}

		Trace.Clear()
	case sdl.SCANCODE_F3:
		LoadDialog()
	case sdl.SCANCODE_H, sdl.SCANCODE_F1:
		DebugHelp()
	case sdl.SCANCODE_LEFTBRACKET:
		VM.DecSpeed()
		DebugSpeed()
	case sdl.SCANCODE_RIGHTBRACKET:
		VM.IncSpeed()
		DebugSpeed()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		DebugPause(!Paused)
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if Paused {
			DebugStep()
		}
	case sdl.SCANCODE_F8:
		if Paused {
			DebugRegisters()
		}
	case sdl.SCANCODE_F9:
		DebugTrace()
	}

	return true
}
