package main

import (
	"bufio"
	"io"
	"os"
	"sync"
	"syscall"
	"time"
	"unicode"

	"github.com/massung/chip8vm/chip8"
	"golang.org/x/term"
)

/// KeyHold is how long a key stays down after its byte is read. Terminals
/// never report key releases.
///
const KeyHold = 150 * time.Millisecond

/// TermScreen presents the CHIP-8 display in a terminal, two pixel rows
/// per line of half blocks.
///
type TermScreen struct {
	out    *bufio.Writer
	pixels [chip8.Height][chip8.Width]bool
}

/// NewTermScreen creates a screen writing ANSI frames to w.
///
func NewTermScreen(w io.Writer) *TermScreen {
	return &TermScreen{
		out: bufio.NewWriter(w),
	}
}

/// SetPixel implements chip8.Surface.
///
func (scr *TermScreen) SetPixel(x, y int, on bool) {
	scr.pixels[y][x] = on
}

/// Flush writes the frame from the top-left corner of the terminal.
///
func (scr *TermScreen) Flush() error {
	scr.out.WriteString("\x1b[H")

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			top, bottom := scr.pixels[y][x], scr.pixels[y+1][x]

			switch {
			case top && bottom:
				scr.out.WriteRune('█')
			case top:
				scr.out.WriteRune('▀')
			case bottom:
				scr.out.WriteRune('▄')
			default:
				scr.out.WriteByte(' ')
			}
		}

		// raw mode doesn't translate newlines
		scr.out.WriteString("\r\n")
	}

	return scr.out.Flush()
}

/// TermKeys is the chip8.Keypad of the terminal host. Every key byte read
/// holds its CHIP-8 key down for KeyHold.
///
type TermKeys struct {
	now       func() time.Time
	pressedAt [16]time.Time
}

/// NewTermKeys creates a keypad timing key presses with now.
///
func NewTermKeys(now func() time.Time) *TermKeys {
	return &TermKeys{now: now}
}

/// Press the CHIP-8 key mapped to b, if any. Returns false if b isn't a
/// keypad key.
///
func (k *TermKeys) Press(b byte) bool {
	key, ok := KeyRunes[unicode.ToLower(rune(b))]
	if !ok {
		return false
	}

	k.pressedAt[key] = k.now()
	return true
}

/// Pressed implements chip8.Keypad.
///
func (k *TermKeys) Pressed(key byte) bool {
	t := k.pressedAt[key&0xF]

	return !t.IsZero() && k.now().Sub(t) < KeyHold
}

/// AnyPressed implements chip8.Keypad.
///
func (k *TermKeys) AnyPressed() (byte, bool) {
	for key := byte(0); key < 16; key++ {
		if k.Pressed(key) {
			return key, true
		}
	}

	return 0, false
}

/// Reset releases every key.
///
func (k *TermKeys) Reset() {
	k.pressedAt = [16]time.Time{}
}

/// TerminalHost reads raw stdin on a goroutine and hands each byte to
/// the emulation loop.
///
type TerminalHost struct {
	keys    chan byte
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

/// NewTerminalHost creates a host reading from stdin.
///
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		keys:   make(chan byte, 16),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		fd:     int(os.Stdin.Fd()),
	}
}

/// Start puts the terminal in raw, non-blocking mode and begins reading.
///
func (h *TerminalHost) Start() error {
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return err
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.keys <- buf[0]
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()

	return nil
}

/// Stop the reader and restore the terminal.
///
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})

	// unblock a reader waiting to deliver a key
	for {
		select {
		case <-h.keys:
			continue
		case <-h.done:
		}
		break
	}

	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

/// RunTerminal runs the CHIP-8 inside the terminal until ESC or ^C. The VM
/// must have been loaded with keys as its keypad.
///
func RunTerminal(keys *TermKeys) error {
	host := NewTerminalHost()
	if err := host.Start(); err != nil {
		return err
	}
	defer host.Stop()

	screen := NewTermScreen(os.Stdout)
	tone := false

	// clear the terminal and hide the cursor while running
	os.Stdout.WriteString("\x1b[2J\x1b[?25l")
	defer os.Stdout.WriteString("\x1b[?25h\r\n")

	clock := time.NewTicker(time.Millisecond)
	video := time.NewTicker(time.Second / 60)
	defer clock.Stop()
	defer video.Stop()

	for {
		select {
		case b := <-host.keys:
			if keys.Press(b) {
				continue
			}

			switch b {
			case 0x1B, 0x03:
				return nil
			case ' ':
				Paused = !Paused
			case 0x7F, 0x08:
				if err := VM.Reset(); err != nil {
					return err
				}

				keys.Reset()
				Trace.Clear()
			case '[':
				VM.DecSpeed()
			case ']':
				VM.IncSpeed()
			case '.':
				if Paused {
					DebugStep()
				}
			}
		case <-video.C:
			if VM.Display.Dirty() {
				if err := VM.Display.Present(screen); err != nil {
					return err
				}
			}
		case <-clock.C:
			if err := VM.Process(Paused); err != nil {
				return err
			}

			// ring the bell when the tone starts
			if on := VM.ShouldSignalTone() && !Paused; on != tone {
				if on {
					os.Stdout.WriteString("\a")
				}
				tone = on
			}
		}
	}
}
