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

package main

import (
	"fmt"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

// History is a bounded record of the most recently executed instructions.
type History struct {
	// buf is a ring of traced instructions.
	buf []string

	// pos is where the next instruction is written.
	pos int

	// full is true once the ring has wrapped.
	full bool
}

// NewHistory creates a History remembering the last n instructions.
func NewHistory(n int) *History {
	if n < 1 {
		n = 1
	}

	return &History{
		buf: make([]string, n),
	}
}

// Record an instruction about to execute. Can be used as chip8.Options.Trace.
func (h *History) Record(pc uint16, inst chip8.Instruction) {
	h.buf[h.pos] = fmt.Sprintf("%04X - %s", pc, inst)

	// advance, wrapping over the oldest line
	if h.pos++; h.pos == len(h.buf) {
		h.pos = 0
		h.full = true
	}
}

// Len returns how many instructions are remembered.
func (h *History) Len() int {
	if h.full {
		return len(h.buf)
	}

	return h.pos
}

// Window returns up to the n most recent instructions, oldest first.
func (h *History) Window(n int) []string {
	if n > h.Len() {
		n = h.Len()
	}

	lines := make([]string, 0, n)

	// walk forward from the oldest line wanted
	for i := h.pos - n; i < h.pos; i++ {
		lines = append(lines, h.buf[(i+len(h.buf))%len(h.buf)])
	}

	return lines
}

// Clear forgets every instruction.
func (h *History) Clear() {
	h.pos = 0
	h.full = false
}

// Dump logs the whole history, oldest first.
func (h *History) Dump(logger *log.Logger) {
	for _, line := range h.Window(h.Len()) {
		logger.Error("Trace", log.String("instruction", line))
	}
}
