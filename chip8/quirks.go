package chip8

import "strings"

/// Quirks select between the behaviors of different CHIP-8 interpreters
/// for the handful of instructions they never agreed on. The zero value
/// selects every legacy behavior; DefaultQuirks is what most programs
/// written today expect.
///
type Quirks struct {
	/// ModernShift shifts VX in place for 8XY6 and 8XYE. Otherwise VY is
	/// copied into VX before shifting.
	///
	ModernShift bool

	/// ModernJumpOffset makes BNNN jump to NNN + VX, where X is the high
	/// nibble of NNN (BXNN). Otherwise it always jumps to NNN + V0.
	///
	ModernJumpOffset bool

	/// ModernStoreAndLoad leaves I unchanged after FX55 and FX65.
	/// Otherwise I is advanced past the last register transferred.
	///
	ModernStoreAndLoad bool

	/// ShortStoreAndLoad advances I by X instead of X+1 when the legacy
	/// store and load behavior is selected, as CHIP-48 did.
	///
	ShortStoreAndLoad bool

	/// ModernIndexAddition never touches VF for FX1E. Otherwise VF is set
	/// to 1 when I+VX leaves the address space and cleared to 0 when it
	/// doesn't, as the Amiga interpreter did (and Spacefight 2091!
	/// requires).
	///
	ModernIndexAddition bool

	/// WrapSprites wraps sprite rows past the bottom edge back to the top
	/// instead of clipping them.
	///
	WrapSprites bool
}

/// DefaultQuirks returns the behaviors expected by most programs.
///
func DefaultQuirks() Quirks {
	return Quirks{
		ModernShift:         true,
		ModernJumpOffset:    false,
		ModernStoreAndLoad:  true,
		ModernIndexAddition: true,
	}
}

/// String lists the non-modern quirks enabled.
///
func (q Quirks) String() string {
	var s []string

	if !q.ModernShift {
		s = append(s, "shift-vy")
	}
	if q.ModernJumpOffset {
		s = append(s, "jump-vx")
	}
	if !q.ModernStoreAndLoad {
		if q.ShortStoreAndLoad {
			s = append(s, "index-advance-short")
		} else {
			s = append(s, "index-advance")
		}
	}
	if !q.ModernIndexAddition {
		s = append(s, "index-overflow")
	}
	if q.WrapSprites {
		s = append(s, "wrap")
	}

	if len(s) == 0 {
		return "none"
	}

	return strings.Join(s, ",")
}
