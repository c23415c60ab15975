package chip8

/// Keypad is how the CHIP-8 sees the 16-key hex keypad.
///
type Keypad interface {
	/// Pressed returns true if key (0-F) is held down.
	///
	Pressed(key byte) bool

	/// AnyPressed returns the lowest key held down, if any.
	///
	AnyPressed() (byte, bool)
}

/// Keys is a Keypad holding the state of each key.
///
type Keys [16]bool

/// Press a key.
///
func (k *Keys) Press(key byte) {
	k[key&0xF] = true
}

/// Release a key.
///
func (k *Keys) Release(key byte) {
	k[key&0xF] = false
}

/// Reset releases all keys.
///
func (k *Keys) Reset() {
	*k = Keys{}
}

/// Pressed implements Keypad.
///
func (k *Keys) Pressed(key byte) bool {
	return k[key&0xF]
}

/// AnyPressed implements Keypad.
///
func (k *Keys) AnyPressed() (byte, bool) {
	for i, down := range k {
		if down {
			return byte(i), true
		}
	}

	return 0, false
}
