package cpu

const (
	NUM_KEYS = 16 // Keys 0x0-0xF of the hex keypad.
)

// Keypad is the 16-key hex keypad state. The presentation layer writes
// it through Set; the skip-if-key and wait-for-key opcodes read it.
type Keypad struct {
	keys [NUM_KEYS]bool
}

// Set records a key press or release. Key indexes outside 0x0-0xF are
// ignored.
func (kp *Keypad) Set(key uint8, pressed bool) {
	if int(key) < len(kp.keys) {
		kp.keys[key] = pressed
	}
}

// Pressed reports whether a key is currently held. Only the low nibble
// of the key index is significant.
func (kp *Keypad) Pressed(key uint8) bool {
	return kp.keys[key&0xF]
}

// FirstPressed returns the lowest-numbered key currently held.
func (kp *Keypad) FirstPressed() (key uint8, ok bool) {
	for n, pressed := range kp.keys {
		if pressed {
			return uint8(n), true
		}
	}

	return
}

// Reset releases all keys.
func (kp *Keypad) Reset() {
	clear(kp.keys[:])
}
