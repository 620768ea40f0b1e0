// Package key defines the Key and KeyCombination types shared by every
// other package in redline: the terminal decoder (term.KeyMap) produces
// Keys, KeyBindings maps them to Commands, and Text/Cursor know nothing
// about them at all.
package key

import "fmt"

// Key is a 32-bit codepoint identifying either a literal byte read from the
// terminal or one of a fixed set of named keys that have no natural byte
// representation (arrows, paging, Insert/Delete, and the synthetic keys the
// editor generates for itself).
//
// Printable ASCII occupies 0x20-0x7E and is its own Key value. Ctrl and Alt
// are not stored as separate flag bits; applying them transforms the base
// value the same way a real terminal would encode them on the wire: Ctrl
// subtracts 64 (Ctrl+'A' == 1, matching the literal byte a terminal sends),
// Alt ORs in 0x80. Named keys live at or above 0x200, out of the range
// either transform can reach, so they can never collide with a modified
// printable key.
type Key int32

// Mod is a modifier applied when constructing a Key with K. It is not part
// of the Key's representation; K folds it into the numeric value.
type Mod int

const (
	// Ctrl subtracts 64 from the base key.
	Ctrl Mod = 1 + iota
	// Alt ORs 0x80 into the base key.
	Alt
)

// K constructs a Key from a base rune (or a named Key constant) with zero or
// more modifiers applied in order. Ctrl+Alt+Key is representable by passing
// both modifiers; Ctrl is applied first so that, for letters, the result
// matches the control code a terminal would send before Alt additionally
// sets the high bit.
func K(base rune, mods ...Mod) Key {
	k := Key(base)
	for _, m := range mods {
		switch m {
		case Ctrl:
			// A terminal sends the same control byte for Ctrl+x and
			// Ctrl+X, so lowercase letters are folded to uppercase first.
			if k >= 'a' && k <= 'z' {
				k -= 'a' - 'A'
			}
			k -= 64
		case Alt:
			k |= 0x80
		}
	}
	return k
}

// KCtrlAlt is a convenience for K(base, Ctrl, Alt).
func KCtrlAlt(base rune) Key { return K(base, Ctrl, Alt) }

const namedBase Key = 0x200

// Named keys with no natural byte representation. These, plus the fixed
// control codes below, are the only values KeyMap ever emits that are not a
// literal input byte.
const (
	Up Key = namedBase + iota
	Down
	Left
	Right
	PageUp
	PageDown
	Home
	End
	Insert
	Delete
	// Eof is emitted when the terminal-provided EOF character is read, or
	// when a non-terminal caller reaches end of input.
	Eof
	// Suspend is emitted for the terminal-provided SUSP character.
	Suspend
	// Interrupt is emitted for the terminal-provided INTR character.
	Interrupt
	// Quit is emitted for the terminal-provided QUIT character.
	Quit
	// Ignored is emitted for terminfo capabilities the KeyMap recognizes but
	// has no logical Key for (function keys and the long tail of rarely
	// used sequences); it is always a no-op at dispatch time.
	Ignored
)

// Fixed control codes that double as named keys. These are literal bytes a
// terminal actually sends, so they are given their conventional values
// rather than being placed in the named range.
const (
	// AsyncInterrupted is never produced by KeyMap; Terminal synthesizes it
	// directly when the async-command wakeup pipe becomes readable.
	AsyncInterrupted Key = 0
	Enter             Key = '\r'
	Backspace         Key = 127
	Escape            Key = 0x1B
	Tab               Key = '\t'
)

func (k Key) String() string {
	if name, ok := namedKeyNames[k]; ok {
		return name
	}
	alt := k&0x80 != 0 && (k&^0x80) >= 0x20 && (k&^0x80) <= 0x7E
	if alt {
		return "Alt+" + Key(k&^0x80).String()
	}
	if k >= 0 && k < 0x20 {
		return fmt.Sprintf("Ctrl+%c", rune(k+64))
	}
	if k >= 0x20 && k <= 0x7E {
		return string(rune(k))
	}
	return fmt.Sprintf("Key(%d)", int32(k))
}

var namedKeyNames = map[Key]string{
	Up: "Up", Down: "Down", Left: "Left", Right: "Right",
	PageUp: "PageUp", PageDown: "PageDown", Home: "Home", End: "End",
	Insert: "Insert", Delete: "Delete", Eof: "Eof", Suspend: "Suspend",
	Interrupt: "Interrupt", Quit: "Quit", Ignored: "Ignored",
	AsyncInterrupted: "AsyncInterrupted", Enter: "Enter",
	Backspace: "Backspace", Escape: "Escape", Tab: "Tab",
}
