package term

import (
	"fmt"

	"github.com/zygoloid/redline/pkg/redline/key"
)

type seqKey struct {
	seq string
	key key.Key
}

// capabilityKeyTable builds the source-(b) table from spec.md §4.1: the
// key-discovery capabilities in caps, plus caps.Ignored mapped to
// key.Ignored.
func capabilityKeyTable(caps Capabilities) []seqKey {
	t := []seqKey{
		{caps.Kent, key.Enter},
		{caps.Kcuu1, key.Up}, {caps.Kcud1, key.Down},
		{caps.Kcub1, key.Left}, {caps.Kcuf1, key.Right},
		{caps.Kbs, key.Backspace},
		{caps.Kpp, key.PageUp}, {caps.Knp, key.PageDown},
		{caps.Khome, key.Home}, {caps.Kend, key.End},
		{caps.Kich1, key.Insert}, {caps.Kdch1, key.Delete},
	}
	for _, s := range caps.Ignored {
		t = append(t, seqKey{s, key.Ignored})
	}
	return t
}

// fallbackKeyTable is source (c) from spec.md §4.1: a hard-coded table of
// CSI and SS3 (ESC-O) sequences that terminfo entries commonly omit,
// generated from the xterm modifier encoding (mod-1 as a 3-bit field:
// Shift|Alt|Ctrl) rather than hand-enumerated, since the full table spans
// every direction/navigation key crossed with every modifier combination.
// It is inserted last, so NewKeyMap's first-write-wins insert order means
// it never overwrites a terminal-provided or terminfo-derived mapping.
var fallbackKeyTable = buildFallbackKeyTable()

func buildFallbackKeyTable() []seqKey {
	var t []seqKey

	// Unmodified and modified CSI sequences ending in a letter: \e[A or,
	// modified, \e[1;<mod>A.
	letterKeys := map[byte]key.Key{
		'A': key.Up, 'B': key.Down, 'C': key.Right, 'D': key.Left,
		'H': key.Home, 'F': key.End,
	}
	for letter, k := range letterKeys {
		t = append(t, seqKey{fmt.Sprintf("\x1b[%c", letter), k})
		for mod := 2; mod <= 8; mod++ {
			mk := xtermModify(k, mod)
			t = append(t, seqKey{fmt.Sprintf("\x1b[1;%d%c", mod, letter), mk})
		}
	}

	// SS3 (ESC-O) style: \eOA for Up, etc. No modifier encoding exists for
	// this style; terminals that support modifiers switch to CSI style.
	ss3Keys := map[byte]key.Key{
		'A': key.Up, 'B': key.Down, 'C': key.Right, 'D': key.Left,
		'H': key.Home, 'F': key.End,
	}
	for letter, k := range ss3Keys {
		t = append(t, seqKey{fmt.Sprintf("\x1bO%c", letter), k})
	}

	// CSI sequences ending in '~', identified by a leading numeric code:
	// \e[3~ is Delete; modified, \e[3;<mod>~.
	tildeKeys := map[int]key.Key{
		1: key.Home, 2: key.Insert, 3: key.Delete, 4: key.End,
		5: key.PageUp, 6: key.PageDown,
	}
	for code, k := range tildeKeys {
		t = append(t, seqKey{fmt.Sprintf("\x1b[%d~", code), k})
		for mod := 2; mod <= 8; mod++ {
			mk := xtermModify(k, mod)
			t = append(t, seqKey{fmt.Sprintf("\x1b[%d;%d~", code, mod), mk})
		}
	}

	return t
}

// xtermModify applies an xterm modifier code (2-8, where mod-1 is a
// Shift|Alt|Ctrl bitfield; Shift has no effect on the core's Key space per
// spec.md §3) to a base Key. Shift-only modification (mod==2) collapses to
// the unmodified key, matching how most terminals actually behave for
// Shift-arrow.
func xtermModify(k key.Key, mod int) key.Key {
	bits := mod - 1
	var mods []key.Mod
	if bits&0x4 != 0 { // Ctrl
		mods = append(mods, key.Ctrl)
	}
	if bits&0x2 != 0 { // Alt
		mods = append(mods, key.Alt)
	}
	if len(mods) == 0 {
		return k
	}
	return key.K(rune(k), mods...)
}
