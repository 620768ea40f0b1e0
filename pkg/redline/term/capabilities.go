package term

// Capabilities names the terminfo-derived strings and flags the rest of
// this package consumes. Concrete terminfo database access is out of
// scope for this module (see spec.md §1); DefaultCapabilities returns a
// hard-coded table valid for xterm-compatible terminals, which is the
// "equivalent facility" the spec allows. A caller that wants real terminfo
// lookups (e.g. by linking a cgo terminfo binding, or shelling out to
// infocmp) constructs its own Capabilities and passes it to NewTerminal.
type Capabilities struct {
	// Output capabilities (spec.md §6).
	Bel, Smkx, Rmkx, Civis, Cnorm, Cr, Nel, Clear string
	// Hpa moves to an absolute column; %d is replaced with a 1-based
	// column number (the convention of xterm's CSI n G).
	Hpa string
	// Cub/Cuf/Cuu/Cud move left/right/up/down by a parametric count; %d is
	// replaced with the count.
	Cub, Cuf, Cuu, Cud string
	// Cub1/Cuf1/Cuu1/Cud1 move left/right/up/down by exactly one cell.
	Cub1, Cuf1, Cuu1, Cud1 string
	// Bw: cub1 from column 0 wraps to the last column of the previous
	// line, making "columns x cub1" usable as an up-one-line primitive
	// when no cuu/cuu1 is available.
	Bw bool
	// Xenl: writing to the last column does not immediately wrap.
	Xenl bool
	// Os: the terminal can overstrike (rarely relevant; carried for
	// completeness since spec.md §6 lists it).
	Os bool

	// Key-discovery capabilities (spec.md §4.1(b)): each is the literal
	// byte sequence the terminal sends for that key, or "" if unknown.
	Kent, Kcuu1, Kcud1, Kcub1, Kcuf1   string
	Kbs, Kpp, Knp, Khome, Kend         string
	Kich1, Kdch1                       string
	// Ignored lists further capability sequences the terminal sends that
	// KeyMap should recognize and map to key.Ignored (function keys and
	// the long tail of rarely used navigation sequences) rather than
	// decoding them as a run of literal bytes.
	Ignored []string
}

// DefaultCapabilities returns a table of VT100/xterm-compatible escape
// sequences, the same fixed set of sequences a traditional xterm-derived
// terminfo entry would report for these capability names.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Bel:   "\a",
		Smkx:  "\x1b[?1h\x1b=",
		Rmkx:  "\x1b[?1l\x1b>",
		Civis: "\x1b[?25l",
		Cnorm: "\x1b[?25h",
		Cr:    "\r",
		Nel:   "\r\n",
		Clear: "\x1b[H\x1b[2J",

		Hpa: "\x1b[%dG",
		Cub: "\x1b[%dD", Cuf: "\x1b[%dC", Cuu: "\x1b[%dA", Cud: "\x1b[%dB",
		Cub1: "\x1b[D", Cuf1: "\x1b[C", Cuu1: "\x1b[A", Cud1: "\x1b[B",

		Bw: false, Xenl: true, Os: false,

		Kent:  "\x1bOM",
		Kcuu1: "\x1b[A", Kcud1: "\x1b[B", Kcub1: "\x1b[D", Kcuf1: "\x1b[C",
		Kbs:   "\x7f",
		Kpp:   "\x1b[5~", Knp: "\x1b[6~",
		Khome: "\x1b[H", Kend: "\x1b[F",
		Kich1: "\x1b[2~", Kdch1: "\x1b[3~",

		Ignored: xtermIgnoredCapabilities,
	}
}

// xtermIgnoredCapabilities are sequences xterm-compatible terminals send
// for keys the core has no logical Key for: function keys beyond the ones
// wired above, and a long tail of rarely used editing/navigation keys.
// They still need a trie entry each, mapped to key.Ignored, so that KeyMap
// resolves them deterministically instead of falling back to emitting
// each byte as a literal (which would otherwise insert garbage into the
// text buffer whenever one of these keys is pressed).
var xtermIgnoredCapabilities = []string{
	"\x1bOP", "\x1bOQ", "\x1bOR", "\x1bOS", // F1-F4 (G3-style)
	"\x1b[15~", "\x1b[17~", "\x1b[18~", "\x1b[19~", // F5-F8
	"\x1b[20~", "\x1b[21~", "\x1b[23~", "\x1b[24~", // F9-F12
	"\x1b[E", "\x1b[G", // kb2 (center of keypad), clear-all-tabs
	"\x1b[Z", // back-tab
}
