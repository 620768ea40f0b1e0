// Package term provides the raw-mode terminal I/O engine: KeyMap decodes
// bytes into logical keys, Terminal owns the line discipline, the async-
// interrupt wakeup pipe and the screen-diffing renderer, and DecoratedText
// lays out offscreen text for that renderer.
package term

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/sys"
	"golang.org/x/sys/unix"
)

// Logger receives diagnostic output from this package; currently the only
// message is a terminal-size query that fell back to the 24x80 default. It
// defaults to discarding everything; a host that wants terminal I/O
// tracing calls term.Logger.SetOutput(w).
var Logger = log.New(io.Discard, "term: ", 0)

// Terminal owns the raw-mode lifecycle of a Unix terminal, decodes key
// input via a KeyMap, and renders a DecoratedText to the screen using a
// line-by-line, column-by-column diff against what it believes is already
// on screen.
type Terminal struct {
	in, out *os.File
	caps    Capabilities
	keyMap  *KeyMap

	saved       *sys.Termios
	suspended   int
	metaPending bool

	// interrupt is the async-command wakeup pipe (spec.md §4.2/§4.6): a
	// producer thread writes one byte to wInterrupt to unblock a pending
	// wait_for_key, which drains it and synthesizes AsyncInterrupted.
	rInterrupt, wInterrupt *os.File

	// sigCh relays every signal the process receives; the goroutine reading
	// it only acts on SIGWINCH, setting sizeDirty so the next SetText knows
	// to re-query the kernel instead of trusting the cached size.
	sigCh     chan os.Signal
	sizeDirty atomic.Bool

	pending []key.Key

	// snapshot is what the Terminal believes is currently on screen.
	snapshot   *DecoratedText
	cursorLine int
	cursorCol  int // -1 means unknown, forcing a cr before the next move.

	rows, cols int
}

// NewTerminal captures the current line discipline attributes of in/out,
// installs a raw copy, emits smkx, and returns a ready-to-use Terminal.
// Close restores the original attributes and emits rmkx.
//
// NewTerminal fails if either in or out is not a terminal (e.g. stdin/
// stdout redirected to a file or pipe): raw mode has no meaning there, and
// a caller should fall back to line-oriented I/O instead of constructing
// a Terminal at all.
func NewTerminal(in, out *os.File, caps Capabilities) (*Terminal, error) {
	if !sys.IsATTY(in.Fd()) {
		return nil, fmt.Errorf("term: %s is not a terminal", in.Name())
	}
	if !sys.IsATTY(out.Fd()) {
		return nil, fmt.Errorf("term: %s is not a terminal", out.Name())
	}

	saved, err := sys.GetAttr(in)
	if err != nil {
		return nil, fmt.Errorf("term: get attr: %w", err)
	}
	raw := sys.MakeRaw(*saved)
	if err := sys.SetAttr(in, &raw); err != nil {
		return nil, fmt.Errorf("term: set attr: %w", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		sys.SetAttr(in, saved)
		return nil, fmt.Errorf("term: interrupt pipe: %w", err)
	}

	cc := ControlChars{
		EOF:       saved.Cc[unix.VEOF],
		Suspend:   saved.Cc[unix.VSUSP],
		Interrupt: saved.Cc[unix.VINTR],
		Quit:      saved.Cc[unix.VQUIT],
	}
	t := &Terminal{
		in: in, out: out, caps: caps,
		keyMap:     NewKeyMap(cc, caps),
		saved:      saved,
		rInterrupt: r, wInterrupt: w,
		snapshot:   NewDecoratedText(),
		cursorCol:  -1,
	}
	t.keyMap.Bell = t.Bell
	io.WriteString(out, caps.Smkx)
	t.rows, t.cols = t.querySize()

	t.sigCh = sys.NotifySignals()
	go t.relaySignals()

	return t, nil
}

// relaySignals watches sigCh for SIGWINCH and marks the cached size dirty.
// It runs until sigCh is closed, by StopSignals in Close.
func (t *Terminal) relaySignals() {
	for sig := range t.sigCh {
		if sig == sys.SIGWINCH {
			t.sizeDirty.Store(true)
		}
	}
}

func (t *Terminal) querySize() (rows, cols int) {
	rows, cols, err := sys.WinSize(t.out)
	if err != nil {
		Logger.Printf("term: WinSize: %v, falling back to 24x80", err)
		return 24, 80
	}
	return rows, cols
}

// Close commits any pending text and restores the original line discipline
// attributes and rmkx.
func (t *Terminal) Close() error {
	t.Commit(false)
	io.WriteString(t.out, t.caps.Rmkx)
	sys.StopSignals(t.sigCh)
	t.rInterrupt.Close()
	t.wInterrupt.Close()
	return sys.SetAttr(t.in, t.saved)
}

// suspend is a reference-counted scoped acquisition (spec.md §4.2): the
// first call restores the saved attributes and emits rmkx; the matching
// resume (the last outstanding one) reinstalls raw mode and emits smkx
// again. Nested calls are cheap no-ops beyond the refcount.
//
// Use via SuspendTerminal, not directly, so resume always runs even if the
// caller panics or returns early.
func (t *Terminal) suspend() {
	t.suspended++
	if t.suspended == 1 {
		sys.SetAttr(t.in, t.saved)
		io.WriteString(t.out, t.caps.Rmkx)
	}
}

func (t *Terminal) resume() {
	t.suspended--
	if t.suspended == 0 {
		raw := sys.MakeRaw(*t.saved)
		sys.SetAttr(t.in, &raw)
		io.WriteString(t.out, t.caps.Smkx)
	}
}

// SuspendTerminal suspends raw mode for the duration of f, restoring it
// (if no other suspension is outstanding) once f returns, including if f
// panics. It is how EmacsMode runs a client's execute(text) hook, and how
// the editor delivers SIGINT/SIGQUIT/SIGTSTP, with a clean TTY.
func SuspendTerminal(t *Terminal, f func()) {
	t.suspend()
	defer t.resume()
	f()
}

// AsyncInterrupt wakes a blocked WaitForKey call and causes it to return
// key.AsyncInterrupted. It is safe to call from any goroutine.
func (t *Terminal) AsyncInterrupt() {
	t.wInterrupt.Write([]byte{0})
}

// WaitForKey blocks (if blocking is true) until at least one key is
// available, selecting on stdin and the async-interrupt pipe. It feeds any
// stdin bytes read through the KeyMap, post-processes Escape into a
// pending Alt modifier, and appends the results to the pending buffer. On
// an async interrupt, it drains one byte and appends the synthetic
// key.AsyncInterrupted without touching the KeyMap state.
func (t *Terminal) WaitForKey(blocking bool) error {
	timeout := time.Duration(-1)
	if !blocking {
		timeout = 0
	}
	for len(t.pending) == 0 {
		ready, err := sys.WaitForRead(timeout, t.in, t.rInterrupt)
		if err != nil {
			return err
		}
		if ready[1] {
			var b [1]byte
			t.rInterrupt.Read(b[:])
			t.pending = append(t.pending, key.AsyncInterrupted)
			return nil
		}
		if !ready[0] {
			return nil // non-blocking poll, nothing ready
		}
		var b [1]byte
		n, err := t.in.Read(b[:])
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		for _, k := range t.keyMap.Feed(b[0]) {
			if pk, ok := t.postProcess(k); ok {
				t.pending = append(t.pending, pk)
			}
		}
		if !blocking {
			return nil
		}
	}
	return nil
}

// postProcess implements the Escape-as-Alt-modifier rule from spec.md
// §4.1: a produced Escape consumes itself and arms metaPending, reported
// by ok=false so the caller buffers nothing for it; the next produced key
// has Alt OR'd in. key.AsyncInterrupted shares the numeric value 0 with
// this "nothing yet" state, but never passes through here: WaitForKey
// appends it to pending directly, bypassing postProcess entirely.
func (t *Terminal) postProcess(k key.Key) (key.Key, bool) {
	if k == key.Escape {
		t.metaPending = true
		return 0, false
	}
	if t.metaPending {
		t.metaPending = false
		return key.K(rune(k), key.Alt), true
	}
	return k, true
}

// GetKey pops and returns one buffered key, and whether one was available.
func (t *Terminal) GetKey() (key.Key, bool) {
	if len(t.pending) == 0 {
		return 0, false
	}
	k := t.pending[0]
	t.pending = t.pending[1:]
	return k, true
}

// HaveKey reports whether GetKey would return a key without blocking.
func (t *Terminal) HaveKey() bool { return len(t.pending) > 0 }

// Bell emits the terminal bell capability.
func (t *Terminal) Bell() { io.WriteString(t.out, t.caps.Bel) }

// SetText re-queries the terminal size if a SIGWINCH arrived since the
// last call (§5.1: the cache is otherwise trusted), lets d wrap and clip
// itself to fit, and diffs the result against the current snapshot,
// emitting only the minimum escape sequences needed to bring the screen
// in sync. The cursor is hidden for the duration and restored on return.
func (t *Terminal) SetText(d *DecoratedText) error {
	if t.sizeDirty.CompareAndSwap(true, false) {
		t.rows, t.cols = t.querySize()
	}
	cursorRow, cursorCol := d.Prepare(t.rows, t.cols)

	var out strings.Builder
	out.WriteString(t.caps.Civis)

	t.diff(&out, d)
	t.moveTo(&out, cursorRow, cursorCol)

	out.WriteString(t.caps.Cnorm)

	if _, err := io.WriteString(t.out, out.String()); err != nil {
		// Reentrancy guard (spec.md §4.2): on a failed write, mark the
		// cursor column unknown and write the same output once more.
		// Nothing is committed before the retry, and the retried bytes
		// are not recomputed.
		t.cursorCol = -1
		_, err2 := io.WriteString(t.out, out.String())
		if err2 != nil {
			return err2
		}
	}
	t.snapshot = d
	t.cursorLine, t.cursorCol = cursorRow, cursorCol
	return nil
}

func lastLineCol(d *DecoratedText) int {
	if d.NumLines() == 0 {
		return 0
	}
	return len(d.Line(d.NumLines() - 1))
}

// diff walks old and new line by line, column by column, moving the
// cursor to the first differing column of each changed line and
// overwriting from there.
func (t *Terminal) diff(out *strings.Builder, d *DecoratedText) {
	old := t.snapshot
	for line := 0; line < d.NumLines(); line++ {
		newLine := d.Line(line)
		var oldLine string
		if line < old.NumLines() {
			oldLine = old.Line(line)
		}
		if newLine == oldLine {
			continue
		}
		col := commonPrefixLen(oldLine, newLine)
		t.moveToLine(out, line, col, line >= old.NumLines())
		out.WriteString(newLine[col:])
		t.cursorLine, t.cursorCol = line, len(newLine)
		if len(newLine) < len(oldLine) {
			out.WriteString(strings.Repeat(" ", len(oldLine)-len(newLine)))
			t.cursorCol = len(oldLine)
		}
	}
	for line := d.NumLines(); line < old.NumLines(); line++ {
		t.moveToLine(out, line, 0, false)
		out.WriteString(strings.Repeat(" ", len(old.Line(line))))
		t.cursorCol = len(old.Line(line))
	}
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// moveTo emits the cheapest available capability sequence to move the
// tracked cursor from its believed position to (line, col), in the
// priority order from spec.md §4.2: hpa, then parametric cub/cuf/cuu/cud,
// then single-cell variants, then the bw (columns x cub1) fallback for
// moving up one line, then a last-resort cr + nel replay.
func (t *Terminal) moveTo(out *strings.Builder, line, col int) {
	t.moveToLine(out, line, col, false)
}

// moveToLine is moveTo with an extra forceScroll flag, set by diff when line
// is being written to for the first time since the last snapshot. Per
// original_source/terminal.cpp:1060-1069, a transition onto a line that has
// never been on screen before must go through a real newline for its last
// step, not a cursor-down capability: cud moves within the existing screen
// buffer and clamps at the terminal's last row instead of scrolling it.
func (t *Terminal) moveToLine(out *strings.Builder, line, col int, forceScroll bool) {
	if line != t.cursorLine {
		t.moveVertical(out, line, forceScroll)
	}
	if col != t.cursorCol {
		t.moveHorizontal(out, col)
	}
	t.cursorLine, t.cursorCol = line, col
}

func (t *Terminal) moveVertical(out *strings.Builder, line int, forceScroll bool) {
	delta := line - t.cursorLine
	switch {
	case t.cursorCol < 0:
		// Unknown column: safest is cr then nel/newline repeated.
		out.WriteString(t.caps.Cr)
		for i := 0; i < delta; i++ {
			out.WriteString(orDefault(t.caps.Nel, "\r\n"))
		}
		for i := 0; i > delta; i-- {
			t.moveUpOneLine(out)
		}
	case delta > 0 && forceScroll:
		t.moveDownCapability(out, delta-1)
		out.WriteString(orDefault(t.caps.Nel, "\r\n"))
		// The newline above is a carriage-return + linefeed, so the real
		// cursor is now at column 0 regardless of where it was before.
		t.cursorCol = 0
	case delta > 0:
		t.moveDownCapability(out, delta)
	case delta < 0:
		if t.caps.Cuu != "" {
			out.WriteString(fmt.Sprintf(t.caps.Cuu, -delta))
		} else if t.caps.Cuu1 != "" {
			out.WriteString(strings.Repeat(t.caps.Cuu1, -delta))
		} else {
			for i := 0; i > delta; i-- {
				t.moveUpOneLine(out)
			}
		}
	}
}

// moveDownCapability emits delta rows of downward movement using whichever
// of cud/cud1/literal-newline capability is cheapest, without regard to
// whether those rows have been seen on screen before. Callers that need the
// scroll guarantee for a never-before-seen row handle the last step
// themselves; this only moves within rows already known to exist.
func (t *Terminal) moveDownCapability(out *strings.Builder, delta int) {
	switch {
	case delta <= 0:
	case t.caps.Cud != "":
		out.WriteString(fmt.Sprintf(t.caps.Cud, delta))
	case t.caps.Cud1 != "":
		out.WriteString(strings.Repeat(t.caps.Cud1, delta))
	default:
		for i := 0; i < delta; i++ {
			out.WriteString("\n")
		}
	}
}

// moveUpOneLine is the bw fallback from spec.md §4.2: "columns x cub1" as
// an up-one-line primitive, used when neither cuu nor cuu1 is available.
// Per §9's open question this is intentionally not implemented
// symmetrically for the downward case (the source it's grounded on
// doesn't either); moveDownCapability falls back to literal newlines
// instead, and the forceScroll path in moveVertical always ends on one.
func (t *Terminal) moveUpOneLine(out *strings.Builder) {
	if t.caps.Bw && t.caps.Cub1 != "" {
		out.WriteString(strings.Repeat(t.caps.Cub1, t.cols))
		return
	}
	// No way to move up without cuu/cuu1/bw: give up silently, matching
	// spec.md §7's "transient terminal capability absence" taxonomy. The
	// caller's cr+nel replay already got the cursor to the right column
	// on whatever line we're stuck on.
}

func (t *Terminal) moveHorizontal(out *strings.Builder, col int) {
	switch {
	case t.caps.Hpa != "":
		out.WriteString(fmt.Sprintf(t.caps.Hpa, col+1))
	case col == 0:
		out.WriteString(t.caps.Cr)
	case col > t.cursorCol && t.cursorCol >= 0:
		delta := col - t.cursorCol
		if t.caps.Cuf != "" {
			out.WriteString(fmt.Sprintf(t.caps.Cuf, delta))
		} else if t.caps.Cuf1 != "" {
			out.WriteString(strings.Repeat(t.caps.Cuf1, delta))
		}
	case t.cursorCol >= 0:
		delta := t.cursorCol - col
		if t.caps.Cub != "" {
			out.WriteString(fmt.Sprintf(t.caps.Cub, delta))
		} else if t.caps.Cub1 != "" {
			out.WriteString(strings.Repeat(t.caps.Cub1, delta))
		}
	default:
		out.WriteString(t.caps.Cr)
		if t.caps.Cuf != "" {
			out.WriteString(fmt.Sprintf(t.caps.Cuf, col))
		} else if t.caps.Cuf1 != "" {
			out.WriteString(strings.Repeat(t.caps.Cuf1, col))
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Commit positions the cursor at the end of the current text, optionally
// emits a newline, forgets the snapshot, and marks the cursor column
// unknown so the next SetText is forced to emit a cr before positioning.
func (t *Terminal) Commit(addNewline bool) {
	var out strings.Builder
	t.moveTo(&out, t.snapshot.NumLines()-1, lastLineCol(t.snapshot))
	if addNewline {
		out.WriteString("\r\n")
	}
	io.WriteString(t.out, out.String())
	t.snapshot = NewDecoratedText()
	t.cursorLine = 0
	t.cursorCol = -1
}

// Hide replaces the snapshot with an empty one and marks the cursor
// column unknown, without writing anything: the next SetText call will
// redraw from scratch believing the screen is blank at the last tracked
// position.
func (t *Terminal) Hide() {
	t.snapshot = NewDecoratedText()
	t.cursorCol = -1
}

// Redisplay clears the screen (via the clear capability if present,
// otherwise by seeking to the origin) and redraws the current snapshot.
func (t *Terminal) Redisplay() error {
	if t.caps.Clear != "" {
		io.WriteString(t.out, t.caps.Clear)
	} else {
		// No clear capability: seek back to the origin of the text
		// already on screen and redraw over it in place (spec.md §7
		// treats missing capabilities as soft failures, never fatal).
		var out strings.Builder
		t.moveTo(&out, 0, 0)
		io.WriteString(t.out, out.String())
	}
	snap := t.snapshot
	t.snapshot = NewDecoratedText()
	t.cursorLine, t.cursorCol = 0, -1
	return t.SetText(snap)
}

// Size returns the terminal's last-queried dimensions.
func (t *Terminal) Size() (rows, cols int) { return t.rows, t.cols }
