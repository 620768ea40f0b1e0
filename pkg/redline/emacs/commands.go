package emacs

import (
	"os"
	"syscall"

	"github.com/zygoloid/redline/pkg/redline"
	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/redline/term"
	"github.com/zygoloid/redline/pkg/redline/text"
	"github.com/zygoloid/redline/pkg/sys"
)

// bindings is the key table every EmacsMode is constructed with. Grounded
// in the teacher's emacs.cpp self-registering ModeCommand<EmacsMode>
// globals, collapsed here into one init that calls AddAll once.
var bindings = redline.NewKeyBindings()

func isPrintable(k key.Key) bool { return k >= 0x20 && k <= 0x7E }

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// wordLeft and wordRight are pure functions over a Text and a starting
// position. wordLeft skips any run of whitespace immediately to the left,
// then the run of non-whitespace beyond it; wordRight skips any run of
// non-whitespace immediately to the right, then the run of whitespace
// beyond it, landing at the start of the next word. Both return where that
// leaves the cursor. Grounded in the teacher's free functions of the same
// name.
func wordLeft(t *text.Text, p text.Pos) text.Pos {
	c := t.NewCursor(p)
	defer c.Close()
	for c.GetLeft() != 0 && isSpaceByte(c.GetLeft()) {
		c.Move(-1, 0)
	}
	for c.GetLeft() != 0 && !isSpaceByte(c.GetLeft()) {
		c.Move(-1, 0)
	}
	return c.Pos()
}

func wordRight(t *text.Text, p text.Pos) text.Pos {
	c := t.NewCursor(p)
	defer c.Close()
	for c.GetRight() != 0 && !isSpaceByte(c.GetRight()) {
		c.Move(1, 0)
	}
	for c.GetRight() != 0 && isSpaceByte(c.GetRight()) {
		c.Move(1, 0)
	}
	return c.Pos()
}

// beginLine is Text::Begin(line) from the teacher: column 0 of line, but
// End() of the buffer (not Begin() of the last line) if line runs past
// the last line. DeleteLine relies on this asymmetry to recognize "this
// is the last, empty line" as Begin(line) == Begin(line+1).
func beginLine(t *text.Text, line int) text.Pos {
	n := t.NumLines()
	switch {
	case line >= n:
		return textEnd(t)
	case line < 0:
		return textBegin(t)
	default:
		return text.Pos{Line: line, Column: 0}
	}
}

func sendSignalToForeground(sig syscall.Signal) {
	_ = sys.KillForegroundProcessGroup(int(os.Stdin.Fd()), sig)
}

// --- insertion ---

func InsertChar(m *EmacsMode, keys key.Combination) {
	b := make([]byte, len(keys))
	for i, k := range keys {
		b[i] = byte(k)
	}
	m.text.Insert(text.Left, m.cursor.Pos(), string(b))
}

func InsertNewline(m *EmacsMode) {
	m.text.Insert(text.Left, m.cursor.Pos(), "\n")
}

var (
	insertChar     = redline.NewModeCommand[EmacsMode]("insert-char", InsertChar)
	insertNewline  = redline.NewModeCommandNoKeys[EmacsMode]("insert-newline", InsertNewline)
)

// --- cursor movement ---

func CursorLeft(m *EmacsMode)  { m.cursor.Move(-1, 0) }
func CursorRight(m *EmacsMode) { m.cursor.Move(1, 0) }
func CursorUp(m *EmacsMode)    { m.cursor.Move(0, -1) }
func CursorDown(m *EmacsMode)  { m.cursor.Move(0, 1) }

func CursorWordLeft(m *EmacsMode)  { m.SetCursorPos(wordLeft(m.text, m.cursor.Pos())) }
func CursorWordRight(m *EmacsMode) { m.SetCursorPos(wordRight(m.text, m.cursor.Pos())) }

// CursorUpOrHistoryPrevious moves up a line if that's possible within the
// buffer, else browses to the previous history entry — the Up key does
// double duty depending on whether the buffer spans multiple lines.
func CursorUpOrHistoryPrevious(m *EmacsMode) {
	if m.cursor.Line() > 0 {
		m.cursor.Move(0, -1)
		return
	}
	m.HistoryPrevious()
}

func CursorDownOrHistoryNext(m *EmacsMode) {
	if m.cursor.Line() < m.text.NumLines()-1 {
		m.cursor.Move(0, 1)
		return
	}
	m.HistoryNext()
}

// CursorHome and CursorEnd go to the start/end of the current line,
// or, if already there, of the previous/next line: Move(-1, 0)/Move(1, 0)
// stays on the same line unless the cursor is already at its start/end,
// in which case it wraps across the line boundary first.
func CursorHome(m *EmacsMode) {
	tmp := m.text.NewCursor(m.cursor.Pos())
	tmp.Move(-1, 0)
	line := tmp.Line()
	tmp.Close()
	m.SetCursorPos(beginLine(m.text, line))
}

func CursorEnd(m *EmacsMode) {
	tmp := m.text.NewCursor(m.cursor.Pos())
	tmp.Move(1, 0)
	line := tmp.Line()
	tmp.Close()
	m.SetCursorPos(text.Pos{Line: line, Column: len(m.text.Line(line))})
}

var (
	cursorLeft                = redline.NewModeCommandNoKeys[EmacsMode]("cursor-left", CursorLeft)
	cursorRight               = redline.NewModeCommandNoKeys[EmacsMode]("cursor-right", CursorRight)
	cursorUp                  = redline.NewModeCommandNoKeys[EmacsMode]("cursor-up", CursorUp)
	cursorDown                = redline.NewModeCommandNoKeys[EmacsMode]("cursor-down", CursorDown)
	cursorWordLeft            = redline.NewModeCommandNoKeys[EmacsMode]("cursor-word-left", CursorWordLeft)
	cursorWordRight           = redline.NewModeCommandNoKeys[EmacsMode]("cursor-word-right", CursorWordRight)
	cursorUpOrHistoryPrevious = redline.NewModeCommandNoKeys[EmacsMode]("cursor-up-or-history-previous", CursorUpOrHistoryPrevious)
	cursorDownOrHistoryNext   = redline.NewModeCommandNoKeys[EmacsMode]("cursor-down-or-history-next", CursorDownOrHistoryNext)
	cursorHome                = redline.NewModeCommandNoKeys[EmacsMode]("cursor-home", CursorHome)
	cursorEnd                 = redline.NewModeCommandNoKeys[EmacsMode]("cursor-end", CursorEnd)
)

// --- deletion ---

func DeleteLeft(m *EmacsMode) {
	p := m.cursor.Pos()
	tmp := m.text.NewCursor(p)
	tmp.Move(-1, 0)
	m.text.Delete(tmp.Pos(), p)
	tmp.Close()
}

func DeleteRight(m *EmacsMode) {
	p := m.cursor.Pos()
	tmp := m.text.NewCursor(p)
	tmp.Move(1, 0)
	m.text.Delete(p, tmp.Pos())
	tmp.Close()
}

// DeleteToEnd deletes from the cursor to the end of its line (Ctrl+K),
// or, if the cursor is already there, the newline joining it to the next
// line, so repeated Ctrl+K eventually collapses the whole buffer onto one
// line. The removed text replaces killBuffer.
func DeleteToEnd(m *EmacsMode) {
	from := m.cursor.Pos()
	to := text.Pos{Line: from.Line, Column: len(m.text.Line(from.Line))}
	if from == to {
		tmp := m.text.NewCursor(from)
		tmp.Move(1, 0)
		to = tmp.Pos()
		tmp.Close()
	}
	m.killBuffer = m.text.GetRange(from, to)
	m.text.Delete(from, to)
}

// DeleteLine deletes the cursor's entire line, including its trailing
// newline. If the cursor's line is the last line and it's empty, there's
// nothing there to delete (beginLine(line) == beginLine(line+1), both
// landing on End() of the buffer), so it deletes the line above instead,
// taking the empty line's leading newline along with it.
func DeleteLine(m *EmacsMode) {
	line := m.cursor.Line()
	if beginLine(m.text, line) == beginLine(m.text, line+1) {
		line--
	}
	from := beginLine(m.text, line)
	to := beginLine(m.text, line+1)
	m.killBuffer = m.text.GetRange(from, to)
	m.text.Delete(from, to)
}

// DeleteRightOrEndMode ends the mode (Ctrl+D/Eof on an empty buffer is
// how a shell-like embedder reads "exit"), otherwise behaves like
// DeleteRight.
func DeleteRightOrEndMode(m *EmacsMode) {
	if bufferEmpty(m.text) {
		m.Editor().EndMode()
		return
	}
	DeleteRight(m)
}

func DeleteWordLeft(m *EmacsMode) {
	from := wordLeft(m.text, m.cursor.Pos())
	to := m.cursor.Pos()
	m.killBuffer = m.text.GetRange(from, to)
	m.text.Delete(from, to)
}

func Yank(m *EmacsMode) {
	m.text.Insert(text.Right, m.cursor.Pos(), m.killBuffer)
}

// Undo is a placeholder: this editing surface does not yet track an undo
// log.
func Undo(m *EmacsMode) {}

var (
	deleteLeft           = redline.NewModeCommandNoKeys[EmacsMode]("delete-to-left", DeleteLeft)
	deleteRight          = redline.NewModeCommandNoKeys[EmacsMode]("delete-to-right", DeleteRight)
	deleteToEnd          = redline.NewModeCommandNoKeys[EmacsMode]("delete-to-end", DeleteToEnd)
	deleteLine           = redline.NewModeCommandNoKeys[EmacsMode]("delete-line", DeleteLine)
	deleteRightOrEndMode = redline.NewModeCommandNoKeys[EmacsMode]("delete-to-right-or-end-mode", DeleteRightOrEndMode)
	deleteWordLeft       = redline.NewModeCommandNoKeys[EmacsMode]("delete-word-to-left", DeleteWordLeft)
	yank                 = redline.NewModeCommandNoKeys[EmacsMode]("yank", Yank)
	undo                 = redline.NewModeCommandNoKeys[EmacsMode]("undo", Undo)
)

// --- signals and lifecycle ---

// suspendAndSignal wraps delivering sig to the foreground process group
// in SuspendTerminal, so whatever catches the signal sees a clean TTY.
func suspendAndSignal(t *term.Terminal, sig syscall.Signal) {
	term.SuspendTerminal(t, func() { sendSignalToForeground(sig) })
}

// CancelOrSigInt commits an empty buffer and delivers SIGINT to the
// foreground process group, or on a non-empty buffer just commits it
// with a trailing newline and resets to a fresh line. A no-op without a
// live terminal: there is no foreground process group to signal.
func CancelOrSigInt(m *EmacsMode) {
	t := m.Editor().Terminal()
	if t == nil {
		return
	}
	if bufferEmpty(m.text) {
		t.Commit(false)
		suspendAndSignal(t, syscall.SIGINT)
		return
	}
	t.Commit(true)
	m.text.Delete(textBegin(m.text), textEnd(m.text))
	m.SetHistoryPositionToEnd()
}

func SigQuit(m *EmacsMode) {
	t := m.Editor().Terminal()
	if t == nil {
		return
	}
	t.Commit(true)
	suspendAndSignal(t, syscall.SIGQUIT)
}

func Suspend(m *EmacsMode) {
	t := m.Editor().Terminal()
	if t == nil {
		return
	}
	t.Commit(false)
	suspendAndSignal(t, syscall.SIGTSTP)
}

func Redisplay(m *EmacsMode) {
	if t := m.Editor().Terminal(); t != nil {
		t.Redisplay()
	}
}

var (
	cancelOrSigInt = redline.NewModeCommandNoKeys[EmacsMode]("cancel-or-sigint", CancelOrSigInt)
	sigquit        = redline.NewModeCommandNoKeys[EmacsMode]("sigquit", SigQuit)
	suspend        = redline.NewModeCommandNoKeys[EmacsMode]("suspend", Suspend)
	redisplay      = redline.NewModeCommandNoKeys[EmacsMode]("redisplay", Redisplay)
)

// --- history, completion, and submission ---

var (
	historyPrevious = redline.NewModeCommandNoKeys[EmacsMode]("history-previous", func(m *EmacsMode) { m.HistoryPrevious() })
	historyNext     = redline.NewModeCommandNoKeys[EmacsMode]("history-next", func(m *EmacsMode) { m.HistoryNext() })
	tabComplete     = redline.NewModeCommandNoKeys[EmacsMode]("tab-complete", (*EmacsMode).TabComplete)
	acceptLine      = redline.NewModeCommandNoKeys[EmacsMode]("accept-line", func(m *EmacsMode) { m.AcceptLine() })
	reverseISearch  = redline.NewModeCommandNoKeys[EmacsMode]("reverse-i-search", func(m *EmacsMode) { newReverseISearchMode(m) })
)

// AcceptLineAndHistoryNext accepts the buffer and, if that succeeded,
// advances one step further in history than where the accepted entry
// was — useful for replaying several history entries in sequence.
func AcceptLineAndHistoryNext(m *EmacsMode) {
	pos := m.HistoryPosition()
	if m.AcceptLine() {
		m.SetHistoryPosition(pos)
		m.HistoryNext()
	}
}

var acceptLineAndHistoryNext = redline.NewModeCommandNoKeys[EmacsMode]("accept-line-and-history-next", AcceptLineAndHistoryNext)

func init() {
	bindings.AddAll(
		redline.KeyBinding{Cmd: insertNewline, Keys: [3]key.Combination{
			key.Single(key.K('\r', key.Alt)),
			key.Single(key.KCtrlAlt('M')),
			key.Single(key.KCtrlAlt('J')),
		}},

		redline.KeyBinding{Cmd: cursorLeft, Keys: [3]key.Combination{
			key.Single(key.Left), key.Single(key.K('B', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: cursorRight, Keys: [3]key.Combination{
			key.Single(key.Right), key.Single(key.K('F', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: cursorUp, Keys: [3]key.Combination{
			key.Single(key.K(rune(key.Up), key.Alt)),
		}},
		redline.KeyBinding{Cmd: cursorDown, Keys: [3]key.Combination{
			key.Single(key.K(rune(key.Down), key.Alt)),
		}},
		redline.KeyBinding{Cmd: cursorWordLeft, Keys: [3]key.Combination{
			key.Single(key.K(rune(key.Left), key.Ctrl)),
			key.Single(key.K(rune(key.Left), key.Alt)),
			key.Single(key.K('b', key.Alt)),
		}},
		redline.KeyBinding{Cmd: cursorWordRight, Keys: [3]key.Combination{
			key.Single(key.K(rune(key.Right), key.Ctrl)),
			key.Single(key.K(rune(key.Right), key.Alt)),
			key.Single(key.K('f', key.Alt)),
		}},
		redline.KeyBinding{Cmd: cursorUpOrHistoryPrevious, Keys: [3]key.Combination{
			key.Single(key.Up),
		}},
		redline.KeyBinding{Cmd: cursorDownOrHistoryNext, Keys: [3]key.Combination{
			key.Single(key.Down),
		}},
		redline.KeyBinding{Cmd: cursorHome, Keys: [3]key.Combination{
			key.Single(key.K('A', key.Ctrl)), key.Single(key.Home),
		}},
		redline.KeyBinding{Cmd: cursorEnd, Keys: [3]key.Combination{
			key.Single(key.K('E', key.Ctrl)), key.Single(key.End),
		}},

		redline.KeyBinding{Cmd: deleteLeft, Keys: [3]key.Combination{
			key.Single(key.Backspace), key.Single(key.K('H', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: deleteRight, Keys: [3]key.Combination{
			key.Single(key.Delete),
		}},
		redline.KeyBinding{Cmd: deleteToEnd, Keys: [3]key.Combination{
			key.Single(key.K('K', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: deleteLine, Keys: [3]key.Combination{
			key.Single(key.K('U', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: deleteRightOrEndMode, Keys: [3]key.Combination{
			key.Single(key.K('D', key.Ctrl)), key.Single(key.Eof),
		}},
		redline.KeyBinding{Cmd: deleteWordLeft, Keys: [3]key.Combination{
			key.Single(key.K('W', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: yank, Keys: [3]key.Combination{
			key.Single(key.K('Y', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: undo, Keys: [3]key.Combination{
			key.Single(key.K('_', key.Ctrl)),
		}},

		redline.KeyBinding{Cmd: cancelOrSigInt, Keys: [3]key.Combination{
			key.Single(key.K('C', key.Ctrl)), key.Single(key.Interrupt),
		}},
		redline.KeyBinding{Cmd: sigquit, Keys: [3]key.Combination{
			key.Single(key.Quit),
		}},
		redline.KeyBinding{Cmd: suspend, Keys: [3]key.Combination{
			key.Single(key.K('Z', key.Ctrl)), key.Single(key.Suspend),
		}},
		redline.KeyBinding{Cmd: redisplay, Keys: [3]key.Combination{
			key.Single(key.K('L', key.Ctrl)),
		}},

		redline.KeyBinding{Cmd: historyPrevious, Keys: [3]key.Combination{
			key.Single(key.K('P', key.Ctrl)),
			key.Single(key.K(rune(key.Up), key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: historyNext, Keys: [3]key.Combination{
			key.Single(key.K('N', key.Ctrl)),
			key.Single(key.K(rune(key.Down), key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: tabComplete, Keys: [3]key.Combination{
			key.Single(key.Tab),
		}},
		redline.KeyBinding{Cmd: acceptLine, Keys: [3]key.Combination{
			key.Single(key.Enter),
			key.Single(key.K('M', key.Ctrl)),
			key.Single(key.K('J', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: acceptLineAndHistoryNext, Keys: [3]key.Combination{
			key.Single(key.K('O', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: reverseISearch, Keys: [3]key.Combination{
			key.Single(key.K('R', key.Ctrl)),
		}},
	)
}
