package emacs

import (
	"github.com/zygoloid/redline/pkg/redline"
	"github.com/zygoloid/redline/pkg/redline/history"
	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/redline/term"
)

// ReverseISearchMode is a transient mode pushed on top of an EmacsMode by
// Ctrl+R: each printable key extends the search string, matching against
// the base mode's buffer and history. Any key it doesn't itself bind
// pops it back off the stack and is re-dispatched against the base mode.
// Grounded in the teacher's nested ReverseISearchMode class.
type ReverseISearchMode struct {
	redline.BaseMode

	base      *EmacsMode
	searchFor string
	positions []riPosition
}

// riPosition snapshots enough of an EmacsMode's state to restore it: the
// history cursor it was showing, plus the buffer cursor's (line, column).
type riPosition struct {
	historyPos   history.Cursor
	line, column int
}

func snapshotPosition(m *EmacsMode) riPosition {
	p := m.cursor.Pos()
	return riPosition{historyPos: m.HistoryPosition(), line: p.Line, column: p.Column}
}

// activate restores m to the state hp snapshots: the history position
// first (which may replace the whole buffer), then the absolute cursor
// position within whatever buffer that leaves, matching the teacher's
// Begin().Move(column, line).
func (hp riPosition) activate(m *EmacsMode) {
	m.SetHistoryPosition(hp.historyPos)
	tmp := m.Text().NewCursor(textBegin(m.Text()))
	tmp.Move(hp.column, hp.line)
	m.SetCursorPos(tmp.Pos())
	tmp.Close()
}

// newReverseISearchMode pushes a ReverseISearchMode on top of base,
// seeded with base's current position as the sole entry on the undo
// stack.
func newReverseISearchMode(base *EmacsMode) *ReverseISearchMode {
	rm := &ReverseISearchMode{
		BaseMode:  redline.NewBaseMode(base.Editor(), reverseISearchBindings),
		base:      base,
		positions: []riPosition{snapshotPosition(base)},
	}
	base.Editor().PushMode(rm)
	return rm
}

// Render draws the base mode's buffer, then appends a reverse-i-search
// status line underneath it.
func (rm *ReverseISearchMode) Render(t *term.Terminal) {
	dt := term.NewDecoratedText()
	row, col := rm.base.renderInto(dt)
	dt.SetCursor(row, col)
	dt.Add(term.Normal, "\nreverse-i-search: "+rm.searchFor+"_")
	t.SetText(dt)
}

// GetHandler special-cases single printable keys as search characters;
// anything else bound in reverseISearchBindings runs as-is; anything
// unbound ends the search, re-renders the base mode so its next Commit
// doesn't leave the status line behind, and hands the key to whatever
// the base mode does with it.
func (rm *ReverseISearchMode) GetHandler(keys key.Combination) *redline.Command {
	if len(keys) == 1 && isPrintable(keys[0]) {
		return insertCharRISearch
	}
	if cmd := rm.BaseMode.GetHandler(keys); cmd != nil {
		return cmd
	}

	handler := rm.base.GetHandler(keys)
	if t := rm.base.Editor().Terminal(); t != nil {
		rm.base.Render(t)
	}
	rm.base.Editor().EndMode()
	return handler
}

func (rm *ReverseISearchMode) insert(k key.Key) {
	rm.searchFor += string(byte(k))
	rm.positions = append(rm.positions, rm.positions[len(rm.positions)-1])
	if !rm.matches() && !rm.next() {
		rm.delete()
	}
}

func (rm *ReverseISearchMode) delete() {
	if rm.searchFor == "" {
		return
	}
	rm.searchFor = rm.searchFor[:len(rm.searchFor)-1]
	rm.positions = rm.positions[:len(rm.positions)-1]
	rm.positions[len(rm.positions)-1].activate(rm.base)
}

func (rm *ReverseISearchMode) matches() bool {
	c := rm.base.Cursor()
	t := rm.base.Text()
	tmp := t.NewCursor(c.Pos())
	tmp.Move(len(rm.searchFor), 0)
	got := t.GetRange(c.Pos(), tmp.Pos())
	tmp.Close()
	return got == rm.searchFor
}

// next walks the base mode's cursor leftward through its buffer looking
// for a match, falling back to earlier history entries (restarting the
// walk from the end of each) when the current buffer is exhausted.
// Grounded in the teacher's do/while Next().
func (rm *ReverseISearchMode) next() bool {
	t := rm.base.Text()
	for {
		for rm.base.Cursor().Pos() != textBegin(t) {
			rm.base.Cursor().Move(-1, 0)
			if rm.matches() {
				rm.positions[len(rm.positions)-1] = snapshotPosition(rm.base)
				return true
			}
		}
		if !rm.base.HistoryPrevious() {
			break
		}
	}
	if term := rm.base.Editor().Terminal(); term != nil {
		term.Bell()
	}
	rm.positions[len(rm.positions)-1].activate(rm.base)
	return false
}

// acceptLine ends the search, leaving whatever it found loaded in the
// base mode's buffer for further editing or submission — it does not
// itself submit the line.
func (rm *ReverseISearchMode) acceptLine() {
	rm.base.Editor().EndMode()
}

var (
	insertCharRISearch = redline.NewModeCommand[ReverseISearchMode]("insert-char", func(rm *ReverseISearchMode, keys key.Combination) {
		rm.insert(keys[0])
	})
	deleteLeftRISearch = redline.NewModeCommandNoKeys[ReverseISearchMode]("delete-to-left", func(rm *ReverseISearchMode) { rm.delete() })
	nextRISearch       = redline.NewModeCommandNoKeys[ReverseISearchMode]("reverse-i-search", func(rm *ReverseISearchMode) { rm.next() })
	acceptLineRISearch = redline.NewModeCommandNoKeys[ReverseISearchMode]("accept-line", func(rm *ReverseISearchMode) { rm.acceptLine() })
)

// reverseISearchBindings duplicates sigquit/suspend/redisplay from the
// base EmacsMode's table: a search in progress should still react to job
// control and an explicit redraw request, and there's nowhere shared to
// hang "applies in every mode" bindings off of. Grounded in the teacher's
// own admitted duplication (its comment: "these should be global").
var reverseISearchBindings = redline.NewKeyBindings()

func init() {
	reverseISearchBindings.AddAll(
		redline.KeyBinding{Cmd: deleteLeftRISearch, Keys: [3]key.Combination{
			key.Single(key.Backspace),
		}},
		redline.KeyBinding{Cmd: nextRISearch, Keys: [3]key.Combination{
			key.Single(key.K('R', key.Ctrl)),
		}},
		redline.KeyBinding{Cmd: acceptLineRISearch, Keys: [3]key.Combination{
			key.Single(key.K('C', key.Ctrl)),
			key.Single(key.Interrupt),
		}},
		redline.KeyBinding{Cmd: sigquit, Keys: [3]key.Combination{
			key.Single(key.Quit),
		}},
		redline.KeyBinding{Cmd: suspend, Keys: [3]key.Combination{
			key.Single(key.K('Z', key.Ctrl)),
			key.Single(key.Suspend),
		}},
		redline.KeyBinding{Cmd: redisplay, Keys: [3]key.Combination{
			key.Single(key.K('L', key.Ctrl)),
		}},
	)
}
