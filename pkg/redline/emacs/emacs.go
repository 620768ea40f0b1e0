// Package emacs implements EmacsMode, the default interactive editing
// surface built on top of the redline core: printable insertion,
// emacs-style navigation and deletion, history browsing with an
// unsaved-edit cache, tab completion, and reverse-incremental search.
package emacs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zygoloid/redline/pkg/redline"
	"github.com/zygoloid/redline/pkg/redline/history"
	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/redline/term"
	"github.com/zygoloid/redline/pkg/redline/text"
)

// Completion is one candidate returned by an EmacsModeSpec.GetCompletions
// call: Prefix is the part of the buffer already typed that this
// candidate explains, Suffix is the text TabComplete would insert.
type Completion struct {
	Prefix, Suffix string
}

// EmacsModeSpec configures an EmacsMode at construction time, following
// the spec-struct-with-defaults convention the rest of this module uses
// in place of subclassing: a zero EmacsModeSpec is valid and yields an
// editor that accepts any input and does nothing with it.
type EmacsModeSpec struct {
	// Execute runs text once AcceptLine decides the buffer is complete.
	Execute func(text string)
	// TextIsComplete reports whether AcceptLine should submit the buffer
	// as-is, or insert a literal newline and keep editing. Defaults to
	// always true.
	TextIsComplete func(text string) bool
	// GetPrompt returns the prompt string for the given 0-based buffer
	// line. Defaults to "$ " for line 0 and "> " for continuation lines.
	GetPrompt func(line int) string
	// GetCompletions returns the current candidate set for TabComplete.
	// Defaults to no completions.
	GetCompletions func() []Completion
	// History, if non-nil, is appended to by Execute and browsed by
	// HistoryPrevious/HistoryNext.
	History history.History
}

// EmacsMode owns a Text, a persistent Cursor into it, an optional history
// position, a tab-completion latch, a hint-text string and a single-slot
// kill buffer. Grounded in the teacher's emacs.hpp/emacs.cpp EmacsMode.
type EmacsMode struct {
	redline.BaseMode

	spec EmacsModeSpec

	text   *text.Text
	cursor *text.Cursor

	haveHistoryPosition bool
	historyPosition     history.Cursor
	// historyEdits retains unsaved edits made while browsing history, so
	// moving back and forth restores work in progress; cleared whenever
	// the position jumps to end-of-history.
	historyEdits map[history.Cursor]string

	tabCompleting bool
	hintText      string
	killBuffer    string
}

// NewEmacsMode constructs an EmacsMode with an empty buffer and pushes it
// onto e's mode stack.
func NewEmacsMode(e *redline.Editor, spec EmacsModeSpec) *EmacsMode {
	if spec.TextIsComplete == nil {
		spec.TextIsComplete = func(string) bool { return true }
	}
	if spec.Execute == nil {
		spec.Execute = func(string) {}
	}
	if spec.GetPrompt == nil {
		spec.GetPrompt = defaultPrompt
	}
	if spec.GetCompletions == nil {
		spec.GetCompletions = func() []Completion { return nil }
	}

	t := text.New("")
	m := &EmacsMode{
		BaseMode:     redline.NewBaseMode(e, bindings),
		spec:         spec,
		text:         t,
		cursor:       t.Begin(0),
		historyEdits: make(map[history.Cursor]string),
	}
	e.PushMode(m)
	return m
}

func defaultPrompt(line int) string {
	if line == 0 {
		return "$ "
	}
	return "> "
}

// Text returns the buffer being edited.
func (m *EmacsMode) Text() *text.Text { return m.text }

// Cursor returns the live cursor within Text.
func (m *EmacsMode) Cursor() *text.Cursor { return m.cursor }

// SetCursorPos replaces the cursor with one at p, clamped into range.
// Commands that compute an absolute destination (as opposed to a relative
// Move) use this; it closes the old cursor so it stops tracking edits.
func (m *EmacsMode) SetCursorPos(p text.Pos) {
	old := m.cursor
	m.cursor = m.text.NewCursor(p)
	old.Close()
}

// SetHintText sets the text rendered on the line following the buffer,
// e.g. for a completion preview. An empty string clears it.
func (m *EmacsMode) SetHintText(s string) { m.hintText = s }

// textBegin and textEnd are Text::Begin()/Text::End() from the teacher:
// the absolute start and end of the whole buffer.
func textBegin(t *text.Text) text.Pos { return text.Pos{Line: 0, Column: 0} }

func textEnd(t *text.Text) text.Pos {
	n := t.NumLines() - 1
	return text.Pos{Line: n, Column: len(t.Line(n))}
}

func bufferEmpty(t *text.Text) bool { return t.NumLines() == 1 && t.Line(0) == "" }

// GetHandler special-cases single printable keys as insertion before
// falling back to the bound table, and clears the tab-completion latch
// whenever the resolved command isn't tab-complete itself.
func (m *EmacsMode) GetHandler(keys key.Combination) *redline.Command {
	if len(keys) == 1 && isPrintable(keys[0]) {
		m.tabCompleting = false
		return insertChar
	}
	cmd := m.BaseMode.GetHandler(keys)
	if cmd != tabComplete {
		m.tabCompleting = false
	}
	return cmd
}

// Render lays out the current buffer (and any hint text) and hands it to
// the terminal.
func (m *EmacsMode) Render(t *term.Terminal) {
	dt := term.NewDecoratedText()
	row, col := m.renderInto(dt)
	dt.SetCursor(row, col)
	t.SetText(dt)
}

// renderInto appends m's prompt-decorated buffer to dt and returns the
// cursor's (row, col) within it, without touching a Terminal — the shape
// ReverseISearchMode.Render needs to append its own banner line
// underneath.
func (m *EmacsMode) renderInto(dt *term.DecoratedText) (row, col int) {
	pos := m.cursor.Pos()
	row = pos.Line
	col = pos.Column
	if n := len(m.text.Line(pos.Line)); col > n {
		col = n
	}

	startLine, endLine := 0, m.text.NumLines()
	charsOnScreen := 80 * 25
	if t := m.Editor().Terminal(); t != nil {
		rows, cols := t.Size()
		if endLine > 2*rows {
			if s := row - rows; s > startLine {
				startLine = s
			}
			if e := row + rows; e < endLine {
				endLine = e
			}
		}
		charsOnScreen = rows * cols
	}

	for line := startLine; line < endLine; line++ {
		if line != startLine {
			dt.Add(term.Normal, "\n")
		}

		prompt := m.spec.GetPrompt(line)
		if line == row {
			col += len(prompt)
		}
		dt.Add(term.Normal, prompt)

		lineText := m.text.Line(line)
		if len(lineText) > 2*charsOnScreen {
			// Significantly more text on this line than fits on screen:
			// don't try to render all of it.
			var startCol int
			switch {
			case line < row:
				startCol = len(lineText) - charsOnScreen
			case line > row:
				startCol = 0
			default:
				startCol = col - charsOnScreen
				if startCol < 0 {
					startCol = 0
				}
			}
			num := charsOnScreen
			if line == row {
				num *= 2
			}
			end := startCol + num
			if end > len(lineText) {
				end = len(lineText)
			}
			lineText = lineText[startCol:end]
			if line == row {
				col -= startCol
			}
		}
		dt.Add(term.Normal, lineText)
	}

	if startLine == 0 && endLine == m.text.NumLines() && m.hintText != "" {
		dt.Add(term.Normal, "\n"+m.hintText)
	}

	row -= startLine
	return row, col
}

func (m *EmacsMode) internalHistoryPosition(h history.History) history.Cursor {
	if h != nil && !m.haveHistoryPosition {
		return h.End()
	}
	return m.historyPosition
}

// HistoryPosition returns the cursor m is currently displaying, which is
// end-of-history if the buffer hasn't moved away from it.
func (m *EmacsMode) HistoryPosition() history.Cursor {
	return m.internalHistoryPosition(m.spec.History)
}

// SetHistoryPosition moves to pos, saving the current buffer as a draft
// for the position being left and restoring any draft already saved for
// pos (falling back to the history entry itself). Returns false if pos is
// invalid, unchanged, or a miss with nothing to show.
func (m *EmacsMode) SetHistoryPosition(pos history.Cursor) bool {
	prev := m.HistoryPosition()
	if pos == 0 || pos == prev {
		return false
	}
	m.historyEdits[prev] = m.text.Get()

	h := m.spec.History
	if h == nil {
		return false
	}
	hist, isDraft := m.historyEdits[pos]
	if !isDraft {
		hist = h.Get(pos)
	}
	if hist == "" && pos != h.End() && !isDraft {
		return false
	}

	m.haveHistoryPosition = true
	m.historyPosition = pos
	m.text.Delete(textBegin(m.text), textEnd(m.text))
	m.text.Insert(text.Left, textBegin(m.text), hist)
	return true
}

// SetHistoryPositionToEnd jumps to end-of-history and discards the draft
// cache, since browsing is considered finished.
func (m *EmacsMode) SetHistoryPositionToEnd() {
	m.historyPosition = 0
	m.haveHistoryPosition = false
	m.historyEdits = make(map[history.Cursor]string)
}

// HistoryPrevious moves to the entry before the current position, if any.
func (m *EmacsMode) HistoryPrevious() bool {
	h := m.spec.History
	if h == nil {
		return false
	}
	pos := m.internalHistoryPosition(h)
	if pos != 0 && pos != h.Begin() {
		return m.SetHistoryPosition(h.Previous(pos))
	}
	return false
}

// HistoryNext moves to the entry after the current position, if any.
func (m *EmacsMode) HistoryNext() bool {
	h := m.spec.History
	if h == nil {
		return false
	}
	pos := m.internalHistoryPosition(h)
	if pos != 0 && pos != h.End() {
		return m.SetHistoryPosition(h.Next(pos))
	}
	return false
}

// Execute runs text through the spec's Execute hook with a clean,
// suspended terminal, recording it to history first and resetting to
// end-of-history afterwards. Exported so an embedder can submit a command
// non-interactively, e.g. from AsyncExecute.
func (m *EmacsMode) Execute(s string) {
	t := m.Editor().Terminal()
	if t != nil {
		m.SetHintText("")
		m.Render(t)
		t.Commit(true)
	}

	body := func() {
		if h := m.spec.History; h != nil {
			h.Add(s)
		}
		m.spec.Execute(s)
		if m.spec.History != nil {
			m.SetHistoryPositionToEnd()
		}
	}
	if t != nil {
		term.SuspendTerminal(t, body)
	} else {
		body()
	}
}

// AsyncExecute posts a one-shot command that temporarily substitutes the
// buffer with s, calls Execute, and restores the prior buffer and cursor
// position. It is how a client replies to something that arrived on
// another goroutine without disturbing whatever the user is currently
// typing.
func (m *EmacsMode) AsyncExecute(s string) {
	m.Editor().AsyncCommand(redline.NewModeCommandNoKeys[EmacsMode]("", func(mode *EmacsMode) {
		mode.executeWithSubstitutedText(s)
	}))
}

func (m *EmacsMode) executeWithSubstitutedText(s string) {
	oldText := m.text.Get()
	oldPos := m.cursor.Pos()

	m.text.Delete(textBegin(m.text), textEnd(m.text))
	m.text.Insert(text.Left, textBegin(m.text), s)

	m.Execute(s)

	m.text.Delete(textBegin(m.text), textEnd(m.text))
	m.text.Insert(text.Left, textBegin(m.text), oldText)
	m.SetCursorPos(oldPos)
}

// AcceptLine submits the buffer if the spec's TextIsComplete hook agrees,
// otherwise inserts a literal newline. Returns whether it submitted.
func (m *EmacsMode) AcceptLine() bool {
	full := m.text.Get()
	if m.spec.TextIsComplete(full) {
		m.Execute(full)
		m.text.Delete(textBegin(m.text), textEnd(m.text))
		return true
	}
	m.text.Insert(text.Left, m.cursor.Pos(), "\n")
	return false
}

// TabComplete inserts the sole completion's suffix if there is exactly
// one; otherwise it bells. On a second consecutive tab it also prints the
// full candidate list in columns, then inserts the candidates' longest
// common prefix.
func (m *EmacsMode) TabComplete() {
	matches := collectCompletions(m.spec.GetCompletions)

	if len(matches) != 1 {
		if t := m.Editor().Terminal(); t != nil {
			t.Bell()
		}
	} else {
		m.text.Insert(text.Left, m.cursor.Pos(), matches[0].Suffix)
		return
	}
	if len(matches) == 0 {
		return
	}

	if m.tabCompleting {
		m.printCompletions(matches)
	}
	m.tabCompleting = true

	common := matches[0].Suffix
	for _, c := range matches[1:] {
		common = commonPrefix(common, c.Suffix)
	}
	m.text.Insert(text.Left, m.cursor.Pos(), common)
}

func (m *EmacsMode) printCompletions(matches []Completion) {
	t := m.Editor().Terminal()
	if t == nil {
		for i, c := range matches {
			fmt.Fprint(os.Stdout, c.Prefix, c.Suffix)
			if i == len(matches)-1 {
				fmt.Fprintln(os.Stdout)
			} else {
				fmt.Fprint(os.Stdout, " ")
			}
		}
		return
	}

	hint := m.hintText
	if hint != "" {
		m.SetHintText("")
		m.Render(t)
	}
	t.Commit(true)

	printInColumns(t, matches)

	m.SetHintText(hint)
}

func collectCompletions(get func() []Completion) []Completion {
	raw := get()
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[Completion]bool, len(raw))
	out := make([]Completion, 0, len(raw))
	for _, c := range raw {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prefix != out[j].Prefix {
			return out[i].Prefix < out[j].Prefix
		}
		return out[i].Suffix < out[j].Suffix
	})
	return out
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// printInColumns lays values out in as many equal-width columns as fit
// the terminal, retrying with fewer columns until the total width fits
// (or exactly one column remains).
func printInColumns(t *term.Terminal, values []Completion) {
	const numSpaces = 2
	_, cols := t.Size()
	numTerminalCols := cols - 2 // avoid the last column: writing into it can wrap.

	maxColumns := (numTerminalCols + numSpaces) / (1 + numSpaces)
	if maxColumns > len(values) {
		maxColumns = len(values)
	}
	if maxColumns < 1 {
		maxColumns = 1
	}

	for numColumns := maxColumns; numColumns >= 1; numColumns-- {
		widths := make([]int, numColumns)
		totalWidth := (numColumns - 1) * numSpaces

		n := 0
		for ; n < len(values) && totalWidth <= numTerminalCols; n++ {
			w := len(values[n].Prefix) + len(values[n].Suffix)
			col := n % numColumns
			if w > widths[col] {
				totalWidth += w - widths[col]
				widths[col] = w
			}
		}

		if totalWidth <= numTerminalCols || numColumns == 1 {
			var b strings.Builder
			spaces := 0
			for i, v := range values {
				switch {
				case i%numColumns != 0:
					b.WriteString(strings.Repeat(" ", spaces))
				case i != 0:
					b.WriteString("\n")
				}
				b.WriteString(v.Prefix)
				b.WriteString(v.Suffix)
				spaces = numSpaces + widths[i%numColumns] - len(v.Prefix) - len(v.Suffix)
			}
			dt := term.NewDecoratedText()
			dt.Add(term.Normal, b.String())
			t.SetText(dt)
			t.Commit(true)
			return
		}
		if n < numColumns {
			// Can't possibly make this many columns fit; try n next.
			numColumns = n + 1
		}
	}
}
