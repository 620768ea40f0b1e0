package emacs

import (
	"testing"

	"github.com/zygoloid/redline/pkg/redline"
	"github.com/zygoloid/redline/pkg/redline/history"
	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/redline/term"
	"github.com/zygoloid/redline/pkg/redline/text"
)

// newTestMode returns an EmacsMode with no live terminal, wired to h if
// non-nil. Most commands only care about the terminal being reachable
// (possibly nil) through m.Editor().Terminal().
func newTestMode(t *testing.T, h history.History) *EmacsMode {
	t.Helper()
	e := redline.NewEditor(term.Capabilities{})
	return NewEmacsMode(e, EmacsModeSpec{History: h})
}

func setText(t *testing.T, m *EmacsMode, s string, pos text.Pos) {
	t.Helper()
	m.text.Delete(textBegin(m.text), textEnd(m.text))
	m.text.Insert(text.Left, textBegin(m.text), s)
	m.SetCursorPos(pos)
}

func TestWordLeftSkipsWhitespaceThenWord(t *testing.T) {
	buf := text.New("foo  bar")
	got := wordLeft(buf, text.Pos{Line: 0, Column: 8})
	if want := (text.Pos{Line: 0, Column: 5}); got != want {
		t.Fatalf("wordLeft = %v, want %v", got, want)
	}
}

func TestWordLeftCrossesLineBoundary(t *testing.T) {
	buf := text.New("foo\n   bar")
	got := wordLeft(buf, text.Pos{Line: 1, Column: 3})
	if want := (text.Pos{Line: 0, Column: 0}); got != want {
		t.Fatalf("wordLeft across line boundary = %v, want %v", got, want)
	}
}

// wordRight skips the rest of the current word, then the whitespace
// beyond it, landing at the start of the following word rather than its
// end.
func TestWordRightCrossesLineBoundary(t *testing.T) {
	buf := text.New("foo\nbar")
	got := wordRight(buf, text.Pos{Line: 0, Column: 0})
	if want := (text.Pos{Line: 1, Column: 0}); got != want {
		t.Fatalf("wordRight across line boundary = %v, want %v", got, want)
	}
}

func TestCursorHomeGoesToPreviousLineWhenAlreadyAtStart(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc\ndef", text.Pos{Line: 1, Column: 0})
	CursorHome(m)
	if got := m.cursor.Pos(); got != (text.Pos{Line: 0, Column: 0}) {
		t.Fatalf("CursorHome from start of line 1 = %v, want start of line 0", got)
	}
}

func TestCursorHomeGoesToStartOfCurrentLineFirst(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc\ndef", text.Pos{Line: 1, Column: 2})
	CursorHome(m)
	if got := m.cursor.Pos(); got != (text.Pos{Line: 1, Column: 0}) {
		t.Fatalf("CursorHome mid-line = %v, want start of same line", got)
	}
}

func TestCursorEndGoesToNextLineWhenAlreadyAtEnd(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc\ndef", text.Pos{Line: 0, Column: 3})
	CursorEnd(m)
	if got := m.cursor.Pos(); got != (text.Pos{Line: 1, Column: 3}) {
		t.Fatalf("CursorEnd from end of line 0 = %v, want end of line 1", got)
	}
}

func TestDeleteLineRemovesCurrentLineAndNewline(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc\ndef\nghi", text.Pos{Line: 1, Column: 1})
	DeleteLine(m)
	if got, want := m.text.Get(), "abc\nghi"; got != want {
		t.Fatalf("after DeleteLine: Get() = %q, want %q", got, want)
	}
	if got, want := m.killBuffer, "def\n"; got != want {
		t.Fatalf("killBuffer = %q, want %q", got, want)
	}
}

// On the last, empty line, there is nothing on that line to delete, so
// DeleteLine instead removes the line above, taking its trailing newline.
func TestDeleteLineOnTrailingEmptyLineDeletesLineAbove(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc\n", text.Pos{Line: 1, Column: 0})
	DeleteLine(m)
	if got, want := m.text.Get(), ""; got != want {
		t.Fatalf("after DeleteLine on trailing empty line: Get() = %q, want %q", got, want)
	}
}

func TestDeleteLineOnSoleEmptyLineIsNoOp(t *testing.T) {
	m := newTestMode(t, nil)
	DeleteLine(m)
	if got, want := m.text.Get(), ""; got != want {
		t.Fatalf("DeleteLine on a single empty line: Get() = %q, want %q", got, want)
	}
}

// DeleteRightOrEndMode on an empty buffer requests that the mode end
// (via Editor.EndMode's deferred flag, consumed by Editor.Run) rather
// than deleting nothing; here we just confirm it leaves the buffer alone
// rather than taking the DeleteRight path.
func TestDeleteRightOrEndModeEndsModeOnEmptyBuffer(t *testing.T) {
	m := newTestMode(t, nil)
	DeleteRightOrEndMode(m)
	if got, want := m.text.Get(), ""; got != want {
		t.Fatalf("buffer mutated by DeleteRightOrEndMode on empty buffer: got %q", got)
	}
}

func TestDeleteRightOrEndModeDeletesOnNonEmptyBuffer(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc", text.Pos{Line: 0, Column: 1})
	DeleteRightOrEndMode(m)
	if got, want := m.text.Get(), "ac"; got != want {
		t.Fatalf("DeleteRightOrEndMode on non-empty buffer: got %q, want %q", got, want)
	}
}

func TestAcceptLineInsertsNewlineWhenIncomplete(t *testing.T) {
	e := redline.NewEditor(term.Capabilities{})
	m := NewEmacsMode(e, EmacsModeSpec{
		TextIsComplete: func(string) bool { return false },
	})
	setText(t, m, "foo", text.Pos{Line: 0, Column: 3})
	if m.AcceptLine() {
		t.Fatalf("AcceptLine reported submission for an incomplete buffer")
	}
	if got, want := m.text.Get(), "foo\n"; got != want {
		t.Fatalf("buffer after incomplete AcceptLine = %q, want %q", got, want)
	}
}

func TestAcceptLineExecutesAndClearsWhenComplete(t *testing.T) {
	var executed string
	e := redline.NewEditor(term.Capabilities{})
	m := NewEmacsMode(e, EmacsModeSpec{
		Execute: func(s string) { executed = s },
	})
	setText(t, m, "echo hi", text.Pos{Line: 0, Column: 7})
	if !m.AcceptLine() {
		t.Fatalf("AcceptLine reported non-submission for a complete buffer")
	}
	if executed != "echo hi" {
		t.Fatalf("Execute called with %q, want %q", executed, "echo hi")
	}
	if got, want := m.text.Get(), ""; got != want {
		t.Fatalf("buffer after AcceptLine = %q, want empty", got)
	}
}

func TestHistoryBrowsingPreservesUnsavedDraft(t *testing.T) {
	h := history.NewRing(4)
	h.Add("first")
	h.Add("second")

	m := newTestMode(t, h)

	setText(t, m, "unsaved work", text.Pos{Line: 0, Column: len("unsaved work")})

	if !m.HistoryPrevious() {
		t.Fatalf("HistoryPrevious returned false with history present")
	}
	if got, want := m.text.Get(), "second"; got != want {
		t.Fatalf("after HistoryPrevious: Get() = %q, want %q", got, want)
	}

	if !m.HistoryNext() {
		t.Fatalf("HistoryNext returned false returning to the draft")
	}
	if got, want := m.text.Get(), "unsaved work"; got != want {
		t.Fatalf("draft not restored: Get() = %q, want %q", got, want)
	}
}

func TestHistoryPreviousStopsAtBegin(t *testing.T) {
	h := history.NewRing(4)
	h.Add("only")
	m := newTestMode(t, h)

	if !m.HistoryPrevious() {
		t.Fatalf("first HistoryPrevious should succeed")
	}
	if m.HistoryPrevious() {
		t.Fatalf("second HistoryPrevious should fail: already at Begin()")
	}
	if got, want := m.text.Get(), "only"; got != want {
		t.Fatalf("Get() = %q, want %q", got, want)
	}
}

func TestTabCompleteSingleMatchInsertsSuffix(t *testing.T) {
	e := redline.NewEditor(term.Capabilities{})
	m := NewEmacsMode(e, EmacsModeSpec{
		GetCompletions: func() []Completion {
			return []Completion{{Prefix: "f", Suffix: "oo"}}
		},
	})
	setText(t, m, "f", text.Pos{Line: 0, Column: 1})
	m.TabComplete()
	if got, want := m.text.Get(), "foo"; got != want {
		t.Fatalf("TabComplete with a single match: Get() = %q, want %q", got, want)
	}
}

func TestTabCompleteMultipleMatchesInsertsCommonPrefix(t *testing.T) {
	e := redline.NewEditor(term.Capabilities{})
	m := NewEmacsMode(e, EmacsModeSpec{
		GetCompletions: func() []Completion {
			return []Completion{
				{Prefix: "f", Suffix: "oobar"},
				{Prefix: "f", Suffix: "oobaz"},
			}
		},
	})
	setText(t, m, "f", text.Pos{Line: 0, Column: 1})
	m.TabComplete()
	if got, want := m.text.Get(), "fooba"; got != want {
		t.Fatalf("TabComplete with ambiguous matches: Get() = %q, want %q", got, want)
	}
}

func TestCommonPrefix(t *testing.T) {
	cases := []struct{ a, b, want string }{
		{"oobar", "oobaz", "ooba"},
		{"oobar", "oobar", "oobar"},
		{"", "oobar", ""},
		{"abc", "xyz", ""},
	}
	for _, c := range cases {
		if got := commonPrefix(c.a, c.b); got != c.want {
			t.Errorf("commonPrefix(%q, %q) = %q, want %q", c.a, c.b, got, c.want)
		}
	}
}

func TestCollectCompletionsDedupsAndSorts(t *testing.T) {
	got := collectCompletions(func() []Completion {
		return []Completion{
			{Prefix: "b", Suffix: "2"},
			{Prefix: "a", Suffix: "1"},
			{Prefix: "b", Suffix: "2"},
		}
	})
	want := []Completion{{Prefix: "a", Suffix: "1"}, {Prefix: "b", Suffix: "2"}}
	if len(got) != len(want) {
		t.Fatalf("collectCompletions returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCancelOrSigIntNoTerminalIsNoOp(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc", text.Pos{Line: 0, Column: 3})
	CancelOrSigInt(m)
	if got, want := m.text.Get(), "abc"; got != want {
		t.Fatalf("CancelOrSigInt without a terminal mutated the buffer: got %q, want %q", got, want)
	}
}

func TestYankInsertsKillBuffer(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "abc def", text.Pos{Line: 0, Column: 7})
	DeleteWordLeft(m)
	if got, want := m.text.Get(), "abc "; got != want {
		t.Fatalf("after DeleteWordLeft: Get() = %q, want %q", got, want)
	}
	Yank(m)
	if got, want := m.text.Get(), "abc def"; got != want {
		t.Fatalf("after Yank: Get() = %q, want %q", got, want)
	}
}

func TestReverseISearchFindsEarlierMatchInBuffer(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "echo foo; echo bar", text.Pos{Line: 0, Column: len("echo foo; echo bar")})

	rm := newReverseISearchMode(m)
	for _, r := range "echo" {
		rm.insert(key.Key(r))
	}

	if got := m.cursor.Pos(); got != (text.Pos{Line: 0, Column: 10}) {
		t.Fatalf("reverse-i-search for %q landed at %v, want column 10 (second 'echo')", "echo", got)
	}
}

// acceptLine only requests that the search mode end (via Editor.EndMode's
// deferred flag, consumed by Editor.Run) — it must not itself submit
// whatever the search landed on.
func TestReverseISearchAcceptLineDoesNotSubmit(t *testing.T) {
	var executed string
	e := redline.NewEditor(term.Capabilities{})
	m := NewEmacsMode(e, EmacsModeSpec{
		Execute: func(s string) { executed = s },
	})
	setText(t, m, "echo hi", text.Pos{Line: 0, Column: 7})

	rm := newReverseISearchMode(m)
	rm.acceptLine()

	if executed != "" {
		t.Fatalf("ReverseISearchMode.acceptLine submitted %q, want no submission", executed)
	}
	if got, want := m.text.Get(), "echo hi"; got != want {
		t.Fatalf("buffer changed by acceptLine: got %q, want %q", got, want)
	}
}

func TestReverseISearchDeleteRestoresPriorPosition(t *testing.T) {
	m := newTestMode(t, nil)
	setText(t, m, "foo bar foo", text.Pos{Line: 0, Column: 11})

	rm := newReverseISearchMode(m)
	rm.insert(key.Key('o'))
	afterOne := m.cursor.Pos()
	rm.insert(key.Key('o'))
	rm.delete()

	if got := m.cursor.Pos(); got != afterOne {
		t.Fatalf("after insert+insert+delete: cursor at %v, want back at %v", got, afterOne)
	}
	if got, want := rm.searchFor, "o"; got != want {
		t.Fatalf("searchFor after delete = %q, want %q", got, want)
	}
}
