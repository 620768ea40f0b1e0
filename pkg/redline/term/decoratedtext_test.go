package term

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lineStrings(d *DecoratedText) []string {
	out := make([]string, d.NumLines())
	for i := range out {
		out[i] = d.Line(i)
	}
	return out
}

func TestAddSplitsOnNewline(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "foo\nbar\nbaz")
	want := []string{"foo", "bar", "baz"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("lines after Add mismatch (-want +got):\n%s", diff)
	}
}

func TestAddAcrossMultipleCallsContinuesLastLine(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "foo")
	d.Add(Error, "!")
	want := []string{"foo!"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("lines after two Adds mismatch (-want +got):\n%s", diff)
	}
	if attr, b := d.Cell(0, 3); attr != Error || b != '!' {
		t.Errorf("Cell(0,3) = (%v,%q), want (Error, '!')", attr, b)
	}
	if attr, b := d.Cell(0, 0); attr != Normal || b != 'f' {
		t.Errorf("Cell(0,0) = (%v,%q), want (Normal, 'f')", attr, b)
	}
}

func TestPrepareLeavesShortTextUntouched(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "short\nlines")
	d.SetCursor(1, 2)
	row, col := d.Prepare(24, 80)
	if row != 1 || col != 2 {
		t.Errorf("Prepare cursor = (%d,%d), want (1,2)", row, col)
	}
	want := []string{"short", "lines"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("lines after Prepare mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapHardSplitsWhenNoSpaceAvailable(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "0123456789ABCDE") // 15 cells, no spaces
	d.wrap(10)
	want := []string{"012345678" + string(continuationMark), "9ABCDE"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("hard-wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapPrefersSplittingAtSpace(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "abcd efghij") // 11 cells, space at index 4
	d.wrap(10)
	want := []string{"abcd " + string(continuationMark), "efghij"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("space-preferring wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapTracksCursorAcrossSplit(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "0123456789ABCDE")
	d.SetCursor(0, 12) // inside "9ABCDE", the second physical line after wrap
	d.wrap(10)
	if d.cursorLine != 1 || d.cursorCol != 3 {
		t.Errorf("cursor after wrap = (%d,%d), want (1,3)", d.cursorLine, d.cursorCol)
	}
}

func TestClipWindowsAroundCursor(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "l0\nl1\nl2\nl3\nl4")
	d.SetCursor(3, 0)
	row, _ := d.clip(3)
	want := []string{"l2", "l3", "l4"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("clip window mismatch (-want +got):\n%s", diff)
	}
	if row != 1 {
		t.Errorf("clip cursor row = %d, want 1", row)
	}
}

func TestClipPinsWindowToEndWhenCursorNearLastLine(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "l0\nl1\nl2\nl3\nl4")
	d.SetCursor(4, 0)
	row, _ := d.clip(3)
	want := []string{"l2", "l3", "l4"}
	if diff := cmp.Diff(want, lineStrings(d)); diff != "" {
		t.Errorf("clip window mismatch (-want +got):\n%s", diff)
	}
	if row != 2 {
		t.Errorf("clip cursor row = %d, want 2", row)
	}
}

func TestClipNoOpWhenWithinBudget(t *testing.T) {
	d := NewDecoratedText()
	d.Add(Normal, "l0\nl1")
	d.SetCursor(1, 0)
	row, col := d.clip(5)
	if row != 1 || col != 0 {
		t.Errorf("clip on short text = (%d,%d), want (1,0)", row, col)
	}
}
