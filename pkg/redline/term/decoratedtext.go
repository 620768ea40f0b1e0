package term

import "strings"

// Attr is a rendering attribute for one cell of a DecoratedText. It is
// deliberately coarse (spec.md's Non-goals exclude full syntax coloring):
// just enough to distinguish ordinary text from an error highlight.
type Attr int

const (
	Normal Attr = iota
	Error
)

// cell is one (attribute, byte) pair.
type cell struct {
	attr Attr
	b    byte
}

// DecoratedText is an offscreen buffer of lines, each a sequence of
// (attribute, byte) cells, built additively and then laid out to fit a
// terminal-sized viewport by Prepare.
type DecoratedText struct {
	lines [][]cell
	// cursorLine/cursorCol track a position within the text (typically the
	// edit cursor) so that Prepare can keep it visible across wrapping and
	// clipping.
	cursorLine, cursorCol int
}

// NewDecoratedText returns an empty DecoratedText with cursor tracking at
// (0, 0).
func NewDecoratedText() *DecoratedText {
	return &DecoratedText{lines: [][]cell{nil}}
}

// Add appends s with attribute attr, starting a new line at each literal
// '\n' in s.
func (d *DecoratedText) Add(attr Attr, s string) {
	parts := strings.Split(s, "\n")
	for i, part := range parts {
		if i > 0 {
			d.lines = append(d.lines, nil)
		}
		last := &d.lines[len(d.lines)-1]
		for j := 0; j < len(part); j++ {
			*last = append(*last, cell{attr, part[j]})
		}
	}
}

// SetCursor records where, within the text added so far, the logical edit
// cursor sits, so Prepare can keep it visible.
func (d *DecoratedText) SetCursor(line, col int) {
	d.cursorLine, d.cursorCol = line, col
}

// NumLines returns the number of lines currently held.
func (d *DecoratedText) NumLines() int { return len(d.lines) }

// Line returns the raw bytes of line n, stripped of attributes.
func (d *DecoratedText) Line(n int) string {
	cs := d.lines[n]
	b := make([]byte, len(cs))
	for i, c := range cs {
		b[i] = c.b
	}
	return string(b)
}

// Cell returns the (attribute, byte) pair at (line, col).
func (d *DecoratedText) Cell(line, col int) (Attr, byte) {
	c := d.lines[line][col]
	return c.attr, c.b
}

// continuationMark is written in place of the cell that falls victim to a
// wrap split, signaling to a human reading raw terminal output that the
// line continues.
const continuationMark = '\\'

// Prepare wraps lines wider than maxCols and then, if the result still has
// more than maxRows lines, clips to a window of maxRows lines that keeps
// the cursor near the middle. It mutates d in place and returns the
// cursor's final (row, col) within the prepared buffer. A non-positive
// maxCols skips wrapping and a non-positive maxRows skips clipping.
func (d *DecoratedText) Prepare(maxRows, maxCols int) (cursorRow, cursorCol int) {
	d.wrap(maxCols)
	return d.clip(maxRows)
}

func (d *DecoratedText) wrap(maxCols int) {
	if maxCols <= 0 {
		return
	}
	var out [][]cell
	newCursorLine, newCursorCol := d.cursorLine, d.cursorCol
	for i, line := range d.lines {
		col := d.cursorCol
		onThisLine := i == d.cursorLine
		for len(line) >= maxCols {
			split := splitPoint(line, maxCols)
			out = append(out, append(append([]cell(nil), line[:split]...), cell{Normal, continuationMark}))
			if onThisLine {
				if col >= split {
					col -= split
				} else {
					newCursorLine, newCursorCol = len(out)-1, col
					onThisLine = false
				}
			}
			line = line[split:]
		}
		out = append(out, line)
		if onThisLine {
			newCursorLine, newCursorCol = len(out)-1, col
		}
	}
	d.lines = out
	d.cursorLine, d.cursorCol = newCursorLine, newCursorCol
}

// splitPoint picks where to break line so the first part is at most
// maxCols-1 cells: prefer the rightmost space within the last 16 columns
// of that budget, as long as it is not before the half-way point.
func splitPoint(line []cell, maxCols int) int {
	limit := maxCols - 1
	if limit < 1 {
		limit = 1
	}
	half := limit / 2
	for i := limit - 1; i >= half && i >= limit-16; i-- {
		if line[i].b == ' ' {
			return i + 1
		}
	}
	return limit
}

func (d *DecoratedText) clip(maxRows int) (cursorRow, cursorCol int) {
	if maxRows <= 0 || len(d.lines) <= maxRows {
		return d.cursorLine, d.cursorCol
	}
	low := d.cursorLine - maxRows/2
	if low < 0 {
		low = 0
	}
	high := low + maxRows
	if high > len(d.lines) {
		high = len(d.lines)
		low = high - maxRows
		if low < 0 {
			low = 0
		}
	}
	d.lines = d.lines[low:high]
	return d.cursorLine - low, d.cursorCol
}
