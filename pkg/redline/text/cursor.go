package text

// Cursor is a live position within a Text. Its (Line, Column) is kept
// pointing at the same logical inter-character position across edits made
// through the owning Text, per the update rules in Insert and Delete.
//
// Cursors are linked into an intrusive doubly-linked ring anchored on their
// Text so that an edit can walk every outstanding cursor without the Text
// knowing where else a cursor reference is held — the Go analogue of the
// original's reference-counted cursor chain (see design notes: this is
// option (b), an intrusive list with lifetime tied to the Text, rather than
// a generational-index table). A Cursor must be released with Close when no
// longer needed, or it keeps receiving (free, harmless) position updates
// for the lifetime of its Text.
type Cursor struct {
	text       *Text
	line, col  int
	prev, next *Cursor
}

// newCursor creates and links a cursor at the given (already clamped)
// position.
func (t *Text) newCursor(p Pos) *Cursor {
	c := &Cursor{line: p.Line, col: p.Column}
	t.link(c)
	return c
}

// Begin returns a cursor at column 0 of the given line, clamping line into
// range.
func (t *Text) Begin(line int) *Cursor {
	line = t.clampLine(line)
	return t.newCursor(Pos{line, 0})
}

// End returns a cursor at the end of the given line, clamping line into
// range.
func (t *Text) End(line int) *Cursor {
	line = t.clampLine(line)
	return t.newCursor(Pos{line, len(t.lines[line])})
}

// NewCursor returns a cursor at p, clamped into range. It is the general
// constructor Begin and End are built on.
func (t *Text) NewCursor(p Pos) *Cursor {
	return t.newCursor(t.clampPos(p))
}

// Close releases the cursor, unlinking it from its Text. It is a no-op if
// the cursor has already been closed.
func (c *Cursor) Close() {
	if c.text != nil {
		c.text.unlink(c)
	}
}

// Pos returns the cursor's current position.
func (c *Cursor) Pos() Pos { return Pos{c.line, c.col} }

// Line returns the cursor's current line.
func (c *Cursor) Line() int { return c.line }

// Column returns the cursor's current column.
func (c *Cursor) Column() int { return c.col }

// Valid reports whether the cursor is still linked to a Text.
func (c *Cursor) Valid() bool { return c.text != nil }

// Clone returns a new, independent cursor at the same position, linked to
// the same Text.
func (c *Cursor) Clone() *Cursor { return c.text.newCursor(c.Pos()) }

// Move adjusts the cursor by dy lines (clamped, no wrap) and then by dx
// columns, wrapping across line boundaries (via the virtual newline between
// lines) when dx != 0. Vertical-only motion (dx == 0) never wraps. In
// every case the final column is clamped to [0, len(line)], so a column
// beyond the new line's length is not retained.
func (c *Cursor) Move(dx, dy int) {
	t := c.text
	line := t.clampLine(c.line + dy)
	col := c.col + dx

	if dx != 0 {
		for col < 0 && line > 0 {
			line--
			col += len(t.lines[line]) + 1
		}
		last := t.NumLines() - 1
		for col > len(t.lines[line]) && line < last {
			col -= len(t.lines[line]) + 1
			line++
		}
	}
	if col < 0 {
		col = 0
	}
	if max := len(t.lines[line]); col > max {
		col = max
	}
	c.line, c.col = line, col
}

// GetLeft returns the byte immediately to the left of the cursor: the
// line's separating newline when the cursor sits at the start of any line
// but the first, or 0 if the cursor is at the very start of the Text.
func (c *Cursor) GetLeft() byte {
	if c.col == 0 {
		if c.line == 0 {
			return 0
		}
		return '\n'
	}
	return c.text.lines[c.line][c.col-1]
}

// GetRight returns the byte immediately to the right of the cursor: the
// line's separating newline when the cursor sits at the end of any line
// but the last, or 0 if the cursor is at the very end of the Text.
func (c *Cursor) GetRight() byte {
	line := c.text.lines[c.line]
	if c.col >= len(line) {
		if c.line == len(c.text.lines)-1 {
			return 0
		}
		return '\n'
	}
	return line[c.col]
}

// Less reports whether c is ordered strictly before other: an invalid
// cursor orders before any valid one, and otherwise ordering is by
// (line, column).
func (c *Cursor) Less(other *Cursor) bool {
	if c.Valid() != other.Valid() {
		return !c.Valid()
	}
	return less(c.Pos(), other.Pos())
}

// Equal reports whether c and other have the same validity and position.
func (c *Cursor) Equal(other *Cursor) bool {
	return c.Valid() == other.Valid() && c.Pos() == other.Pos()
}
