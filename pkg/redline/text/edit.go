package text

import "strings"

// Insert splits the line at pos at pos.Column, inserts text (which may
// contain '\n', creating new lines), and updates every live cursor on t so
// that it keeps pointing at the same logical position, per rel (see
// Relativity).
func (t *Text) Insert(rel Relativity, pos Pos, text string) {
	pos = t.clampPos(pos)
	orig := t.lines[pos.Line]
	prefix, suffix := orig[:pos.Column], orig[pos.Column:]

	parts := strings.Split(text, "\n")
	added := len(parts) - 1

	newLines := append([]string(nil), parts...)
	newLines[0] = prefix + newLines[0]
	newLines[len(newLines)-1] = newLines[len(newLines)-1] + suffix

	rest := append([]string(nil), t.lines[pos.Line+1:]...)
	t.lines = append(t.lines[:pos.Line], append(newLines, rest...)...)

	var tailDelta int
	if added == 0 {
		tailDelta = len(text)
	} else {
		tailDelta = len(parts[len(parts)-1]) - pos.Column
	}
	threshold := pos.Column
	if rel == Right {
		threshold++
	}

	t.forEachCursor(func(c *Cursor) {
		switch {
		case c.line == pos.Line && c.col >= threshold:
			c.line += added
			c.col += tailDelta
		case c.line > pos.Line:
			c.line += added
		}
	})
}

// Delete removes the text in [from, to) (order-normalized) and updates
// every live cursor on t: a cursor inside the deleted range collapses to
// from; a cursor on to's original line at or after to.Column shifts to
// from's line with its column adjusted by the removed span's width; a
// cursor on a later line shifts up by the number of removed lines.
func (t *Text) Delete(from, to Pos) {
	from, to = t.clampPos(from), t.clampPos(to)
	if less(to, from) {
		from, to = to, from
	}

	startLine, endLine := t.lines[from.Line], t.lines[to.Line]
	merged := startLine[:from.Column] + endLine[to.Column:]
	removed := to.Line - from.Line
	colDelta := to.Column - from.Column

	t.lines[from.Line] = merged
	t.lines = append(t.lines[:from.Line+1], t.lines[to.Line+1:]...)

	t.forEachCursor(func(c *Cursor) {
		p := c.Pos()
		switch {
		case !less(p, from) && less(p, to):
			c.line, c.col = from.Line, from.Column
		case p.Line == to.Line && !less(p, to):
			c.line, c.col = from.Line, p.Column-colDelta
		case p.Line > to.Line:
			c.line -= removed
		}
	})
}
