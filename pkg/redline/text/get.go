package text

import "strings"

// Get returns the full text of t, with '\n' separating lines.
func (t *Text) Get() string {
	return strings.Join(t.lines, "\n")
}

// GetLine returns the content of the given line, like Line but with line
// clamped into range.
func (t *Text) GetLine(line int) string { return t.lines[t.clampLine(line)] }

// GetRange returns the text between from and to (order-normalized),
// inserting a '\n' at each line boundary traversed.
func (t *Text) GetRange(from, to Pos) string {
	from, to = t.clampPos(from), t.clampPos(to)
	if less(to, from) {
		from, to = to, from
	}
	if from.Line == to.Line {
		return t.lines[from.Line][from.Column:to.Column]
	}
	var b strings.Builder
	b.WriteString(t.lines[from.Line][from.Column:])
	for line := from.Line + 1; line < to.Line; line++ {
		b.WriteByte('\n')
		b.WriteString(t.lines[line])
	}
	b.WriteByte('\n')
	b.WriteString(t.lines[to.Line][:to.Column])
	return b.String()
}
