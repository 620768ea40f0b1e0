// Package history provides the abstract, cursor-based history log
// EmacsMode browses, plus a bounded ring-buffer implementation.
package history

// Cursor identifies a single entry in a History. It is never reused: once
// issued it keeps addressing the same entry, or nothing if that entry has
// since aged out of a bounded History, until the History itself is
// discarded. Cursor(0) is never a valid entry.
type Cursor int

// History is the abstract ordered log spec.md §3/§4.6 requires. Begin
// addresses the oldest retained entry; End addresses one past the
// newest, which is also where Add will insert next. An empty History has
// Begin() == End(). Previous and Next never fail: they saturate at Begin
// and End respectively (spec.md §7, "History miss").
type History interface {
	Begin() Cursor
	End() Cursor
	Next(c Cursor) Cursor
	Previous(c Cursor) Cursor
	Get(c Cursor) string
	Add(text string) Cursor
}

// Ring is a fixed-capacity ring-buffer History: once full, each Add
// evicts the oldest entry. Cursors are sequence numbers assigned in Add
// order starting at 1, not slot indices, so a Cursor obtained before an
// eviction still compares correctly (and safely misses via Get) against
// ones obtained after, grounded in the teacher's histutil.memStoreCursor
// index-with-saturating-Prev/Next shape, generalized to a bounded ring.
type Ring struct {
	capacity int
	seqs     []int // seqs[i] is the sequence number of texts[i]; contiguous.
	texts    []string
	nextSeq  int
}

// NewRing returns an empty Ring that retains at most capacity entries. A
// capacity below 1 is treated as 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{capacity: capacity, nextSeq: 1}
}

func (r *Ring) Begin() Cursor {
	if len(r.seqs) == 0 {
		return r.End()
	}
	return Cursor(r.seqs[0])
}

func (r *Ring) End() Cursor { return Cursor(r.nextSeq) }

// Add appends text and returns its Cursor. Empty strings are not valid
// entries (spec.md §3) and are silently ignored, returning End()
// unchanged.
func (r *Ring) Add(text string) Cursor {
	if text == "" {
		return r.End()
	}
	seq := r.nextSeq
	r.nextSeq++
	r.seqs = append(r.seqs, seq)
	r.texts = append(r.texts, text)
	if len(r.seqs) > r.capacity {
		r.seqs = r.seqs[1:]
		r.texts = r.texts[1:]
	}
	return Cursor(seq)
}

func (r *Ring) indexOf(c Cursor) (int, bool) {
	if len(r.seqs) == 0 {
		return 0, false
	}
	idx := int(c) - r.seqs[0]
	if idx < 0 || idx >= len(r.seqs) {
		return 0, false
	}
	return idx, true
}

// Get returns the text at c, or "" if c does not address a retained
// entry.
func (r *Ring) Get(c Cursor) string {
	idx, ok := r.indexOf(c)
	if !ok {
		return ""
	}
	return r.texts[idx]
}

func (r *Ring) Previous(c Cursor) Cursor {
	if len(r.seqs) == 0 {
		return r.End()
	}
	if c == r.End() {
		return Cursor(r.seqs[len(r.seqs)-1])
	}
	idx, ok := r.indexOf(c)
	if !ok || idx == 0 {
		return r.Begin()
	}
	return Cursor(r.seqs[idx-1])
}

func (r *Ring) Next(c Cursor) Cursor {
	idx, ok := r.indexOf(c)
	if !ok {
		return r.End()
	}
	if idx == len(r.seqs)-1 {
		return r.End()
	}
	return Cursor(r.seqs[idx+1])
}
