package text

import "testing"

func TestCursorWrapForward(t *testing.T) {
	buf := New("ab\ncd")
	c := buf.NewCursor(Pos{0, 2})
	c.Move(1, 0)
	if got := c.Pos(); got != (Pos{1, 0}) {
		t.Fatalf("after first Move(1,0): got %v, want {1 0}", got)
	}
	c.Move(1, 0)
	if got := c.Pos(); got != (Pos{1, 1}) {
		t.Fatalf("after second Move(1,0): got %v, want {1 1}", got)
	}
}

func TestCursorWrapBackwardAcrossEmptyLine(t *testing.T) {
	buf := New("x\n\ny")
	c := buf.NewCursor(Pos{2, 0})
	c.Move(-1, 0)
	if got := c.Pos(); got != (Pos{1, 0}) {
		t.Fatalf("after first Move(-1,0): got %v, want {1 0}", got)
	}
	c.Move(-1, 0)
	if got := c.Pos(); got != (Pos{0, 1}) {
		t.Fatalf("after second Move(-1,0): got %v, want {0 1}", got)
	}
}

func TestInsertUpdatesTrailingCursors(t *testing.T) {
	buf := New("hello")
	c1 := buf.NewCursor(Pos{0, 0})
	c2 := buf.NewCursor(Pos{0, 5})
	buf.Insert(Left, Pos{0, 2}, "XY\nZ")

	if got, want := buf.Get(), "heXY\nZllo"; got != want {
		t.Fatalf("Get() = %q, want %q", got, want)
	}
	if got := c1.Pos(); got != (Pos{0, 0}) {
		t.Errorf("c1.Pos() = %v, want {0 0}", got)
	}
	if got := c2.Pos(); got != (Pos{1, 4}) {
		t.Errorf("c2.Pos() = %v, want {1 4}", got)
	}
}

func TestInsertRelativityAtInsertionPoint(t *testing.T) {
	// rel=Right: a cursor exactly at the insertion point stays before the
	// inserted text (does not move).
	buf := New("ab")
	c := buf.NewCursor(Pos{0, 1})
	buf.Insert(Right, Pos{0, 1}, "XY")
	if got := c.Pos(); got != (Pos{0, 1}) {
		t.Errorf("InsertRight: c.Pos() = %v, want {0 1}", got)
	}

	// rel=Left: a cursor exactly at the insertion point moves with the
	// inserted text (ends up after it).
	buf2 := New("ab")
	c2 := buf2.NewCursor(Pos{0, 1})
	buf2.Insert(Left, Pos{0, 1}, "XY")
	if got := c2.Pos(); got != (Pos{0, 3}) {
		t.Errorf("InsertLeft: c2.Pos() = %v, want {0 3}", got)
	}
}

func TestDeleteCollapsesInsideRange(t *testing.T) {
	buf := New("hello world")
	inside := buf.NewCursor(Pos{0, 7})
	before := buf.NewCursor(Pos{0, 2})
	after := buf.NewCursor(Pos{0, 9})

	buf.Delete(Pos{0, 5}, Pos{0, 9})

	if got, want := buf.Get(), "hellold"; got != want {
		t.Fatalf("Get() = %q, want %q", got, want)
	}
	if got := inside.Pos(); got != (Pos{0, 5}) {
		t.Errorf("inside.Pos() = %v, want {0 5}", got)
	}
	if got := before.Pos(); got != (Pos{0, 2}) {
		t.Errorf("before.Pos() = %v, want {0 2}", got)
	}
	if got := after.Pos(); got != (Pos{0, 5}) {
		t.Errorf("after.Pos() = %v, want {0 5}", got)
	}
}

func TestDeleteAcrossLines(t *testing.T) {
	buf := New("abc\ndef\nghi")
	laterLine := buf.NewCursor(Pos{2, 1})

	buf.Delete(Pos{0, 1}, Pos{1, 2})

	if got, want := buf.Get(), "af\nghi"; got != want {
		t.Fatalf("Get() = %q, want %q", got, want)
	}
	if got := laterLine.Pos(); got != (Pos{1, 1}) {
		t.Errorf("laterLine.Pos() = %v, want {1 1}", got)
	}
}

func TestInsertThenGetRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "multi\nline\ntext", "\n\n"} {
		buf := New("")
		c := buf.Begin(0)
		buf.Insert(Left, c.Pos(), s)
		if got := buf.Get(); got != s {
			t.Errorf("Insert(Left, Begin, %q) then Get() = %q, want %q", s, got, s)
		}
	}
}

func TestGetDeleteInsertRoundTrip(t *testing.T) {
	orig := "the quick\nbrown fox\njumps"
	cases := []struct{ a, b Pos }{
		{Pos{0, 0}, Pos{0, 3}},
		{Pos{0, 4}, Pos{1, 5}},
		{Pos{1, 0}, Pos{2, 5}},
		{Pos{0, 0}, Pos{2, 5}},
	}
	for _, c := range cases {
		buf := New(orig)
		got := buf.GetRange(c.a, c.b)
		buf.Delete(c.a, c.b)
		buf.Insert(Left, c.a, got)
		if result := buf.Get(); result != orig {
			t.Errorf("round trip over [%v,%v): got %q, want %q", c.a, c.b, result, orig)
		}
	}
}

func TestGetLeftGetRightBoundaries(t *testing.T) {
	buf := New("ab")
	start := buf.Begin(0)
	if got := start.GetLeft(); got != 0 {
		t.Errorf("GetLeft at start = %v, want 0", got)
	}
	end := buf.End(0)
	if got := end.GetRight(); got != 0 {
		t.Errorf("GetRight at end = %v, want 0", got)
	}
	if got := end.GetLeft(); got != 'b' {
		t.Errorf("GetLeft at end = %v, want 'b'", got)
	}
}

func TestCursorCloseUnlinks(t *testing.T) {
	buf := New("abc")
	c := buf.NewCursor(Pos{0, 1})
	c.Close()
	if c.Valid() {
		t.Error("c.Valid() after Close() = true, want false")
	}
	// Further edits must not panic on a closed cursor.
	buf.Insert(Left, Pos{0, 0}, "X")
	if got := buf.Get(); got != "Xabc" {
		t.Errorf("Get() = %q, want %q", got, "Xabc")
	}
}
