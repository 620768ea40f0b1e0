package key

import "testing"

var kTests = []struct {
	k1 Key
	k2 Key
}{
	{K('a'), Key('a')},
	{K('A', Ctrl), Key(1)},
	{K('a', Alt), Key('a') | 0x80},
	{K('A', Ctrl, Alt), Key(1) | 0x80},
}

func TestK(t *testing.T) {
	for _, test := range kTests {
		if test.k1 != test.k2 {
			t.Errorf("K(...) = %v, want %v", test.k1, test.k2)
		}
	}
}

func TestStringNamed(t *testing.T) {
	if got := Up.String(); got != "Up" {
		t.Errorf("Up.String() = %q, want Up", got)
	}
	if got := K('x').String(); got != "x" {
		t.Errorf("K('x').String() = %q, want x", got)
	}
	if got := K('x', Ctrl).String(); got != "Ctrl+X" {
		t.Errorf("K('x', Ctrl).String() = %q, want Ctrl+X", got)
	}
	if got := K('f', Alt).String(); got != "Alt+f" {
		t.Errorf("K('f', Alt).String() = %q, want Alt+f", got)
	}
}

func TestCombinationEqual(t *testing.T) {
	a := Combination{K('a'), K('b')}
	b := Combination{K('a'), K('b')}
	c := Combination{K('a')}
	if !a.Equal(b) {
		t.Error("a.Equal(b) = false, want true")
	}
	if a.Equal(c) {
		t.Error("a.Equal(c) = true, want false")
	}
	if !NoCombination.Equal(Combination(nil)) {
		t.Error("NoCombination.Equal(nil) = false, want true")
	}
}
