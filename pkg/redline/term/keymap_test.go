package term

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zygoloid/redline/pkg/redline/key"
)

func feedAll(m *KeyMap, s string) []key.Key {
	var out []key.Key
	for i := 0; i < len(s); i++ {
		out = append(out, m.Feed(s[i])...)
	}
	return out
}

func TestKeyMapLiteralByte(t *testing.T) {
	m := NewKeyMap(ControlChars{EOF: 4, Suspend: 26, Interrupt: 3, Quit: 28}, DefaultCapabilities())
	got := feedAll(m, "a")
	want := []key.Key{key.Key('a')}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Feed(%q) mismatch (-want +got):\n%s", "a", diff)
	}
}

func TestKeyMapControlChars(t *testing.T) {
	m := NewKeyMap(ControlChars{EOF: 4, Suspend: 26, Interrupt: 3, Quit: 28}, DefaultCapabilities())
	got := feedAll(m, "\x04\x1a\x03\x1c")
	want := []key.Key{key.Eof, key.Suspend, key.Interrupt, key.Quit}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("control-char sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyMapEscapeSequence(t *testing.T) {
	m := NewKeyMap(ControlChars{EOF: 4, Suspend: 26, Interrupt: 3, Quit: 28}, DefaultCapabilities())
	got := feedAll(m, DefaultCapabilities().Kcuu1)
	want := []key.Key{key.Up}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("arrow-up sequence mismatch (-want +got):\n%s", diff)
	}
}

// A byte that doesn't extend an in-progress sequence is re-fed from the
// root rather than dropped: ESC alone (no following bytes) followed by a
// literal 'x' should decode as Escape, then 'x', not as one garbled key.
func TestKeyMapPartialSequenceFallsBackToLiteral(t *testing.T) {
	m := NewKeyMap(ControlChars{EOF: 4, Suspend: 26, Interrupt: 3, Quit: 28}, DefaultCapabilities())
	got := feedAll(m, "\x1bx")
	want := []key.Key{key.Escape, key.Key('x')}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ESC+x mismatch (-want +got):\n%s", diff)
	}
}

// F1's sequence is in xtermIgnoredCapabilities, mapped to key.Ignored
// rather than left unmapped, so KeyMap resolves it deterministically
// instead of spraying its bytes into the buffer as literals.
func TestKeyMapIgnoredCapabilityResolvesToIgnored(t *testing.T) {
	m := NewKeyMap(ControlChars{EOF: 4, Suspend: 26, Interrupt: 3, Quit: 28}, DefaultCapabilities())
	rang := false
	m.Bell = func() { rang = true }

	got := feedAll(m, "\x1bOP") // F1
	want := []key.Key{key.Ignored}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Feed(F1) mismatch (-want +got):\n%s", diff)
	}
	if rang {
		t.Errorf("Feed(F1) rang the bell for a recognized (if ignored) sequence")
	}
}
