package redline

import (
	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/redline/term"
)

// Mode is a node in the Editor's mode stack: it owns a key-to-command
// binding table and may consult a parent Mode for keys it doesn't
// recognize. Grounded in the teacher's mode.hpp/mode.cpp virtual
// interface, adapted to a Go interface with a BaseMode struct
// implementing the non-virtual parts.
type Mode interface {
	// Parent returns the Mode that was active when this one was pushed,
	// or nil if this is the bottom of the stack.
	Parent() Mode
	// GetHandler returns the Command bound to keys in this mode, or in
	// an ancestor if this mode delegates (reverse-i-search does, for any
	// key it doesn't itself recognize); nil if nothing handles keys.
	GetHandler(keys key.Combination) *Command
	// Render draws this mode's current state to t.
	Render(t *term.Terminal)
	// Idle is called once per trip through the Editor's main loop before
	// Render, when the mode is about to block waiting for a key.
	Idle()
}

// BaseMode implements the non-virtual parts of Mode shared by every
// concrete mode: the owned KeyBindings table, the Editor reference, and
// the parent-fallback GetHandler. Concrete modes embed BaseMode by value
// and override Render (mandatory, since BaseMode has none) and, if they
// need typed fallbacks or delegation, GetHandler and Idle.
type BaseMode struct {
	editor   *Editor
	bindings *KeyBindings
	parent   Mode
}

// NewBaseMode returns a BaseMode bound to bindings. It does not push
// itself onto e's stack: call e.PushMode with the fully-constructed
// concrete mode once it exists, since Go constructors return values
// rather than running inside an already-allocated self the way the
// teacher's Mode::Mode does.
func NewBaseMode(e *Editor, bindings *KeyBindings) BaseMode {
	return BaseMode{editor: e, bindings: bindings}
}

func (m *BaseMode) Editor() *Editor { return m.editor }
func (m *BaseMode) Parent() Mode    { return m.parent }
func (m *BaseMode) Idle()           {}

// GetHandler consults the owned KeyBindings table. Subclasses that need a
// typed fallback (insert-printable for ordinary characters, or
// reverse-i-search's delegate-to-parent behavior) override this.
func (m *BaseMode) GetHandler(keys key.Combination) *Command { return m.bindings.Get(keys) }

func (m *BaseMode) setParent(p Mode) { m.parent = p }

// parentSetter is implemented by every *BaseMode (and, through
// embedding, every concrete mode built on one); Editor.PushMode uses it
// to splice the new mode onto the stack without needing to know its
// concrete type.
type parentSetter interface{ setParent(Mode) }
