package redline

import "github.com/zygoloid/redline/pkg/redline/key"

// Command is an immutable named closure over (Editor, KeyCombination).
// Commands are long-lived; binding one into a KeyBindings table registers
// a non-owning reference, grounded in the teacher's command.cpp
// Internals-holds-a-boost::function shape, collapsed here into a single
// struct since Go closures need no separate pimpl.
type Command struct {
	Name string
	fn   func(*Editor, key.Combination)
}

// NewCommand builds a Command from a name and a closure that wants the
// keys that triggered it.
func NewCommand(name string, fn func(e *Editor, keys key.Combination)) *Command {
	return &Command{Name: name, fn: fn}
}

// NewCommandNoKeys builds a Command whose closure ignores the triggering
// keys.
func NewCommandNoKeys(name string, fn func(e *Editor)) *Command {
	return &Command{Name: name, fn: func(e *Editor, _ key.Combination) { fn(e) }}
}

// Run invokes c's closure.
func (c *Command) Run(e *Editor, keys key.Combination) { c.fn(e, keys) }

// NewModeCommand builds a Command that, when run, locates the deepest
// Mode on e's stack whose concrete type is *M by walking the parent
// chain, and invokes fn with it; it silently no-ops if no such mode is
// on the stack (spec.md §7, "typed-mode miss").
func NewModeCommand[M any](name string, fn func(m *M, keys key.Combination)) *Command {
	return NewCommand(name, func(e *Editor, keys key.Combination) {
		if m, ok := FindMode[M](e); ok {
			fn(m, keys)
		}
	})
}

// NewModeCommandNoKeys is NewModeCommand for a closure that ignores the
// triggering keys.
func NewModeCommandNoKeys[M any](name string, fn func(m *M)) *Command {
	return NewCommandNoKeys(name, func(e *Editor) {
		if m, ok := FindMode[M](e); ok {
			fn(m)
		}
	})
}

// FindMode walks e's mode stack from the top, looking for a Mode whose
// concrete type is *M.
func FindMode[M any](e *Editor) (*M, bool) {
	for m := e.Mode(); m != nil; m = m.Parent() {
		if t, ok := any(m).(*M); ok {
			return t, true
		}
	}
	return nil, false
}

// KeyBinding is a one-shot construction helper that registers up to three
// key combinations for one command in a single call to KeyBindings.AddAll.
type KeyBinding struct {
	Cmd  *Command
	Keys [3]key.Combination
}
