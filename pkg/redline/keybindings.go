package redline

import "github.com/zygoloid/redline/pkg/redline/key"

// KeyBindings maps a single logical Key to the Command currently bound to
// it, grounded in the teacher's bindings.cpp std::map<Key, const
// Command*>. Insertion order is irrelevant; the last Add for a given key
// wins.
type KeyBindings struct {
	m map[key.Key]*Command
}

// NewKeyBindings returns an empty KeyBindings table.
func NewKeyBindings() *KeyBindings {
	return &KeyBindings{m: make(map[key.Key]*Command)}
}

// Add binds cmd to combo. It returns false without binding anything
// unless combo has exactly one key (spec.md §3: "the core only binds
// sequences of length 1"). Binding key.NoCombination is therefore a no-op
// that returns false, since NoCombination has zero keys.
func (b *KeyBindings) Add(combo key.Combination, cmd *Command) bool {
	if len(combo) != 1 {
		return false
	}
	b.m[combo[0]] = cmd
	return true
}

// Get returns the Command bound to combo, or nil if combo is not a
// single-key combination or nothing is bound to it.
func (b *KeyBindings) Get(combo key.Combination) *Command {
	if len(combo) != 1 {
		return nil
	}
	return b.m[combo[0]]
}

// AddAll registers every KeyBinding in bindings, one Add call per
// non-empty slot in KeyBinding.Keys.
func (b *KeyBindings) AddAll(bindings ...KeyBinding) {
	for _, kb := range bindings {
		for _, combo := range kb.Keys {
			b.Add(combo, kb.Cmd)
		}
	}
}
