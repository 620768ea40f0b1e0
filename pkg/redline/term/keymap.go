package term

import "github.com/zygoloid/redline/pkg/redline/key"

// trieNode is one node of the KeyMap trie. A node with no children is
// terminal: feeding the byte that reaches it completes a sequence, and its
// key field (zero if never assigned) says what logical Key that sequence
// decodes to.
type trieNode struct {
	children map[byte]*trieNode
	key      key.Key
}

// KeyMap is an incremental decoder: a trie keyed by input bytes, built once
// from terminal-provided control characters, terminfo-derived capability
// strings, and a hard-coded fallback table, then fed one byte at a time as
// input arrives.
type KeyMap struct {
	root *trieNode
	cur  *trieNode
	buf  []byte
	// Bell is called whenever Feed resolves a complete sequence that has no
	// mapped key (a terminfo capability for which no logical Key exists,
	// other than the ones explicitly routed to key.Ignored).
	Bell func()
}

// ControlChars holds the four terminal-provided control characters that
// KeyMap gives top decoding priority, sourced from the line discipline's
// VEOF/VSUSP/VINTR/VQUIT special characters.
type ControlChars struct {
	EOF, Suspend, Interrupt, Quit byte
}

// NewKeyMap builds a KeyMap from, in priority order: the four control
// characters, the terminfo-derived capability table in caps, and the
// hard-coded CSI/SS3 fallback table. Earlier sources are never overwritten
// by later ones.
func NewKeyMap(cc ControlChars, caps Capabilities) *KeyMap {
	m := &KeyMap{root: &trieNode{}}

	m.insert([]byte{cc.EOF}, key.Eof)
	m.insert([]byte{cc.Suspend}, key.Suspend)
	m.insert([]byte{cc.Interrupt}, key.Interrupt)
	m.insert([]byte{cc.Quit}, key.Quit)

	for _, e := range capabilityKeyTable(caps) {
		if e.seq != "" {
			m.insert([]byte(e.seq), e.key)
		}
	}
	for _, e := range fallbackKeyTable {
		m.insert([]byte(e.seq), e.key)
	}
	return m
}

func (m *KeyMap) insert(seq []byte, k key.Key) {
	node := m.root
	for _, b := range seq {
		if node.children == nil {
			node.children = make(map[byte]*trieNode)
		}
		next, ok := node.children[b]
		if !ok {
			next = &trieNode{}
			node.children[b] = next
		}
		node = next
	}
	if node.key == 0 {
		node.key = k
	}
}

func (m *KeyMap) reset() {
	m.cur = nil
	m.buf = nil
}

// Feed advances the decoder by one byte and returns zero or more decoded
// Keys. A byte that does not extend the current trie position causes the
// first buffered byte to be emitted as a literal key and the remaining
// buffered bytes (including b) to be re-fed from the root, so no input
// byte is ever dropped.
func (m *KeyMap) Feed(b byte) []key.Key {
	if m.cur == nil {
		m.cur = m.root
	}
	m.buf = append(m.buf, b)

	next, ok := m.cur.children[b]
	if !ok {
		lit := key.Key(m.buf[0])
		rest := m.buf[1:]
		m.reset()
		out := []key.Key{lit}
		for _, rb := range rest {
			out = append(out, m.Feed(rb)...)
		}
		return out
	}

	m.cur = next
	if len(m.cur.children) == 0 {
		k := m.cur.key
		m.reset()
		if k == 0 {
			if m.Bell != nil {
				m.Bell()
			}
			return nil
		}
		return []key.Key{k}
	}
	return nil
}
