package redline

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/zygoloid/redline/pkg/redline/key"
	"github.com/zygoloid/redline/pkg/redline/term"
)

// Editor owns the Terminal, the mode stack, and a thread-safe FIFO of
// asynchronously-submitted Commands, and runs the main loop from
// spec.md §4.6. Grounded in the teacher's editor.cpp Internals (the
// pthread-mutex LockedFifo becomes a sync.Mutex-guarded slice; commands
// pushed onto it are owned by Go's GC rather than explicitly freed after
// running).
type Editor struct {
	Capabilities term.Capabilities

	terminal *term.Terminal
	mode     Mode
	// endModeRequested defers EndMode to just after the current
	// dispatch returns (spec.md §9's DeleteRightOrEndMode note): ending
	// a mode while a Command on that mode is still running on the
	// dispatch stack would invalidate the receiver out from under the
	// call.
	endModeRequested bool

	asyncMu   sync.Mutex
	asyncFifo []*Command

	stdin *bufio.Reader
}

// NewEditor returns an Editor with no active mode; callers push an
// initial mode (typically an EmacsMode) before calling Run.
func NewEditor(caps term.Capabilities) *Editor {
	return &Editor{Capabilities: caps}
}

// Mode returns the currently active Mode, or nil if the stack is empty.
func (e *Editor) Mode() Mode { return e.mode }

// Terminal returns the Editor's Terminal, or nil if Run was called with
// noTerminal or hasn't been called yet.
func (e *Editor) Terminal() *term.Terminal { return e.terminal }

// PushMode makes m the active mode, setting its parent to whatever was
// previously active. Concrete mode constructors call this once the mode
// value is fully built (see NewBaseMode's doc comment).
func (e *Editor) PushMode(m Mode) {
	if ps, ok := m.(parentSetter); ok {
		ps.setParent(e.mode)
	}
	e.mode = m
}

// EndMode requests that the current mode be replaced by its parent. Per
// spec.md §9, this takes effect only after the command that requested it
// returns, never mid-dispatch.
func (e *Editor) EndMode() { e.endModeRequested = true }

// AsyncCommand enqueues cmd to run on the main loop's thread after the
// current (or next) foreground key's command finishes, and — if a
// terminal is live — wakes any blocked WaitForKey so the loop notices
// without delay. Safe to call from any goroutine.
func (e *Editor) AsyncCommand(cmd *Command) {
	e.asyncMu.Lock()
	e.asyncFifo = append(e.asyncFifo, cmd)
	e.asyncMu.Unlock()
	if e.terminal != nil {
		e.terminal.AsyncInterrupt()
	}
}

func (e *Editor) drainAsync() {
	for {
		e.asyncMu.Lock()
		if len(e.asyncFifo) == 0 {
			e.asyncMu.Unlock()
			return
		}
		cmd := e.asyncFifo[0]
		e.asyncFifo = e.asyncFifo[1:]
		e.asyncMu.Unlock()
		cmd.Run(e, key.NoCombination)
	}
}

// Run is the main loop: while a mode is active, it idles and renders the
// top mode, blocks for a key, dispatches it, drains asynchronously
// posted commands, and repeats for as long as more keys are already
// buffered. With noTerminal set, it reads bytes directly from os.Stdin
// instead of opening a raw-mode Terminal — used for tests and for
// embedding into a host that manages its own terminal.
func (e *Editor) Run(noTerminal bool) error {
	if !noTerminal {
		t, err := term.NewTerminal(os.Stdin, os.Stdout, e.Capabilities)
		if err != nil {
			return err
		}
		e.terminal = t
		defer func() {
			e.terminal.Close()
			e.terminal = nil
		}()
	} else {
		e.stdin = bufio.NewReader(os.Stdin)
	}

	for e.mode != nil {
		if e.terminal != nil {
			e.mode.Idle()
			e.mode.Render(e.terminal)
			if err := e.terminal.WaitForKey(true); err != nil {
				return err
			}
		}

		for {
			k, ok, err := e.readKey()
			if err != nil {
				return err
			}
			if !ok {
				break
			}

			combo := key.Single(k)
			if cmd := e.mode.GetHandler(combo); cmd != nil {
				cmd.Run(e, combo)
			} else if e.terminal != nil && k != key.AsyncInterrupted {
				e.terminal.Bell()
			}
			if e.endModeRequested {
				e.endModeRequested = false
				if e.mode != nil {
					e.mode = e.mode.Parent()
				}
			}

			e.drainAsync()

			if e.mode == nil || !(e.terminal != nil && e.terminal.HaveKey()) {
				break
			}
		}
	}
	return nil
}

func (e *Editor) readKey() (key.Key, bool, error) {
	if e.terminal != nil {
		k, ok := e.terminal.GetKey()
		return k, ok, nil
	}
	b, err := e.stdin.ReadByte()
	if err == io.EOF {
		return key.Eof, true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return key.Key(b), true, nil
}
