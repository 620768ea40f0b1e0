// Package sys provides the Unix system-call glue that the term package
// builds its raw-mode terminal and async-wakeup machinery on: line
// discipline attributes, window size, select-based waiting on multiple
// files, and delivering signals to the foreground process group.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 256

// NotifySignals returns a channel on which every signal the process
// receives is delivered. SIGTTIN, SIGTTOU and SIGTSTP are ignored again
// after the subscription, since signal.Notify resets their ignore status.
func NotifySignals() chan os.Signal { return notifySignals() }

// IsATTY reports whether fd refers to a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
