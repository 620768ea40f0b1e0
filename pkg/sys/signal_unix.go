//go:build unix

package sys

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

func notifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh)
	// signal.Notify resets the ignore status of a signal, so SIGTTIN/SIGTTOU/
	// SIGTSTP need to be re-ignored every time; otherwise a backgrounded
	// editor process would be stopped by the kernel on its own terminal I/O.
	signal.Ignore(syscall.SIGTTIN, syscall.SIGTTOU, syscall.SIGTSTP)
	return sigCh
}

// StopSignals stops relaying signals to a channel returned by
// NotifySignals and closes it.
func StopSignals(ch chan os.Signal) {
	signal.Stop(ch)
	close(ch)
}

// SIGWINCH is the window size change signal.
const SIGWINCH = unix.SIGWINCH

// ForegroundPgrp returns the process group currently in the foreground of
// the terminal referenced by fd, per tcgetpgrp(fd).
func ForegroundPgrp(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}

// KillForegroundProcessGroup sends sig to the process group currently in
// the foreground of the terminal referenced by fd. This is how the editor
// delivers SIGINT, SIGQUIT and SIGTSTP to the process it is embedded in
// (spec: "-tcgetpgrp(0)"): a negative pid to kill(2) targets a process
// group rather than a single process.
func KillForegroundProcessGroup(fd int, sig syscall.Signal) error {
	pgrp, err := ForegroundPgrp(fd)
	if err != nil {
		return err
	}
	return syscall.Kill(-pgrp, sig)
}
