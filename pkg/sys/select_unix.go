//go:build unix

package sys

import (
	"time"

	"golang.org/x/sys/unix"
)

// Select wraps the select(2) syscall. A negative timeout blocks forever.
func Select(nfd int, r, w, e *FdSet, timeout time.Duration) error {
	var ptimeval *unix.Timeval
	if timeout >= 0 {
		tv := unix.NsecToTimeval(int64(timeout))
		ptimeval = &tv
	}
	var rs, ws, es *unix.FdSet
	if r != nil {
		rs = r.sys()
	}
	if w != nil {
		ws = w.sys()
	}
	if e != nil {
		es = e.sys()
	}
	_, err := unix.Select(nfd, rs, ws, es, ptimeval)
	return err
}

// WaitForRead blocks until any of the given files is ready to be read, or
// timeout elapses. A negative timeout blocks forever. It is the primitive
// behind term.Terminal's wait_for_key, which selects on stdin and the
// async-interrupt pipe simultaneously.
func WaitForRead(timeout time.Duration, files ...fileWithFd) (ready []bool, err error) {
	maxfd := 0
	fdset := NewFdSet()
	for _, f := range files {
		fd := int(f.Fd())
		if fd > maxfd {
			maxfd = fd
		}
		fdset.Set(fd)
	}
	err = Select(maxfd+1, fdset, nil, nil, timeout)
	ready = make([]bool, len(files))
	for i, f := range files {
		ready[i] = fdset.IsSet(int(f.Fd()))
	}
	return ready, err
}

// fileWithFd is satisfied by *os.File; it exists so WaitForRead doesn't
// force callers to import os for a type they may already have as an
// interface in tests.
type fileWithFd interface {
	Fd() uintptr
}
