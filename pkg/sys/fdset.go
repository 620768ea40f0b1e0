//go:build !freebsd && unix

package sys

import (
	"reflect"

	"golang.org/x/sys/unix"
)

// The element type of unix.FdSet.Bits is int64 on Linux and int32 on
// Darwin/BSD; compute its width rather than hard-coding it.
var nFdBits = uint(reflect.TypeOf(unix.FdSet{}.Bits[0]).Size() * 8)

// FdSet wraps the platform's fd_set for use with Select.
type FdSet unix.FdSet

func (fs *FdSet) sys() *unix.FdSet { return (*unix.FdSet)(fs) }

// NewFdSet returns an FdSet with the given file descriptors set.
func NewFdSet(fds ...int) *FdSet {
	fs := &FdSet{}
	fs.Set(fds...)
	return fs
}

func (fs *FdSet) Set(fds ...int) {
	for _, fd := range fds {
		u := uint(fd)
		fs.Bits[u/nFdBits] |= 1 << (u % nFdBits)
	}
}

func (fs *FdSet) IsSet(fd int) bool {
	u := uint(fd)
	return fs.Bits[u/nFdBits]&(1<<(u%nFdBits)) != 0
}
