//go:build freebsd

package sys

// FreeBSD's generated unix.FdSet names its only field X__fds_bits instead of
// Bits; POSIX code hides this behind macros, but this package has no cgo
// layer to do that for it.

import (
	"reflect"

	"golang.org/x/sys/unix"
)

var nFdBits = uint(reflect.TypeOf(unix.FdSet{}.X__fds_bits[0]).Size() * 8)

type FdSet unix.FdSet

func (fs *FdSet) sys() *unix.FdSet { return (*unix.FdSet)(fs) }

func NewFdSet(fds ...int) *FdSet {
	fs := &FdSet{}
	fs.Set(fds...)
	return fs
}

func (fs *FdSet) Set(fds ...int) {
	for _, fd := range fds {
		u := uint(fd)
		fs.X__fds_bits[u/nFdBits] |= 1 << (u % nFdBits)
	}
}

func (fs *FdSet) IsSet(fd int) bool {
	u := uint(fd)
	return fs.X__fds_bits[u/nFdBits]&(1<<(u%nFdBits)) != 0
}
