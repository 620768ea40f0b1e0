//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"
)

// Termios mirrors the platform's line discipline attributes.
type Termios = unix.Termios

// GetAttr reads the current line discipline attributes of file.
func GetAttr(file *os.File) (*Termios, error) {
	return unix.IoctlGetTermios(int(file.Fd()), getAttrIOCTL)
}

// SetAttr installs attr as the line discipline attributes of file,
// effective immediately (TCSANOW-equivalent). The caller is responsible
// for flushing or draining as appropriate before switching.
func SetAttr(file *os.File, attr *Termios) error {
	return unix.IoctlSetTermios(int(file.Fd()), setAttrNowIOCTL, attr)
}

// MakeRaw returns a copy of attr with the flags needed for raw byte-at-a-
// time terminal input: no echo, no canonical line buffering, no signal
// generation from the tty driver (the editor delivers INTR/QUIT/SUSP to
// the foreground process group itself, see sys.KillForegroundProcessGroup),
// no input stripping or parity checking, and VMIN=1/VTIME=0 so a Read
// returns as soon as a single byte is available.
func MakeRaw(attr Termios) Termios {
	raw := attr
	raw.Iflag &^= unix.ISTRIP | unix.INLCR | unix.ICRNL | unix.IGNCR | unix.IXON | unix.IXOFF | unix.PARMRK
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Oflag &^= unix.OPOST
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return raw
}
