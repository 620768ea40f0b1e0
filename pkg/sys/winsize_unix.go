//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"
)

// WinSize queries the size of the terminal referenced by file via
// TIOCGWINSZ, falling back to a conventional 24x80 when the kernel
// reports zero (observed on some serial consoles). If the ioctl itself
// fails the error is returned; term.Terminal then falls back to a fixed
// 24x80, not here.
func WinSize(file *os.File) (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	rows, cols = int(ws.Row), int(ws.Col)
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}
	return rows, cols, nil
}
