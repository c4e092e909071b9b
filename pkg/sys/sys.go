// Package sys provides terminal and signal utilities with the same API across
// OSes.
package sys

import (
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
)

// IsATTY reports whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WinSize queries the size of the terminal referenced by the given file. It
// returns -1, -1 if the file is not a terminal.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// Width returns the number of columns of the terminal referenced by the
// given file, or def if it is not a terminal.
func Width(file *os.File, def int) int {
	if _, col := winSize(file); col > 0 {
		return col
	}
	return def
}

// NotifyInterrupt returns a channel on which interrupt signals are delivered,
// and a function that stops the delivery.
func NotifyInterrupt() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}
