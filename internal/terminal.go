package internal

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const fallbackTerminalWidth = 80

// TerminalWidth prefers $COLUMNS, then the size of stdout, then 80.
func TerminalWidth() int {
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 0 {
		return v
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackTerminalWidth
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
