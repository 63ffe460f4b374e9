// Package ansi holds the terminal control sequences the session engine emits
// and helpers for measuring text that contains them.
package ansi

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	CRLF        = "\r\n"
	ClearScreen = "\x1b[2J"
	Home        = "\x1b[H"
	ClearBelow  = "\x1b[J"
	ClearLine   = "\x1b[2K"
	HideCursor  = "\x1b[?25l"
	ShowCursor  = "\x1b[?25h"
	Reset       = "\x1b[0m"
	Erase       = "\b \b"
	CursorLeft  = "\x1b[D"
	CursorRight = "\x1b[C"
	CursorUp    = "\x1b[A"
	CursorDown  = "\x1b[B"

	// EndOfRowAbove moves to the last column of the previous row.
	EndOfRowAbove = "\x1b[A\x1b[999C"
	// StartOfRowBelow moves to the first column of the next row.
	StartOfRowBelow = "\x1b[B\x1b[999D"
)

// wideThreshold is the code point above which a rune renders two columns wide.
const wideThreshold = 0x1F000

var sequencePattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// MoveTo positions the cursor at a 1-based row and column.
func MoveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// Strip removes CSI sequences from s.
func Strip(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return sequencePattern.ReplaceAllString(s, "")
}

// RuneWidth is the number of columns r occupies.
func RuneWidth(r rune) int {
	if r > wideThreshold {
		return 2
	}
	return 1
}

// Width is the visual width of s: control sequences count zero, wide runes two.
func Width(s string) int {
	w := 0
	for _, r := range Strip(s) {
		w += RuneWidth(r)
	}
	return w
}

// Lines converts bare LF line breaks to CRLF for terminal display.
func Lines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", CRLF)
}
