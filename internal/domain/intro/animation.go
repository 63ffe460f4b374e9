package intro

import (
	"strings"
	"time"

	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// Animation types lines out as a sequence of steps. It holds no timers: the
// owner calls Step, waits the returned delay, and calls Step again. Control
// sequences are emitted whole so a style never appears half-written.
type Animation struct {
	lines     [][]string
	line      int
	unit      int
	charDelay time.Duration
	lineDelay time.Duration
	done      bool
}

// NewAnimation prepares lines for typing.
func NewAnimation(lines []string, charDelay, lineDelay time.Duration) *Animation {
	a := &Animation{charDelay: charDelay, lineDelay: lineDelay}
	for _, l := range lines {
		a.lines = append(a.lines, units(l))
	}
	a.done = len(a.lines) == 0
	return a
}

// Step returns the next output and how long to wait before the following
// step. ok is false once the animation has finished.
func (a *Animation) Step() (out string, delay time.Duration, ok bool) {
	if a.done {
		return "", 0, false
	}

	current := a.lines[a.line]
	if a.unit < len(current) {
		out = current[a.unit]
		a.unit++
		if strings.HasPrefix(out, "\x1b") {
			return out, 0, true
		}
		return out, a.charDelay, true
	}

	a.line++
	a.unit = 0
	if a.line == len(a.lines) {
		a.done = true
	}
	return ansi.CRLF, a.lineDelay, true
}

// Cancel finishes the animation at once and returns everything not yet
// written: the rest of the current line, then every remaining line.
func (a *Animation) Cancel() string {
	if a.done {
		return ""
	}
	a.done = true

	var b strings.Builder
	b.WriteString(strings.Join(a.lines[a.line][a.unit:], ""))
	for i := a.line + 1; i < len(a.lines); i++ {
		b.WriteString(ansi.CRLF)
		b.WriteString(strings.Join(a.lines[i], ""))
	}
	return b.String()
}

// Done reports whether every line has been written.
func (a *Animation) Done() bool { return a.done }

// units splits s into single runes and whole escape sequences.
func units(s string) []string {
	var out []string
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] == 0x1b && i+1 < len(rs) && rs[i+1] == '[' {
			j := i + 2
			for j < len(rs) && !isFinal(rs[j]) {
				j++
			}
			if j < len(rs) {
				out = append(out, string(rs[i:j+1]))
				i = j
				continue
			}
		}
		out = append(out, string(rs[i]))
	}
	return out
}

func isFinal(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
