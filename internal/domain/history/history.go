// Package history records submitted commands and browses them with a cursor.
package history

// History is an append-only list of commands with a browsing cursor in
// [0, Len()]; Len() means a fresh line.
type History struct {
	entries []string
	cursor  int
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Record appends a non-empty command and resets the cursor to a fresh line.
func (h *History) Record(command string) {
	if command == "" {
		return
	}
	h.entries = append(h.entries, command)
	h.cursor = len(h.entries)
}

// Step moves the cursor by direction (-1 older, +1 newer) and returns the
// line that should replace the current input. ok is false when nothing
// changes. Stepping newer from the last entry (or from a fresh line) clears
// the input.
func (h *History) Step(direction int) (line string, ok bool) {
	if len(h.entries) == 0 {
		return "", false
	}

	next := h.cursor + direction
	switch {
	case next < 0:
		return "", false
	case next >= len(h.entries):
		h.cursor = len(h.entries)
		return "", true
	default:
		h.cursor = next
		return h.entries[next], true
	}
}

// Len is the number of recorded commands.
func (h *History) Len() int { return len(h.entries) }

// Cursor is the browsing position.
func (h *History) Cursor() int { return h.cursor }

// Entries returns a copy of the recorded commands, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
