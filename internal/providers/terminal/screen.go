package terminal

import (
	"strings"
	"sync"

	"github.com/phroun/purfecterm"

	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// Screen mirrors the client's terminal grid. Everything written is parsed
// into a local buffer, so the session can read cursor position and cell
// contents back, and is then forwarded to the client unchanged.
type Screen struct {
	mu     sync.Mutex
	buffer *purfecterm.Buffer
	parser *purfecterm.Parser
	sink   func(data string)

	provider *links.Provider
}

// NewScreen creates a cols by rows screen. sink receives every write; nil
// discards.
func NewScreen(cols, rows, scrollback int, sink func(data string)) *Screen {
	buffer := purfecterm.NewBuffer(cols, rows, scrollback)
	return &Screen{
		buffer: buffer,
		parser: purfecterm.NewParser(buffer),
		sink:   sink,
	}
}

// Write parses data and forwards it to the client
func (s *Screen) Write(data string) {
	if data == "" {
		return
	}
	s.mu.Lock()
	s.parser.ParseString(data)
	s.mu.Unlock()

	if s.sink != nil {
		s.sink(data)
	}
}

// Cursor returns the 0-based cursor position
func (s *Screen) Cursor() (col, row int) {
	return s.buffer.GetCursor()
}

// Line returns the text of a visible row without trailing blanks
func (s *Screen) Line(row int) string {
	cols, rows := s.buffer.GetSize()
	if row < 0 || row >= rows {
		return ""
	}

	var b strings.Builder
	for x := 0; x < cols; x++ {
		ch := s.buffer.GetCell(x, row).Char
		if ch == 0 {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

// Colored reports whether the cell carries a non-default foreground
func (s *Screen) Colored(col, row int) bool {
	return s.buffer.GetCell(col, row).Foreground.Type != purfecterm.ColorTypeDefault
}

// Size returns the screen dimensions
func (s *Screen) Size() (cols, rows int) {
	return s.buffer.GetSize()
}

// Resize changes the screen dimensions
func (s *Screen) Resize(cols, rows int) {
	s.buffer.Resize(cols, rows)
}

// Clear wipes the screen and homes the cursor, on both sides
func (s *Screen) Clear() {
	s.Write(ansi.ClearScreen + ansi.Home)
}

// RegisterLinkProvider attaches p unless a provider is already attached
func (s *Screen) RegisterLinkProvider(p *links.Provider) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider != nil {
		return false
	}
	s.provider = p
	return true
}

// LinkProvider returns the attached provider, if any
func (s *Screen) LinkProvider() *links.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}
