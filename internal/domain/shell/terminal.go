package shell

import (
	"unicode"
	"unicode/utf8"

	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
)

// Terminal is the rendered surface a session writes to and reads back from.
// Rows and columns are 0-based and relative to the visible screen.
type Terminal interface {
	Write(data string)
	Cursor() (col, row int)
	// Line is the text of row without trailing blanks, one rune per cell.
	Line(row int) string
	Colored(col, row int) bool
	Size() (cols, rows int)
	Resize(cols, rows int)
	Clear()
}

// LinkHost is implemented by terminals that keep a link provider. Register
// reports false when one is already registered.
type LinkHost interface {
	RegisterLinkProvider(p *links.Provider) bool
}

// Client receives session output that is not terminal text.
type Client interface {
	Open(url string)
	Links(row int, found []links.Link)
}

// Key is one keystroke. Name is the logical key (Enter, Backspace, Tab,
// ArrowUp, ...) and equals Key for printable input.
type Key struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Ctrl bool   `json:"ctrl"`
}

// Printable reports whether the key inserts a single visible character.
func (k Key) Printable() bool {
	if k.Ctrl || utf8.RuneCountInString(k.Key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(k.Key)
	return unicode.IsPrint(r)
}

func (k Key) is(name string) bool { return k.Name == name }

func (k Key) ctrl(letter string) bool {
	return k.Ctrl && (k.Name == letter || k.Key == letter)
}

// Logical key names.
const (
	KeyEnter      = "Enter"
	KeyBackspace  = "Backspace"
	KeyTab        = "Tab"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Event is something the session loop reacts to.
type Event interface{ event() }

// KeyEvent is a keystroke.
type KeyEvent struct{ Key Key }

// ResizeEvent changes the terminal size.
type ResizeEvent struct{ Cols, Rows int }

// LinksEvent asks for the links on a row.
type LinksEvent struct{ Row int }

// ActivateEvent activates the link under a cell.
type ActivateEvent struct{ Row, Col int }

func (KeyEvent) event()      {}
func (ResizeEvent) event()   {}
func (LinksEvent) event()    {}
func (ActivateEvent) event() {}
