package ws

import (
	"time"

	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/shell"
)

// Client → server message types
const (
	TypeKey      = "key"
	TypeResize   = "resize"
	TypeLinks    = "links"
	TypeActivate = "activate"
	TypePing     = "ping"
)

// Server → client message types
const (
	TypeSession = "session"
	TypeOutput  = "output"
	TypeOpen    = "open"
	TypePong    = "pong"
	TypeError   = "error"
)

// Inbound is a message from the terminal widget.
type Inbound struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Cols int    `json:"cols,omitempty"`
	Rows int    `json:"rows,omitempty"`
	Row  int    `json:"row,omitempty"`
	Col  int    `json:"col,omitempty"`
}

// Event converts a message into a session event. ok is false for messages
// the session does not handle.
func (m Inbound) Event() (ev shell.Event, ok bool) {
	switch m.Type {
	case TypeKey:
		return shell.KeyEvent{Key: shell.Key{Key: m.Key, Name: m.Name, Ctrl: m.Ctrl}}, true
	case TypeResize:
		if m.Cols <= 0 || m.Rows <= 0 {
			return nil, false
		}
		return shell.ResizeEvent{Cols: m.Cols, Rows: m.Rows}, true
	case TypeLinks:
		return shell.LinksEvent{Row: m.Row}, true
	case TypeActivate:
		return shell.ActivateEvent{Row: m.Row, Col: m.Col}, true
	}
	return nil, false
}

// Outbound is a message to the terminal widget. A links reply with no
// links carries the row only.
type Outbound struct {
	Type      string     `json:"type"`
	ID        string     `json:"id,omitempty"`
	Client    string     `json:"client,omitempty"`
	Data      string     `json:"data,omitempty"`
	Row       *int       `json:"row,omitempty"`
	Links     []LinkView `json:"links,omitempty"`
	URL       string     `json:"url,omitempty"`
	Message   string     `json:"message,omitempty"`
	Timestamp int64      `json:"timestamp,omitempty"`
}

// LinkView is a link range as the widget draws it. Columns are 0-based,
// end exclusive.
type LinkView struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Kind  string `json:"kind"`
}

func linksMessage(row int, found []links.Link) Outbound {
	views := make([]LinkView, 0, len(found))
	for _, l := range found {
		views = append(views, LinkView{Start: l.Start, End: l.End, Text: l.Text, Kind: string(l.Entry.Kind)})
	}
	return Outbound{Type: TypeLinks, Row: &row, Links: views}
}

func errorMessage(msg string) Outbound {
	return Outbound{Type: TypeError, Message: msg, Timestamp: time.Now().Unix()}
}
