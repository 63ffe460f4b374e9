// Package links finds configured keywords in rendered terminal rows and
// turns them into activatable regions.
package links

import (
	"strings"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
)

// Kind is what activating a link does.
type Kind string

const (
	// KindURL opens the payload externally.
	KindURL Kind = "url"
	// KindText writes the payload into the terminal.
	KindText Kind = "text"
)

// Entry is one registered keyword.
type Entry struct {
	Keyword     string
	Kind        Kind
	Payload     string
	Color       string
	StartOffset int
	EndOffset   int
}

// Registry is the read-only keyword list shared by every session built from
// the same content snapshot.
type Registry struct {
	entries []Entry
}

// NewRegistry converts content link specs. Specs without a keyword are
// dropped.
func NewRegistry(specs []content.LinkSpec) *Registry {
	r := &Registry{}
	for _, s := range specs {
		if strings.TrimSpace(s.Key) == "" {
			continue
		}
		kind := KindText
		if strings.EqualFold(s.Type, "url") {
			kind = KindURL
		}
		r.entries = append(r.entries, Entry{
			Keyword:     s.Key,
			Kind:        kind,
			Payload:     s.Value,
			Color:       s.Color,
			StartOffset: s.StartOffset,
			EndOffset:   s.EndOffset,
		})
	}
	return r
}

// Entries returns the registered keywords.
func (r *Registry) Entries() []Entry { return r.entries }

// Link is a matched keyword on one row. Start and End are visual columns,
// End exclusive.
type Link struct {
	Entry Entry
	Row   int
	Start int
	End   int
	Text  string
}

// Contains reports whether the visual column col falls inside the link.
func (l Link) Contains(col int) bool {
	return col >= l.Start && col < l.End
}

// Activator carries out link activation.
type Activator interface {
	OpenURL(url string)
	WriteText(text string)
}

// Activate opens URL links and writes text links.
func (l Link) Activate(a Activator) {
	switch l.Entry.Kind {
	case KindURL:
		a.OpenURL(l.Entry.Payload)
	default:
		a.WriteText(l.Entry.Payload)
	}
}
