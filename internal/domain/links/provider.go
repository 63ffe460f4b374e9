package links

import (
	"strings"

	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// Surface is the rendered grid a provider reads from.
type Surface interface {
	Line(row int) string
	Colored(col, row int) bool
}

// Provider answers link queries for one terminal, lazily per row.
type Provider struct {
	registry *Registry
	surface  Surface
	// rows starting with this prefix (the prompt) are never annotated
	skip string
}

// NewProvider binds a registry to a surface.
func NewProvider(registry *Registry, surface Surface, skipPrefix string) *Provider {
	return &Provider{registry: registry, surface: surface, skip: skipPrefix}
}

// LinksAt returns the links on row.
func (p *Provider) LinksAt(row int) []Link {
	line := p.surface.Line(row)
	if p.skip != "" && strings.HasPrefix(ansi.Strip(line), p.skip) {
		return nil
	}
	return p.registry.Scan(row, line, func(index int) bool {
		return p.surface.Colored(index, row)
	})
}

// At returns the link covering the visual column col on row.
func (p *Provider) At(row, col int) (Link, bool) {
	for _, l := range p.LinksAt(row) {
		if l.Contains(col) {
			return l, true
		}
	}
	return Link{}, false
}
