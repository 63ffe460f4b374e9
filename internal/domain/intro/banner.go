// Package intro renders the welcome banner and types it out one character
// at a time.
package intro

import (
	"strings"

	"github.com/fatih/color"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// InnerWidth is the number of columns between the box borders.
const InnerWidth = 73

var (
	border   = ansi.Style(color.FgHiBlue)
	greeting = ansi.Style(color.FgHiYellow)
	tagline  = ansi.Style(color.FgHiCyan)
)

// Banner lays out the intro for a terminal cols wide. Menu items are placed
// two per row inside a bordered box centred on the screen.
func Banner(spec content.Intro, cols int) []string {
	b := box{indent: strings.Repeat(" ", max(0, (cols-InnerWidth-4)/2))}

	lines := []string{""}
	if spec.Greeting != "" {
		lines = append(lines, center(greeting.Sprint(spec.Greeting), cols))
	}
	if spec.Tagline != "" {
		lines = append(lines, center(tagline.Sprint(spec.Tagline), cols))
	}
	lines = append(lines, "", b.edge("┌", "┐"), b.row(""))

	for i := 0; i < len(spec.Menu); i += 2 {
		left := spec.Menu[i]
		var right *content.MenuItem
		if i+1 < len(spec.Menu) {
			right = &spec.Menu[i+1]
		}

		lh, ld := heading(left), "   "+left.Description
		rh, rd := "", ""
		if right != nil {
			rh, rd = heading(*right), "   "+right.Description
		}
		lines = append(lines, b.columns(lh, rh), b.columns(ld, rd))

		if i+2 < len(spec.Menu) {
			lines = append(lines, b.row(""))
		}
	}

	return append(lines, b.row(""), b.edge("└", "┘"), "")
}

func heading(item content.MenuItem) string {
	return "  " + ansi.Paint(item.Color, item.Icon+" "+item.Heading)
}

func center(text string, cols int) string {
	return strings.Repeat(" ", max(0, (cols-ansi.Width(text))/2)) + text
}

type box struct {
	indent string
}

func (b box) edge(left, right string) string {
	return b.indent + border.Sprint(left+strings.Repeat("─", InnerWidth)+right)
}

func (b box) row(content string) string {
	pad := max(0, InnerWidth-ansi.Width(content))
	side := border.Sprint("│")
	return b.indent + side + content + strings.Repeat(" ", pad) + side
}

func (b box) columns(left, right string) string {
	if ansi.Width(right) == 0 {
		return b.row(left)
	}

	half := (InnerWidth - 1) / 2
	lw, rw := ansi.Width(left), ansi.Width(right)
	lp, rp := max(0, half-lw), max(0, half-rw)
	gap := max(1, InnerWidth-lw-rw-lp-rp)

	return b.row(left + strings.Repeat(" ", lp+gap) + right + strings.Repeat(" ", rp))
}
