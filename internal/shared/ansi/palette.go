package ansi

import (
	"strings"

	"github.com/fatih/color"
)

var namedColors = map[string]color.Attribute{
	"black":   color.FgHiBlack,
	"red":     color.FgHiRed,
	"green":   color.FgHiGreen,
	"yellow":  color.FgHiYellow,
	"blue":    color.FgHiBlue,
	"magenta": color.FgHiMagenta,
	"cyan":    color.FgHiCyan,
	"white":   color.FgHiWhite,
}

// Style returns a color that always emits escape sequences, regardless of
// whether the server's own stdout is a terminal.
func Style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Paint wraps text in the named bright foreground color. Unknown names
// return text unchanged.
func Paint(name, text string) string {
	attr, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return text
	}
	return Style(attr).Sprint(text)
}

// KnownColor reports whether name is a palette color.
func KnownColor(name string) bool {
	_, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
