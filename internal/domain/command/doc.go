// Package command turns input lines into results: Parse tokenizes, and
// Dispatcher routes to the virtual filesystem or a canned response.
//
// Mode changes (clear, arcade, file capture) are returned as an Action for
// the caller to apply; the dispatcher itself never touches the terminal.
package command
