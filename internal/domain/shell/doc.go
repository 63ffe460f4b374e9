// Package shell is the interactive session engine: one Session per
// terminal, holding the filesystem, history and the current input Mode.
//
// Keystrokes are routed by mode. In Normal mode printable keys edit the
// line after the prompt, Enter runs the line through the command
// dispatcher, arrows browse history and Tab completes. Capture mode collects
// lines for cat > and cat >> until Ctrl-D. Game mode forwards keys to the
// arcade until Ctrl-D.
//
// A Session is owned by one goroutine. Run multiplexes key events, the
// intro animation timer and the game ticker so that every state change
// happens there.
package shell
