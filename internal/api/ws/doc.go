// Package ws connects browser terminal widgets to shell sessions.
//
// Every connection gets its own session, created on upgrade and closed when
// the socket goes away. The widget sends key events and link queries; the
// server streams terminal output back.
//
// Message Types (Client → Server):
//   - key: one keystroke {key, name, ctrl}
//   - resize: new terminal size {cols, rows}
//   - links: which links are on a row {row}
//   - activate: the user clicked a cell {row, col}
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - session: session and client ids, sent after the session starts
//   - output: raw ANSI text to feed the widget
//   - links: link ranges for a requested row
//   - open: a URL link was activated
//   - pong: keep-alive reply
//   - error: protocol error or rejected session
//
// Example Usage:
//
//	handler := ws.NewHandler(manager, &limits, metrics, logger)
//	router.GET("/terminal", handler.HandleConnection)
package ws
