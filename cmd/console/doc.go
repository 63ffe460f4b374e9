// Command termfolio-console runs one portfolio shell session in the local
// terminal.
//
// The terminal is put in raw mode and every keystroke is forwarded to the
// session, the same way the browser widget does over the websocket. Created
// files and the arcade high score persist in --storage under --client.
//
// Usage:
//
//	termfolio-console
//	termfolio-console --content ./portfolio --storage ~/.termfolio.db
//
// Ctrl-C quits unless a game or a cat capture is running.
package main
