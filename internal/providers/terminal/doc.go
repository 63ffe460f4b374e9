// Package terminal hosts live shell sessions.
//
// Each session owns a Screen: a server-side copy of the client's terminal
// grid, kept in step by feeding every write through an ANSI parser before it
// is forwarded. The shell engine reads cursor position, row text and cell
// colors back from it, which is what its edit-safety rules and link
// annotation need.
//
// Architecture:
//   - The Manager creates sessions, enforces the session limit and shares the
//     filesystem catalog and link registry per content version
//   - Every session runs its shell loop on its own goroutine; callers only
//     queue events with Send
//   - Per-client state (created files, high score) is loaded from the store
//     when the session starts
//
// Example Usage:
//
//	manager := terminal.NewManager(cfg, source, store, metrics, logger)
//	sess, err := manager.Create(ctx, terminal.CreateRequest{Cols: 120, Rows: 36}, client)
//	sess.Send(ctx, shell.KeyEvent{Key: shell.Key{Name: "Enter"}})
//	manager.Kill(sess.ID)
package terminal
