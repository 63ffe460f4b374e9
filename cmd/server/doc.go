// Package main is the entry point for the terminal portfolio server.
//
// The server hosts shell sessions for browser terminal widgets. Each
// websocket connection gets its own session; created files and arcade high
// scores are kept per client in the configured store.
//
// Architecture:
//
//	Browser (xterm widget) ⇄ /terminal websocket → session loop → shadow screen
//	                                                      ↓
//	                                         content source + storage
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Serve the embedded content
//	./server -port 8000
//
//	# Serve a content directory and reload it on change
//	CONTENT_WATCH=true ./server -content ./portfolio
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
