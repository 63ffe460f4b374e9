// Package server assembles the terminal service: content source, storage,
// session manager, middleware and routes, and runs it until shutdown.
package server
