// Package storage persists small per-client records: the created-file overlay
// and the arcade high score.
//
// Store encodes values as JSON and writes through to one of three backends:
//   - file: one JSON file per key, replaced atomically
//   - sqlite: a single kv table (modernc.org/sqlite, no cgo)
//   - memory: tests and throwaway sessions
//
// Namespaces are client ids; keys are record names such as "vfs.created_files".
package storage
