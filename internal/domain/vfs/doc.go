// Package vfs is the session's virtual filesystem: a typed, read-only
// catalog built from the content source, a flat overlay of files the user
// created, and the working directory used to resolve both.
//
// The overlay is keyed by joined(cwd) + "/" + name ("/notes.txt" at the
// root) and is merged into a directory only one level deep. Created files
// never make directories navigable.
package vfs
