// Package content loads the static catalog the virtual filesystem and the
// built-in commands are rendered from.
//
// A catalog is one YAML, JSON or TOML document, or a directory tree with an
// optional _content.yaml for the non-filesystem sections. An embedded
// default is used when no path is configured. Source keeps the current
// snapshot and can hot reload it with fsnotify.
package content
