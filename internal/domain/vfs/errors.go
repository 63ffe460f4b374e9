package vfs

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	ErrNotFound    = errors.New("no such file or directory")
	ErrIsDirectory = errors.New("is a directory")
	ErrExists      = errors.New("file already exists")
	ErrSeparator   = errors.New("cannot create file with path separators")
)

// PathError renders a failed operation the way a shell reports it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	switch {
	case e.Op == "cd":
		return fmt.Sprintf("cd: no such file or directory: %s", e.Path)
	case errors.Is(e.Err, ErrSeparator):
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, capitalize(e.Err.Error()))
	}
}

// capitalize upper-cases the first letter, as shells print the reason.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func (e *PathError) Unwrap() error { return e.Err }
