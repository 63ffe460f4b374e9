package vfs

import (
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
	"github.com/bmatcuk/doublestar/v4"
)

// Node is one line of a directory view: a catalog entry or a created file.
type Node struct {
	Name        string
	Dir         bool
	Description string
	Size        int
	Created     bool
}

// FS is one session's filesystem: the shared catalog, the session's
// overlay, and the working directory.
type FS struct {
	catalog *Catalog
	overlay *Overlay
	cwd     []string

	// Now stamps long listings.
	Now func() time.Time
}

// New starts at the root.
func New(catalog *Catalog, overlay *Overlay) *FS {
	if overlay == nil {
		overlay = NewOverlay()
	}
	return &FS{catalog: catalog, overlay: overlay, Now: time.Now}
}

// Cwd returns a copy of the working directory segments.
func (f *FS) Cwd() []string {
	return append([]string(nil), f.cwd...)
}

// Pwd renders the working directory as ~ or ~/a/b.
func (f *FS) Pwd() string {
	if len(f.cwd) == 0 {
		return "~"
	}
	return "~/" + strings.Join(f.cwd, "/")
}

// View merges the catalog directory at dir with the created files directly
// inside it. Created files are listed after catalog entries.
func (f *FS) View(dir []string) ([]Node, bool) {
	d, ok := f.catalog.ResolveDirectory(dir)
	if !ok {
		return nil, false
	}

	var nodes []Node
	for _, e := range d.Children() {
		switch e := e.(type) {
		case *Directory:
			nodes = append(nodes, Node{Name: e.Name(), Dir: true, Description: e.Description(), Size: 4096})
		case *File:
			nodes = append(nodes, Node{Name: e.Name(), Size: len(e.Content())})
		}
	}
	for _, name := range f.overlay.Names(dir) {
		body, _ := f.overlay.Get(Key(dir, name))
		nodes = append(nodes, Node{Name: name, Size: len(body), Created: true})
	}
	return nodes, true
}

// Names returns the entry names of the working directory, optionally
// restricted to directories or files.
func (f *FS) Names(dirsOnly, filesOnly bool) []string {
	nodes, _ := f.View(f.cwd)
	var names []string
	for _, n := range nodes {
		if (dirsOnly && !n.Dir) || (filesOnly && n.Dir) {
			continue
		}
		names = append(names, n.Name)
	}
	return names
}

// List renders the working directory. pattern, when set, filters entry
// names with glob syntax.
func (f *FS) List(long bool, pattern string) string {
	nodes, ok := f.View(f.cwd)
	if !ok {
		return "Directory not found"
	}

	if pattern != "" {
		kept := nodes[:0:0]
		for _, n := range nodes {
			if match, err := doublestar.Match(pattern, n.Name); err == nil && match {
				kept = append(kept, n)
			}
		}
		nodes = kept
	}

	lines := make([]string, 0, len(nodes)+1)
	if long {
		lines = append(lines, fmt.Sprintf("total %d", len(nodes)))
		date := f.Now().Format("1/2/2006")
		for _, n := range nodes {
			kind, suffix := "-", ""
			if n.Dir {
				kind, suffix = "d", "/"
			}
			lines = append(lines, fmt.Sprintf("%srw-r--r--  1 user  staff  %5d  %s  %s%s", kind, n.Size, date, n.Name, suffix))
		}
	} else {
		for _, n := range nodes {
			switch {
			case n.Dir && n.Description != "":
				lines = append(lines, n.Name+"/ - "+n.Description)
			case n.Dir:
				lines = append(lines, n.Name+"/")
			default:
				lines = append(lines, n.Name)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, ansi.CRLF))
}

// Read returns a file's content with CRLF line breaks. name may be a path
// relative to the working directory or rooted at ~ or /.
func (f *FS) Read(name string) (string, error) {
	dir, base, ok := f.split(name)
	if !ok {
		return "", &PathError{Op: "cat", Path: name, Err: ErrNotFound}
	}

	if body, ok := f.overlay.Get(Key(dir, base)); ok {
		return ansi.Lines(body), nil
	}

	d, ok := f.catalog.ResolveDirectory(dir)
	if !ok {
		return "", &PathError{Op: "cat", Path: name, Err: ErrNotFound}
	}
	switch e, _ := d.Child(base); e := e.(type) {
	case *File:
		return ansi.Lines(e.Content()), nil
	case *Directory:
		return "", &PathError{Op: "cat", Path: name, Err: ErrIsDirectory}
	default:
		return "", &PathError{Op: "cat", Path: name, Err: ErrNotFound}
	}
}

// Raw returns the unconverted content of name in the working directory,
// preferring a created file over a catalog file.
func (f *FS) Raw(name string) (string, bool) {
	if body, ok := f.overlay.Get(Key(f.cwd, name)); ok {
		return body, true
	}
	d, ok := f.catalog.ResolveDirectory(f.cwd)
	if !ok {
		return "", false
	}
	if file, ok := d.Child(name); ok {
		if file, ok := file.(*File); ok {
			return file.Content(), true
		}
	}
	return "", false
}

// Write stores content as name in the working directory. Appending to an
// existing file joins with a newline.
func (f *FS) Write(name, content string, appendMode bool) {
	key := Key(f.cwd, name)
	if existing, ok := f.overlay.Get(key); ok && appendMode {
		content = existing + "\n" + content
	}
	f.overlay.Put(key, content)
}

// Create makes an empty file in the working directory.
func (f *FS) Create(name string) error {
	if strings.Contains(name, "/") {
		return &PathError{Op: "touch", Path: name, Err: ErrSeparator}
	}
	key := Key(f.cwd, name)
	if _, ok := f.overlay.Get(key); ok {
		return &PathError{Op: "touch", Path: name, Err: ErrExists}
	}
	f.overlay.Put(key, "")
	return nil
}

// ChangeDirectory moves to expr. On any failing segment the working
// directory is left untouched.
func (f *FS) ChangeDirectory(expr string) error {
	next, ok := f.resolve(expr)
	if !ok {
		return &PathError{Op: "cd", Path: expr, Err: ErrNotFound}
	}
	f.cwd = next
	return nil
}

// resolve interprets ~, ~/x, /x, relative paths, "." and "..". ".." never
// climbs above the root.
func (f *FS) resolve(expr string) ([]string, bool) {
	expr = strings.TrimSpace(expr)

	var path []string
	rest := expr
	switch {
	case expr == "" || expr == "~" || expr == "~/":
		return []string{}, true
	case strings.HasPrefix(expr, "~/"):
		rest = expr[2:]
	case strings.HasPrefix(expr, "/"):
		rest = expr[1:]
	default:
		path = f.Cwd()
	}

	for _, seg := range strings.Split(rest, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		default:
			path = append(path, seg)
			if _, ok := f.catalog.ResolveDirectory(path); !ok {
				return nil, false
			}
		}
	}
	return path, true
}

// split resolves the directory part of a file path.
func (f *FS) split(name string) (dir []string, base string, ok bool) {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return f.Cwd(), name, true
	}
	dirExpr, base := name[:i], name[i+1:]
	if dirExpr == "" {
		dirExpr = "/"
	}
	dir, ok = f.resolve(dirExpr)
	return dir, base, ok && base != ""
}

// Tree renders the working directory and everything below it.
func (f *FS) Tree() string {
	var b strings.Builder
	b.WriteString(f.Pwd())
	f.tree(&b, f.Cwd(), "")
	return b.String()
}

func (f *FS) tree(b *strings.Builder, dir []string, indent string) {
	nodes, _ := f.View(dir)
	for i, n := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}
		b.WriteString(ansi.CRLF + indent + branch + n.Name)
		if n.Dir {
			b.WriteString("/")
			f.tree(b, append(append([]string(nil), dir...), n.Name), indent+next)
		}
	}
}
